// pkg/session/reader.go
// NDJSON reader/writer for session.Frame records. Grounded on
// pkg/trace/reader.go's readNDJSON (bufio.Scanner line-by-line JSON decode);
// the protobuf branch (fromProto/TraceBatch) has no analog here since the
// wire protocol this module speaks is JSON end to end, so only the NDJSON
// path is carried forward (see DESIGN.md).
package session

import (
	"bufio"
	"encoding/json"
	"io"
)

// ReadAll decodes every newline-delimited Frame record from r.
func ReadAll(r io.Reader) ([]Frame, error) {
	var frames []Frame
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(line, &f); err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

// Writer appends Frame records to an underlying io.Writer as NDJSON, one
// compact JSON object per line.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Write encodes and appends f.
func (wr *Writer) Write(f Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = wr.w.Write(b)
	return err
}

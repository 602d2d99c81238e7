// internal/transport/file.go
// File replays a recorded pkg/session onto the Transport interface: Inbound
// frames are emitted on Lines() (optionally paced to match their original
// spacing), Outbound sends are appended to an optional recording Writer
// instead of going anywhere over a network. Useful for tests and offline
// analysis without a live platform, matching the role the teacher's
// cmd/flarego replay.go / record.go play for flamegraph snapshots.
package transport

import (
	"context"
	"io"
	"time"

	"github.com/nsilva/fjagego/pkg/session"
)

// FileOptions configures a File transport.
type FileOptions struct {
	// Paced replays Inbound frames spaced by their recorded timestamps
	// instead of as fast as possible.
	Paced bool
	// Record, if set, receives every Send as an Outbound session.Frame.
	Record *session.Writer
	// Now supplies the current time for recorded Outbound frames; defaults
	// to time.Now.
	Now func() time.Time
}

// File implements Transport by replaying previously recorded frames.
type File struct {
	frames []session.Frame
	opts   FileOptions

	lines chan []byte
	errs  chan error
}

// NewFile returns a File transport that replays frames read from r via
// session.ReadAll.
func NewFile(r io.Reader, opts FileOptions) (*File, error) {
	frames, err := session.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &File{
		frames: frames,
		opts:   opts,
		lines:  make(chan []byte, 256),
		errs:   make(chan error, 1),
	}, nil
}

func (f *File) Lines() <-chan []byte { return f.lines }
func (f *File) Errs() <-chan error   { return f.errs }

func (f *File) Connect(ctx context.Context) error {
	go f.replay(context.WithoutCancel(ctx))
	return nil
}

func (f *File) replay(ctx context.Context) {
	defer close(f.lines)
	var prev time.Time
	for _, frame := range f.frames {
		if frame.Direction != session.Inbound {
			continue
		}
		if f.opts.Paced && !prev.IsZero() {
			select {
			case <-time.After(frame.At.Sub(prev)):
			case <-ctx.Done():
				return
			}
		}
		prev = frame.At
		select {
		case f.lines <- []byte(frame.Raw):
		case <-ctx.Done():
			return
		}
	}
}

// Send records the frame (if a Writer was configured) rather than
// transmitting it anywhere.
func (f *File) Send(line []byte) error {
	if f.opts.Record == nil {
		return nil
	}
	return f.opts.Record.Write(session.Frame{
		At:        f.opts.Now(),
		Direction: session.Outbound,
		Raw:       string(line),
	})
}

func (f *File) Close() error { return nil }

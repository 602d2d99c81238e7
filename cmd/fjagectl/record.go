// cmd/fjagectl/record.go
// Implements `fjagectl record`: dials a platform directly over TCP (not
// through a Gateway, so every raw frame can be captured) and writes every
// inbound line to a pkg/session NDJSON file for later inspection or replay
// via internal/transport.File. Grounded on the teacher's cmd/flarego
// record.go (start a collector, run for --duration, write the result to
// disk), generalised from a flamegraph sampling session to a wire-frame
// capture session.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nsilva/fjagego/internal/wire"
	"github.com/nsilva/fjagego/pkg/session"
)

func newRecordCmd() *cobra.Command {
	var (
		addr       string
		agentName  string
		duration   time.Duration
		outFile    string
		subscribes []string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record raw wire frames from a platform to an NDJSON session file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration <= 0 {
				return fmt.Errorf("--duration must be > 0")
			}
			if outFile == "" {
				outFile = fmt.Sprintf("fjage-session-%s.ndjson", time.Now().Format("20060102T150405"))
			}
			if agentName == "" {
				agentName = "RecorderGo"
			}

			conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
			if err != nil {
				return fmt.Errorf("dial: %w", err)
			}
			defer conn.Close()

			ids := append([]string{agentName}, subscribes...)
			watch := wire.NewWantsMessagesForEnvelope(wire.NewMessageID(), ids)
			line, err := wire.EncodeLine(watch)
			if err != nil {
				return err
			}
			if _, err := conn.Write(append(line, '\n')); err != nil {
				return fmt.Errorf("subscribe: %w", err)
			}

			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer f.Close()
			w := session.NewWriter(f)

			ctx, cancel := context.WithTimeout(cmd.Context(), duration)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				scanner := bufio.NewScanner(conn)
				scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
				for scanner.Scan() {
					_ = w.Write(session.Frame{At: time.Now(), Direction: session.Inbound, Raw: scanner.Text()})
				}
			}()

			fmt.Printf("recording %s for %s -> %s\n", addr, duration, outFile)
			select {
			case <-ctx.Done():
			case <-done:
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:1100", "Platform TCP gateway address (host:port)")
	cmd.Flags().StringVar(&agentName, "name", "", "Agent name to present as while recording")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 30*time.Second, "Recording duration")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output NDJSON session file (default auto-named)")
	cmd.Flags().StringSliceVar(&subscribes, "topic", nil, "Topic(s) to subscribe to before recording (repeatable)")
	return cmd
}

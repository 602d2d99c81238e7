// cmd/fjagectl/replay.go
// Implements `fjagectl replay`: loads a session file recorded by `fjagectl
// record` and either prints a summary or decodes and prints every frame.
// Grounded on the teacher's cmd/flarego replay.go (summary-by-default,
// --json for full detail).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nsilva/fjagego/internal/wire"
	"github.com/nsilva/fjagego/pkg/session"
)

func newReplayCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "replay <session.ndjson>",
		Short: "Inspect a recorded NDJSON session file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			frames, err := session.ReadAll(f)
			if err != nil {
				return fmt.Errorf("decode session: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				for _, fr := range frames {
					env, err := wire.DecodeLine([]byte(fr.Raw))
					if err != nil {
						continue
					}
					if err := enc.Encode(env); err != nil {
						return err
					}
				}
				return nil
			}

			var in, out int
			for _, fr := range frames {
				if fr.Direction == session.Inbound {
					in++
				} else {
					out++
				}
			}
			fmt.Printf("file: %s\n", args[0])
			fmt.Printf("frames: %d (in=%d out=%d)\n", len(frames), in, out)
			if len(frames) > 0 {
				fmt.Printf("span: %s -> %s\n", frames[0].At, frames[len(frames)-1].At)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Decode and print every frame as JSON instead of a summary")
	return cmd
}

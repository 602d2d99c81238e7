// cmd/fjagectl/send.go
// Implements `fjagectl send`: sends a GenericMessage carrying an optional
// "text" field plus any fields given via --data to an agent or topic,
// optionally waiting for a reply.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nsilva/fjagego/pkg/fjage"
)

func newSendCmd() *cobra.Command {
	flags := &commonGatewayFlags{}
	var (
		to      string
		topic   bool
		text    string
		dataRaw string
		wait    bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to an agent or topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				return fmt.Errorf("--to is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			gw, err := fjage.Open(ctx, flags.addr, flags.options())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer gw.Close()

			msg := fjage.NewGenericMessage()
			if text != "" {
				msg = msg.Set("text", text)
			}
			if dataRaw != "" {
				var extra map[string]any
				if err := json.Unmarshal([]byte(dataRaw), &extra); err != nil {
					return fmt.Errorf("--data is not valid JSON: %w", err)
				}
				for k, v := range extra {
					msg = msg.Set(k, v)
				}
			}

			dest := gw.Agent(to)
			if topic {
				dest = gw.Topic(to)
			}

			if !wait {
				if err := dest.Send(msg); err != nil {
					return fmt.Errorf("send: %w", err)
				}
				fmt.Println("sent:", msg.MsgID)
				return nil
			}

			rsp, err := dest.Request(ctx, msg, flags.timeout)
			if err != nil {
				return fmt.Errorf("request: %w", err)
			}
			fmt.Println("reply:", rsp.String())
			for k, v := range rsp.Data {
				fmt.Printf("  %s = %v\n", k, v)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&to, "to", "", "Destination agent (or topic with --topic)")
	cmd.Flags().BoolVar(&topic, "topic", false, "Treat --to as a topic name")
	cmd.Flags().StringVar(&text, "text", "", "Value of the message's \"text\" field")
	cmd.Flags().StringVar(&dataRaw, "data", "", "Extra fields as a JSON object, merged into the message")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block for a reply instead of fire-and-forget")
	return cmd
}

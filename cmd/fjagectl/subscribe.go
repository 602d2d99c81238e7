// cmd/fjagectl/subscribe.go
// Implements `fjagectl subscribe`: subscribes to one or more topics (plus
// this agent's own inbox) and prints every message received until the
// context is cancelled or --duration elapses.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nsilva/fjagego/pkg/fjage"
)

func newSubscribeCmd() *cobra.Command {
	flags := &commonGatewayFlags{}
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "subscribe <topic> [more topics...]",
		Short: "Subscribe to one or more topics and print messages as they arrive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			connCtx, cancelConn := context.WithTimeout(cmd.Context(), flags.timeout)
			gw, err := fjage.Open(connCtx, flags.addr, flags.options())
			cancelConn()
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer gw.Close()

			for _, t := range args {
				topic := gw.Topic(t)
				if err := gw.Subscribe(topic); err != nil {
					return fmt.Errorf("subscribe %s: %w", t, err)
				}
				fmt.Println("subscribed:", topic)
			}

			runCtx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(runCtx, duration)
				defer cancel()
			}

			for {
				msg, err := gw.Receive(runCtx, nil, 0)
				if err != nil {
					return nil
				}
				fmt.Printf("[%s] %s from %s: %v\n", time.Now().Format(time.RFC3339), msg.String(), msg.Sender, msg.Data)
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (0 = run until interrupted)")
	return cmd
}

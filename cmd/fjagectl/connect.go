// cmd/fjagectl/connect.go
// Implements `fjagectl connect`: dials a platform, prints its agent and
// service directory, and exits. Useful as a smoke test for connectivity and
// as a template for the flag set shared by send/subscribe/record.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nsilva/fjagego/pkg/fjage"
)

// commonGatewayFlags are shared by every command that opens a Gateway.
type commonGatewayFlags struct {
	addr      string
	agentName string
	timeout   time.Duration
	reconnect bool
}

func (f *commonGatewayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.addr, "addr", "localhost:1100", "Platform TCP gateway address (host:port)")
	cmd.Flags().StringVar(&f.agentName, "name", "", "Agent name to present as (default auto-generated)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 10*time.Second, "Connect / request timeout")
	cmd.Flags().BoolVar(&f.reconnect, "reconnect", true, "Reconnect the transport with backoff on disconnect")
}

func (f *commonGatewayFlags) options() fjage.GatewayOptions {
	opts := fjage.DefaultGatewayOptions()
	opts.ConnectTimeout = f.timeout
	opts.DefaultTimeout = f.timeout
	opts.Reconnect = f.reconnect
	if f.agentName != "" {
		opts.AgentName = f.agentName
	} else {
		opts.AgentName = fmt.Sprintf("GatewayCtl-%d", time.Now().UnixNano()%1e6)
	}
	return opts
}

func newConnectCmd() *cobra.Command {
	flags := &commonGatewayFlags{}

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to a platform and print its agent/service directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			gw, err := fjage.Open(ctx, flags.addr, flags.options())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer gw.Close()

			agents, err := gw.Agents(ctx)
			if err != nil {
				return fmt.Errorf("agents: %w", err)
			}
			fmt.Printf("agents (%d):\n", len(agents))
			for _, a := range agents {
				fmt.Printf("  %s\n", a)
			}

			services, err := gw.Services(ctx)
			if err != nil {
				return fmt.Errorf("services: %w", err)
			}
			fmt.Printf("services (%d):\n", len(services))
			for _, s := range services {
				fmt.Printf("  %s\n", s)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/client"
)

type rootOptions struct {
	server  string
	timeout time.Duration
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.server)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "neogardenctl",
		Short:        "Command line client for the NeoGarden API",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", client.DefaultBaseURL, "NeoGarden API base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")

	cmd.AddCommand(
		newPingCmd(opts),
		newStatusCmd(opts),
		newGardenCmd(opts),
	)
	return cmd
}

func newPingCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Call the API root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			msg, err := opts.client().Hello(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"message": msg})
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *rootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

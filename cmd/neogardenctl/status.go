package main

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Create and list status checks",
	}
	cmd.AddCommand(newStatusCreateCmd(opts), newStatusListCmd(opts))
	return cmd
}

func newStatusCreateCmd(opts *rootOptions) *cobra.Command {
	var clientName string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a status check for a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			check, err := opts.client().CreateStatusCheck(ctx, clientName)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), check)
		},
	}
	cmd.Flags().StringVar(&clientName, "client", "", "client name to record")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func newStatusListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List status checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			checks, err := opts.client().ListStatusChecks(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), checks)
		},
	}
}

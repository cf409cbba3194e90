package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured store is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("error connecting: %w", err)
		}
		defer release()

		if err := svc.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every note in the collection",
	Long:  "Delete every note in the configured collection. There is no confirmation and no way back.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("error connecting: %w", err)
		}
		defer release()

		n, err := svc.Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("error clearing collection: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d notes\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

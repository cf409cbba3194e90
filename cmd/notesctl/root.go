package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"notes-api/internal/config"
	"notes-api/internal/database"
	"notes-api/internal/logging"
	"notes-api/internal/service"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "notesctl",
	Short: "Maintenance commands for the notes collection",
	Long: `notesctl talks to the same document store as the notes API, using the
same environment configuration (MONGO_URI or COUCHDB_URL, DATABASE_NAME,
COLLECTION_NAME). It is meant for local resets and inspection.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		logger = logging.New(level, "text", os.Stderr)
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// openStore is the store opener used by every command.
var openStore = openService

// openService loads the configuration and connects to the store. The
// returned function releases the client.
func openService(ctx context.Context) (*service.NoteService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	repo, closeStore, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	release := func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Warn("Failed to close store client", "error", err)
		}
	}
	return service.NewNoteService(repo, logger), release, nil
}

package database

import (
	"context"
	"fmt"
	"log/slog"

	"notes-api/internal/config"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
)

// ConnectCouch pings the CouchDB server and returns the configured database,
// creating it when it does not exist yet.
func ConnectCouch(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*kivik.Client, *kivik.DB, error) {
	if cfg.CouchURL == "" {
		return nil, nil, fmt.Errorf("%w: missing required environment variable: COUCHDB_URL", config.ErrConfiguration)
	}
	if err := ValidateCouchDatabaseName(cfg.Name); err != nil {
		return nil, nil, err
	}
	if err := ValidateCollectionName(cfg.Collection); err != nil {
		return nil, nil, err
	}

	client, err := kivik.New("couch", cfg.CouchURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid COUCHDB_URL: %v", config.ErrConfiguration, err)
	}

	ok, err := client.Ping(ctx)
	if err != nil || !ok {
		client.Close()
		return nil, nil, fmt.Errorf("%w: failed to ping CouchDB server: %v", ErrConnectivity, err)
	}

	exists, err := client.DBExists(ctx, cfg.Name)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to check database existence: %w", err)
	}

	if !exists {
		if err := client.CreateDB(ctx, cfg.Name); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to create database: %w", err)
		}
		log.Info("Created database", "database", cfg.Name)
	}

	db := client.DB(cfg.Name)
	if err := db.Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	return client, db, nil
}

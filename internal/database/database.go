// Package database resolves the configured document store and hands out a
// note repository bound to one collection. Every failure is classified as a
// configuration or connectivity error so callers can refuse to start.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"notes-api/internal/config"
	"notes-api/internal/repository"
)

// ErrConnectivity marks a store that could not be reached at startup.
var ErrConnectivity = errors.New("connectivity error")

// Closer releases the underlying client.
type Closer func(ctx context.Context) error

// Open connects to the configured store, verifies it is alive and returns the
// note repository for the configured collection.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (repository.NoteRepository, Closer, error) {
	repo, closer, err := open(ctx, cfg, log)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrConfiguration):
			log.Error("Configuration error", "driver", cfg.Driver, "error", err)
		case errors.Is(err, ErrConnectivity):
			log.Error("Store connection failure", "driver", cfg.Driver, "error", err)
		default:
			log.Error("Unexpected error while opening store", "driver", cfg.Driver, "error", err)
		}
		return nil, nil, err
	}

	log.Info("Connected to document store", "driver", cfg.Driver, "database", cfg.Name, "collection", cfg.Collection)
	return repo, closer, nil
}

func open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (repository.NoteRepository, Closer, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	switch cfg.Driver {
	case config.DriverMongo:
		coll, err := ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewMongoNoteRepository(coll, log), coll.Database().Client().Disconnect, nil

	case config.DriverCouch:
		client, db, err := ConnectCouch(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		closer := func(context.Context) error { return client.Close() }
		return repository.NewCouchNoteRepository(db, cfg.Collection, log), closer, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown store driver %q", config.ErrConfiguration, cfg.Driver)
	}
}

// ValidateMongoDatabaseName applies MongoDB's database naming restrictions.
func ValidateMongoDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: database name is empty", config.ErrConfiguration)
	}
	if len(name) >= 64 {
		return fmt.Errorf("%w: database name %q is longer than 63 bytes", config.ErrConfiguration, name)
	}
	if strings.ContainsAny(name, `/\. "$*<>:|?`+"\x00") {
		return fmt.Errorf("%w: database name %q contains an invalid character", config.ErrConfiguration, name)
	}
	return nil
}

var couchDBName = regexp.MustCompile(`^[a-z][a-z0-9_$()+/-]*$`)

// ValidateCouchDatabaseName applies CouchDB's database naming restrictions.
func ValidateCouchDatabaseName(name string) error {
	if !couchDBName.MatchString(name) {
		return fmt.Errorf("%w: database name %q is not a valid CouchDB name", config.ErrConfiguration, name)
	}
	return nil
}

func ValidateCollectionName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: collection name is empty", config.ErrConfiguration)
	case strings.ContainsAny(name, "$\x00"):
		return fmt.Errorf("%w: collection name %q contains an invalid character", config.ErrConfiguration, name)
	case strings.HasPrefix(name, "system."):
		return fmt.Errorf("%w: collection name %q uses the reserved system. prefix", config.ErrConfiguration, name)
	}
	return nil
}

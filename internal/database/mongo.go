package database

import (
	"context"
	"fmt"

	"notes-api/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo returns the configured collection after a successful ping on
// the primary.
func ConnectMongo(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Collection, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("%w: missing required environment variable: MONGO_URI", config.ErrConfiguration)
	}
	if err := ValidateMongoDatabaseName(cfg.Name); err != nil {
		return nil, err
	}
	if err := ValidateCollectionName(cfg.Collection); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid MONGO_URI: %v", config.ErrConfiguration, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: failed to ping MongoDB server: %v", ErrConnectivity, err)
	}

	return client.Database(cfg.Name).Collection(cfg.Collection), nil
}

package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// selects the fleet database and ensures its indexes. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := ensureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, err
	}
	return client, db, nil
}

// indexModels declares the indexes each collection relies on. The unique
// email index is what turns a concurrent duplicate signup into the
// duplicate-key error that MongoAuthRepository maps to ErrUserExists.
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		authCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		driverCollection: {
			{Keys: bson.D{{Key: "license_expires_at", Value: 1}}},
		},
		tripCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		eventCollection: {
			{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
		},
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexModels() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", coll, err)
		}
	}
	return nil
}

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

const (
	collectionPrices  = "prices"
	collectionHistory = "price_history"
	collectionRegions = "regions"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database.
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

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes used by conflict detection and listing.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prices := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "service_id", Value: 1},
			{Key: "service_type", Value: 1},
			{Key: "origin_region_id", Value: 1},
			{Key: "destination_region_id", Value: 1},
			{Key: "is_current", Value: 1},
		}},
		{Keys: bson.D{{Key: "price_type", Value: 1}, {Key: "visibility_type", Value: 1}}},
		{Keys: bson.D{{Key: "visible_orgs", Value: 1}}},
		{Keys: bson.D{{Key: "updated_at", Value: 1}}},
		{Keys: bson.D{{Key: "expiry_date", Value: 1}}},
	}
	if _, err := db.Collection(collectionPrices).Indexes().CreateMany(ctx, prices); err != nil {
		return fmt.Errorf("price indexes: %w", err)
	}

	history := []mongo.IndexModel{{Keys: bson.D{{Key: "price_id", Value: 1}, {Key: "operated_at", Value: -1}}}}
	if _, err := db.Collection(collectionHistory).Indexes().CreateMany(ctx, history); err != nil {
		return fmt.Errorf("history indexes: %w", err)
	}
	return nil
}

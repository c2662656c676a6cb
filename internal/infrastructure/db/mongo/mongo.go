// Package mongo is the persistent catalog and account store of the development
// backend (STORE=mongo). Movies embed their reviews; ids come from a counters
// collection so they stay small integers in URLs.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "reelnotes-devapi"
)

// Config mirrors MONGO_URI and MONGO_DB.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect opens the devapi connection, pings the primary, and returns the
// reelnotes database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("catalog store connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("catalog store ping %s: %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}

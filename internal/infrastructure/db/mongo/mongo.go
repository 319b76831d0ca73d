// Package mongo keeps portal sessions in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultTimeout bounds connecting and every single store operation.
const defaultTimeout = 10 * time.Second

// Config locates the session database.
type Config struct {
	URI      string
	Database string
	// TTL expires sessions idle for longer. Zero keeps them forever.
	TTL     time.Duration
	Timeout time.Duration
}

// Open connects, checks the server answers and prepares the session
// collection. The returned store owns the client; Close releases it.
func Open(ctx context.Context, cfg Config) (*SessionStore, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New("mongo: uri and database are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	openCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("school-portal").
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(openCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(openCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	store := NewSessionStore(client.Database(cfg.Database), cfg.TTL)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: session indexes: %w", err)
	}
	return store, nil
}

// Close disconnects the underlying client.
func (s *SessionStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.col.Database().Client().Disconnect(ctx)
}

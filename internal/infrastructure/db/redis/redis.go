// Package redis keeps portal sessions in Redis hashes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// Config locates the session server.
type Config struct {
	Addr     string
	Password string
	DB       int
	// TTL is refreshed on every write. Zero keeps sessions until logout.
	TTL time.Duration
}

// Open dials Redis and returns a session store once the server answers a
// ping. The store owns the client; Close releases it.
func Open(ctx context.Context, cfg Config) (*SessionStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return NewSessionStore(client, cfg.TTL), nil
}

// Close releases the connection pool.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

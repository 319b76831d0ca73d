package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecolenet/school-portal/internal/core/ports"
)

const keyPrefix = "portal:session:"

// SessionStore keeps portal sessions in Redis, one hash per browser session.
// Key format: portal:session:<sid>. Every write refreshes the expiry.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore returns a factory of per-session stores. A ttl <= 0 keeps
// sessions until they are deleted.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Scope(sessionID string) ports.SessionStore {
	return &scopedStore{client: s.client, key: keyPrefix + sessionID, ttl: s.ttl}
}

func (s *SessionStore) Name() string { return "redis" }

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

type scopedStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (s *scopedStore) Get(ctx context.Context, field string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", field, err)
	}
	return v, true, nil
}

func (s *scopedStore) Set(ctx context.Context, field, value string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key, field, value)
		if s.ttl > 0 {
			p.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set %s: %w", field, err)
	}
	return nil
}

func (s *scopedStore) Delete(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

const (
	lockPrefix     = "portal:inflight:"
	releaseTimeout = 2 * time.Second
)

// releaseScript deletes the lock only while it still holds the caller's
// token, so a holder whose lock expired cannot free a newer one.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RequestLock admits one outstanding request per key across every portal
// sharing the Redis server.
// Key format: portal:inflight:<sid>:<control>
type RequestLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRequestLock returns a lock whose keys expire after ttl, which bounds
// how long a crashed holder blocks the control.
func NewRequestLock(client *redis.Client, ttl time.Duration) *RequestLock {
	return &RequestLock{client: client, ttl: ttl}
}

// RequestLock shares the session store's connection pool.
func (s *SessionStore) RequestLock(ttl time.Duration) *RequestLock {
	return NewRequestLock(s.client, ttl)
}

func (l *RequestLock) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockPrefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("inflight acquire: %w", err)
	}
	if !ok {
		return nil, domain.ErrRequestInFlight
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()
			_ = releaseScript.Run(ctx, l.client, []string{lockPrefix + key}, token).Err()
		})
	}, nil
}

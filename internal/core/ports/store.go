package ports

import "context"

// SessionStore is durable key/value storage for one client session. It
// survives process restarts for every implementation except the in-memory one.
type SessionStore interface {
	// Get returns the value under key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// StoreFactory hands out one SessionStore per browser session id.
type StoreFactory interface {
	Scope(sessionID string) SessionStore
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// RequestLock admits one outstanding request per key. Acquire fails with
// domain.ErrRequestInFlight while the key is held. Every replica of the
// portal must share the lock for the rule to hold across them.
type RequestLock interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

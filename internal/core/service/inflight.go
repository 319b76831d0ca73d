package service

import (
	"context"
	"sync"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

// InFlight allows at most one outstanding request per key, typically a
// session id plus the control that issued it. It only sees the requests of
// its own process; replicated portals share a Redis lock instead.
type InFlight struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{busy: make(map[string]struct{})}
}

// Acquire marks key busy and returns the function that clears it. It fails
// with domain.ErrRequestInFlight while a previous holder has not released.
func (f *InFlight) Acquire(_ context.Context, key string) (release func(), err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, held := f.busy[key]; held {
		return nil, domain.ErrRequestInFlight
	}
	f.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.busy, key)
			f.mu.Unlock()
		})
	}, nil
}

// Do runs fn while holding key.
func (f *InFlight) Do(ctx context.Context, key string, fn func() error) error {
	release, err := f.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

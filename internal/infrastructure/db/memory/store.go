// Package memory provides process-local session storage. Sessions do not
// survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ecolenet/school-portal/internal/core/ports"
)

// Store is a single session held in memory.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.data, k)
	}
	s.mu.Unlock()
	return nil
}

type entry struct {
	data    map[string]string
	touched time.Time
}

// Factory holds every browser session of the process. A session takes
// memory only once a key is written, is dropped when its last key is
// deleted, and expires ttl after its last write. A zero ttl never expires.
type Factory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewFactory(ttl time.Duration) *Factory {
	return &Factory{ttl: ttl, now: time.Now, entries: make(map[string]*entry)}
}

func (f *Factory) Scope(sessionID string) ports.SessionStore {
	return scoped{f: f, id: sessionID}
}

// Len reports the sessions currently held.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// Sweep drops expired sessions and reports how many went.
func (f *Factory) Sweep() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, e := range f.entries {
		if f.expired(e) {
			delete(f.entries, id)
			n++
		}
	}
	return n
}

// lookup is called with f.mu held.
func (f *Factory) lookup(id string) *entry {
	e, ok := f.entries[id]
	if !ok {
		return nil
	}
	if f.expired(e) {
		delete(f.entries, id)
		return nil
	}
	return e
}

func (f *Factory) expired(e *entry) bool {
	return f.ttl > 0 && f.now().Sub(e.touched) > f.ttl
}

type scoped struct {
	f  *Factory
	id string
}

func (s scoped) Get(_ context.Context, key string) (string, bool, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	e := s.f.lookup(s.id)
	if e == nil {
		return "", false, nil
	}
	v, ok := e.data[key]
	return v, ok, nil
}

func (s scoped) Set(_ context.Context, key, value string) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	e := s.f.lookup(s.id)
	if e == nil {
		e = &entry{data: make(map[string]string)}
		s.f.entries[s.id] = e
	}
	e.data[key] = value
	e.touched = s.f.now()
	return nil
}

func (s scoped) Delete(_ context.Context, keys ...string) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	e := s.f.lookup(s.id)
	if e == nil {
		return nil
	}
	for _, k := range keys {
		delete(e.data, k)
	}
	if len(e.data) == 0 {
		delete(s.f.entries, s.id)
	}
	return nil
}

// Package filestore persists sessions as JSON files: a single file for the
// command line client, one file per browser session for the portal.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/ports"
)

const (
	fileMode  = 0o600
	lockCount = 64
)

// Store keeps every key in one JSON object on disk. Writes go to a
// temporary file renamed over the original. A file that does not decode is
// removed and read as empty.
type Store struct {
	path string
	ttl  time.Duration
	mu   *sync.Mutex
	log  zerolog.Logger
	now  func() time.Time
}

func New(path string) *Store {
	return &Store{path: path, mu: new(sync.Mutex), log: zerolog.Nop(), now: time.Now}
}

// WithLogger reports discarded files on l.
func (s *Store) WithLogger(l zerolog.Logger) *Store {
	s.log = l
	return s
}

// DefaultPath is the session file under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ecolectl", "session.json"), nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value
	return s.save(data)
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(data, k)
	}
	if len(data) == 0 {
		return s.remove()
	}
	return s.save(data)
}

func (s *Store) load() (map[string]string, error) {
	data := make(map[string]string)
	if expired, err := s.expired(); err == nil && expired {
		return data, s.remove()
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("discarding unreadable session file")
		return make(map[string]string), s.remove()
	}
	return data, nil
}

func (s *Store) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("filestore: %w", err)
	}
	return nil
}

func (s *Store) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, fileMode); err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("filestore: %w", err)
	}
	return nil
}

// Dir hands out one session file per browser session under root. Session
// ids must be safe file names; the portal only issues uuids.
//
// Nothing is kept per session in memory: a Scope is a path plus one of a
// fixed set of locks. Files untouched for longer than ttl read as empty and
// are removed by Sweep.
type Dir struct {
	root  string
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
	locks [lockCount]sync.Mutex
}

func NewDir(root string, ttl time.Duration, log zerolog.Logger) *Dir {
	return &Dir{root: root, ttl: ttl, log: log, now: time.Now}
}

func (d *Dir) Scope(sessionID string) ports.SessionStore {
	return d.scope(sessionID)
}

func (d *Dir) scope(sessionID string) *Store {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &Store{
		path: filepath.Join(d.root, sessionID+".json"),
		ttl:  d.ttl,
		mu:   &d.locks[h.Sum32()%lockCount],
		log:  d.log,
		now:  d.now,
	}
}

// Sweep removes session files older than the ttl and reports how many are
// left. Without a ttl it only counts.
func (d *Dir) Sweep() (removed, kept int, err error) {
	entries, err := os.ReadDir(d.root)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("filestore: %w", err)
	}
	for _, e := range entries {
		sid, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() {
			continue
		}
		if d.ttl <= 0 {
			kept++
			continue
		}
		s := d.scope(sid)
		s.mu.Lock()
		expired, err := s.expired()
		if err == nil && expired {
			err = s.remove()
		}
		s.mu.Unlock()
		if err != nil {
			return removed, kept, err
		}
		if expired {
			removed++
		} else {
			kept++
		}
	}
	return removed, kept, nil
}

// expired is called with s.mu held.
func (s *Store) expired() (bool, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("filestore: %w", err)
	}
	return s.ttl > 0 && s.now().Sub(info.ModTime()) > s.ttl, nil
}

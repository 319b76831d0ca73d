// Package logger holds the process-wide zerolog logger of the portal and of
// ecolectl.
//
// Init it once in main, then hand Get or Component values to constructors.
// Packages below main take a zerolog.Logger argument and never call Get
// themselves, so tests can pass zerolog.Nop().
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is one of trace, debug, info, warn, error or off. Anything else
	// means info.
	Level string
	// Pretty switches from JSON lines to zerolog's console writer.
	Pretty bool
	// Output defaults to os.Stdout. ecolectl sends logs to os.Stderr so they
	// do not mix with command output.
	Output io.Writer
	// Service is attached to every entry when set.
	Service string
}

var (
	mu     sync.RWMutex
	root   zerolog.Logger
	ready  bool
	inited sync.Once
)

// Init builds the logger on first call and returns it. Later calls return
// the same logger and ignore opts.
func Init(opts Options) zerolog.Logger {
	inited.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var out io.Writer = os.Stdout
		if opts.Output != nil {
			out = opts.Output
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		b := zerolog.New(out).Level(lvl).With().Timestamp()
		if opts.Service != "" {
			b = b.Str("service", opts.Service)
		}
		if lvl <= zerolog.DebugLevel {
			b = b.Caller()
		}

		mu.Lock()
		root, ready = b.Logger(), true
		mu.Unlock()
	})
	return Get()
}

// Get returns the logger built by Init. It panics when Init was never called.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !ready {
		panic("logger: Get() called before Init()")
	}
	return root
}

// Component tags the root logger with the subsystem emitting the entries.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// WithSession tags l with a short prefix of a browser session id. The full
// id authenticates the browser and is never logged.
func WithSession(l zerolog.Logger, sessionID string) zerolog.Logger {
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}
	return l.With().Str("session", sessionID).Logger()
}

// Reset forgets the logger so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	inited = sync.Once{}
	root, ready = zerolog.Logger{}, false
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "off", "disabled":
		return zerolog.Disabled
	case "warning":
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

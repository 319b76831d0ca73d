package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/api"
	"github.com/ecolenet/school-portal/internal/api/handler"
	"github.com/ecolenet/school-portal/internal/api/middleware"
	"github.com/ecolenet/school-portal/internal/core/ports"
	"github.com/ecolenet/school-portal/internal/core/service"
	"github.com/ecolenet/school-portal/internal/infrastructure/backend"
	"github.com/ecolenet/school-portal/internal/infrastructure/db/filestore"
	"github.com/ecolenet/school-portal/internal/infrastructure/db/memory"
	mongostore "github.com/ecolenet/school-portal/internal/infrastructure/db/mongo"
	redisstore "github.com/ecolenet/school-portal/internal/infrastructure/db/redis"
	"github.com/ecolenet/school-portal/internal/infrastructure/queue"
	"github.com/ecolenet/school-portal/internal/pkg/config"
	"github.com/ecolenet/school-portal/pkg/logger"
)

const (
	backendTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title           School Portal API
// @version         1.0
// @description     Session gateway in front of the school management backend.
// @BasePath        /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "school-portal",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, logger.Component("store"))
	if err != nil {
		return err
	}
	defer st.close()
	if st.sweep != nil {
		go sweepSessions(ctx, cfg.Session.SweepInterval, st.sweep, logger.Component("store"))
	}
	pingers := st.pingers

	cl, err := backend.New(cfg.BackendURL, &http.Client{Timeout: backendTimeout}, logger.Component("backend"))
	if err != nil {
		return err
	}
	pingers = append(pingers, cl)

	dispatcher := queue.NewBatchDispatcher("roster", cfg.DispatchWorkers, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	e := api.NewRouter(api.RouterConfig{
		Session: middleware.SessionOptions{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			TTL:        cfg.Session.TTL,
		},
		Stores: st.factory,
		Deps: handler.Deps{
			Backend:  cl,
			Roster:   service.NewRosterService(dispatcher, logger.Component("roster")),
			InFlight: st.lock,
		},
		Pingers: pingers,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.BackendURL).
			Str("store", cfg.Store.Driver).
			Msg("portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// stores is the session storage selected by STORE_DRIVER. Remote drivers
// are pingers for the readiness probe; local drivers have a sweep.
type stores struct {
	factory ports.StoreFactory
	lock    ports.RequestLock
	pingers []ports.Pinger
	sweep   func() (removed, kept int, err error)
	close   func()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	ttl := cfg.Session.TTL
	switch cfg.Store.Driver {
	case config.StoreFile:
		root := cfg.Store.Path
		if root == "" {
			p, err := filestore.DefaultPath()
			if err != nil {
				return nil, err
			}
			root = filepath.Join(filepath.Dir(p), "sessions")
		}
		log.Info().Str("dir", root).Msg("file session store")
		dir := filestore.NewDir(root, ttl, log)
		return &stores{
			factory: dir,
			lock:    service.NewInFlight(),
			sweep:   dir.Sweep,
			close:   func() {},
		}, nil

	case config.StoreRedis:
		store, err := redisstore.Open(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      ttl,
		})
		if err != nil {
			return nil, err
		}
		return &stores{
			factory: store,
			lock:    store.RequestLock(cfg.Session.InFlightTTL),
			pingers: []ports.Pinger{store},
			close: func() {
				if err := store.Close(); err != nil {
					log.Warn().Err(err).Msg("redis close")
				}
			},
		}, nil

	case config.StoreMongo:
		store, err := mongostore.Open(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			TTL:      ttl,
		})
		if err != nil {
			return nil, err
		}
		return &stores{
			factory: store,
			lock:    store.RequestLock(cfg.Session.InFlightTTL),
			pingers: []ports.Pinger{store},
			close: func() {
				if err := store.Close(context.Background()); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil

	default:
		log.Warn().Msg("memory session store, sessions are lost on restart")
		mem := memory.NewFactory(ttl)
		return &stores{
			factory: mem,
			lock:    service.NewInFlight(),
			sweep: func() (int, int, error) {
				return mem.Sweep(), mem.Len(), nil
			},
			close: func() {},
		}, nil
	}
}

// sweepSessions drops expired sessions every interval until ctx ends.
func sweepSessions(ctx context.Context, interval time.Duration, sweep func() (int, int, error), log zerolog.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			removed, kept, err := sweep()
			if err != nil {
				log.Warn().Err(err).Msg("session sweep failed")
				continue
			}
			log.Debug().Int("removed", removed).Int("kept", kept).Msg("session sweep")
		}
	}
}

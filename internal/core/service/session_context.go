package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/ports"
)

// SessionContext owns the authenticated user of one client. It is the only
// writer of its SessionStore.
type SessionContext struct {
	store ports.SessionStore
	nav   ports.Navigator
	log   zerolog.Logger

	mu      sync.RWMutex
	state   domain.SessionState
	session *domain.Session
}

// NewSessionContext builds a context and hydrates it from store before
// returning. If the store cannot be read the context stays Initializing.
func NewSessionContext(ctx context.Context, store ports.SessionStore, nav ports.Navigator, log zerolog.Logger) *SessionContext {
	sc := &SessionContext{
		store: store,
		nav:   nav,
		log:   log,
		state: domain.StateInitializing,
	}
	if err := sc.Hydrate(ctx); err != nil {
		log.Warn().Err(err).Msg("session hydration failed")
	}
	return sc
}

// Hydrate reloads the session from the store. A malformed user record is
// deleted and the context falls back to Unauthenticated; it is never returned
// as an error. Only store read failures are.
func (sc *SessionContext) Hydrate(ctx context.Context) error {
	token, hasToken, err := sc.store.Get(ctx, domain.KeyToken)
	if err != nil {
		return fmt.Errorf("hydrate: read token: %w", err)
	}
	raw, hasUser, err := sc.store.Get(ctx, domain.KeyUser)
	if err != nil {
		return fmt.Errorf("hydrate: read user: %w", err)
	}

	if !hasUser {
		sc.commit(domain.StateUnauthenticated, nil)
		return nil
	}

	profile, err := domain.DecodeProfile(raw)
	if err != nil {
		sc.log.Error().Err(err).Msg("discarding corrupt user record")
		if delErr := sc.store.Delete(ctx, domain.KeyUser); delErr != nil {
			sc.log.Warn().Err(delErr).Msg("failed to delete corrupt user record")
		}
		sc.commit(domain.StateUnauthenticated, nil)
		return nil
	}

	if !hasToken || token == "" {
		sc.commit(domain.StateUnauthenticated, nil)
		return nil
	}

	sc.commit(domain.StateAuthenticated, domain.NewSession(token, profile))
	return nil
}

// LoginUser records a successful login and redirects to the role's
// dashboard. A profile without a role is rejected before anything is written.
func (sc *SessionContext) LoginUser(ctx context.Context, token string, profile domain.Profile, refresh string) (*domain.Session, error) {
	if profile.Role == "" {
		sc.log.Error().Str("username", profile.Username).Msg("login rejected: profile has no role")
		return nil, domain.ErrRoleMissing
	}

	raw, err := domain.EncodeProfile(profile)
	if err != nil {
		return nil, fmt.Errorf("login: encode profile: %w", err)
	}

	if err := sc.persist(ctx, token, raw, refresh); err != nil {
		return nil, err
	}

	sess := domain.NewSession(token, profile)
	sc.commit(domain.StateAuthenticated, sess)

	// commit has released the lock: any reader the navigator triggers
	// observes the new session.
	route := domain.DashboardRoute(profile.Role)
	sc.log.Info().
		Str("username", profile.Username).
		Str("role", profile.Role).
		Str("route", route).
		Msg("login succeeded")
	sc.nav.Navigate(ctx, route)

	return sess.Clone(), nil
}

func (sc *SessionContext) persist(ctx context.Context, token, rawProfile, refresh string) error {
	if err := sc.store.Set(ctx, domain.KeyToken, token); err != nil {
		return fmt.Errorf("login: store token: %w", err)
	}
	// A login without a refresh token must not leave the previous
	// account's token behind for logout to revoke.
	var err error
	if refresh != "" {
		err = sc.store.Set(ctx, domain.KeyRefresh, refresh)
	} else {
		err = sc.store.Delete(ctx, domain.KeyRefresh)
	}
	if err == nil {
		err = sc.store.Set(ctx, domain.KeyUser, rawProfile)
	}
	if err != nil {
		if delErr := sc.store.Delete(ctx, domain.SessionKeys...); delErr != nil {
			sc.log.Warn().Err(delErr).Msg("failed to roll back partial session")
		}
		return fmt.Errorf("login: store session: %w", err)
	}
	return nil
}

// LogoutUser clears durable storage, drops the session and navigates home.
// It cannot fail; storage errors are logged.
func (sc *SessionContext) LogoutUser(ctx context.Context) {
	if err := sc.store.Delete(ctx, domain.SessionKeys...); err != nil {
		sc.log.Error().Err(err).Msg("failed to clear session storage")
	}
	sc.commit(domain.StateUnauthenticated, nil)
	sc.nav.Navigate(ctx, domain.RouteHome)
}

// Snapshot returns the current state and a copy of the session, which is
// nil unless the state is Authenticated.
func (sc *SessionContext) Snapshot() (domain.SessionState, *domain.Session) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.state, sc.session.Clone()
}

// RefreshToken returns the stored refresh token, if any.
func (sc *SessionContext) RefreshToken(ctx context.Context) (string, error) {
	v, _, err := sc.store.Get(ctx, domain.KeyRefresh)
	return v, err
}

// Token satisfies ports.TokenSource. It reads through to the store so that
// requests always carry what is persisted.
func (sc *SessionContext) Token(ctx context.Context) (string, error) {
	v, _, err := sc.store.Get(ctx, domain.KeyToken)
	if err != nil && !errors.Is(err, context.Canceled) {
		sc.log.Warn().Err(err).Msg("token read failed")
	}
	return v, err
}

func (sc *SessionContext) commit(state domain.SessionState, sess *domain.Session) {
	sc.mu.Lock()
	sc.state = state
	sc.session = sess
	sc.mu.Unlock()
}

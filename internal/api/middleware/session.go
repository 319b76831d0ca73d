package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/ports"
	"github.com/ecolenet/school-portal/internal/core/service"
	"github.com/ecolenet/school-portal/pkg/logger"
)

const portalKey = "portal"

// SessionOptions configures the browser session cookie.
type SessionOptions struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// Navigator records where the session asked the browser to go. The handler
// turns the recorded route into a redirect once the request completes.
type Navigator struct {
	mu    sync.Mutex
	route string
}

func (n *Navigator) Navigate(_ context.Context, route string) {
	n.mu.Lock()
	n.route = route
	n.mu.Unlock()
}

// Route returns the last requested route, or "" when none was requested.
func (n *Navigator) Route() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

// Portal is the per-request session bundle.
type Portal struct {
	ID       string
	Sessions *service.SessionContext
	Nav      *Navigator
}

// Session resolves the session cookie, issuing a new id on first visit or
// when the cookie does not hold a uuid, and attaches a hydrated
// SessionContext to the request.
func Session(opts SessionOptions, stores ports.StoreFactory, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(opts.CookieName); err == nil {
				if id, err := uuid.Parse(ck.Value); err == nil {
					sid = id.String()
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     opts.CookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(opts.TTL.Seconds()),
				})
			}

			nav := &Navigator{}
			reqLog := logger.WithSession(
				log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger(), sid)
			sessions := service.NewSessionContext(c.Request().Context(), stores.Scope(sid), nav, reqLog)
			c.Set(portalKey, &Portal{ID: sid, Sessions: sessions, Nav: nav})
			return next(c)
		}
	}
}

// PortalFrom returns the bundle attached by Session, or nil.
func PortalFrom(c echo.Context) *Portal {
	p, _ := c.Get(portalKey).(*Portal)
	return p
}

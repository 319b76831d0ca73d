package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolenet/school-portal/internal/api/metrics"
	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/service"
)

const sessionKey = "session"

// Guard protects a route with an allow-list of UI labels or backend roles.
// Denied requests are redirected home; a session still loading gets 503
// without a redirect. Session must run first.
func Guard(allowed ...string) echo.MiddlewareFunc {
	policy := service.NewPolicy(allowed...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PortalFrom(c)
			if p == nil {
				metrics.GuardDecisionsTotal.WithLabelValues("redirect").Inc()
				return c.Redirect(http.StatusSeeOther, domain.RouteHome)
			}

			state, sess := p.Sessions.Snapshot()
			d := policy.Authorize(state, sess)
			switch {
			case d.Pending:
				metrics.GuardDecisionsTotal.WithLabelValues("pending").Inc()
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			case !d.Allow:
				metrics.GuardDecisionsTotal.WithLabelValues("redirect").Inc()
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session admitted by Guard, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionKey).(*domain.Session)
	return s
}

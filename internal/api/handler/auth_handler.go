package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/api/metrics"
	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/service"
	"github.com/ecolenet/school-portal/internal/infrastructure/backend"
)

type AuthHandler struct {
	deps Deps
	log  zerolog.Logger
}

func NewAuthHandler(deps Deps, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{deps: deps, log: log}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginView struct {
	State     string          `json:"state"`
	Session   *domain.Session `json:"session,omitempty"`
	Dashboard string          `json:"dashboard,omitempty"`
}

type sessionResponse struct {
	Session *domain.Session `json:"session"`
	Claims  *backend.Claims `json:"claims,omitempty"`
}

// auth builds the login flow over a client bound to the request's session,
// so that revocation carries the current access token.
func (h *AuthHandler) auth(c echo.Context) (*service.AuthService, error) {
	cl, err := h.deps.client(c)
	if err != nil {
		return nil, err
	}
	return service.NewAuthService(cl.Auth(), h.log), nil
}

// LoginView describes the login page for the current browser session.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  loginView
// @Router       / [get]
func (h *AuthHandler) LoginView(c echo.Context) error {
	p, err := ctxPortal(c)
	if err != nil {
		return err
	}
	state, sess := p.Sessions.Snapshot()
	view := loginView{State: state.String(), Session: sess}
	if sess != nil {
		view.Dashboard = domain.DashboardRoute(sess.BackendRole)
	}
	return c.JSON(http.StatusOK, view)
}

// Login exchanges credentials for a session and redirects to the dashboard
// of the role the backend declared.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      303
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.MsgAuthFailed})
	}
	p, err := ctxPortal(c)
	if err != nil {
		return err
	}
	auth, err := h.auth(c)
	if err != nil {
		return err
	}

	err = h.deps.exclusive(c, "login", func() error {
		_, err := auth.Login(c.Request().Context(), p.Sessions, req.Username, req.Password)
		return err
	})
	if errors.Is(err, domain.ErrRequestInFlight) {
		return err
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.MsgAuthFailed})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, p.Nav.Route())
}

// Logout ends the session and redirects home.
//
// @Summary      Logout
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := ctxPortal(c)
	if err != nil {
		return err
	}
	auth, err := h.auth(c)
	if err != nil {
		return err
	}
	auth.Logout(c.Request().Context(), p.Sessions)

	route := p.Nav.Route()
	if route == "" {
		route = domain.RouteHome
	}
	return c.Redirect(http.StatusSeeOther, route)
}

// Session returns the authenticated session and the claims of its access
// token. Claims are informational and absent when the token is opaque.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	resp := sessionResponse{Session: sess}
	if claims, err := backend.TokenClaims(sess.Token); err == nil {
		resp.Claims = claims
	}
	return c.JSON(http.StatusOK, resp)
}

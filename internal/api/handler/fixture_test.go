package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/api/middleware"
	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/service"
	"github.com/ecolenet/school-portal/internal/infrastructure/backend"
	"github.com/ecolenet/school-portal/internal/infrastructure/db/memory"
	"github.com/ecolenet/school-portal/internal/infrastructure/queue"
)

var sessionOpts = middleware.SessionOptions{CookieName: "portal_sid", TTL: time.Hour}

// fixture is a portal in front of a fake backend. Errors returned by
// handlers are captured in err and answered with their echo status, or 599.
type fixture struct {
	t      *testing.T
	e      *echo.Echo
	stores *memory.Factory
	sid    string
	deps   Deps
	err    error
}

func newFixture(t *testing.T, api http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cl, err := backend.New(srv.URL+"/api/", srv.Client(), zerolog.Nop())
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	batch := queue.NewBatchDispatcher("test", 2, zerolog.Nop())
	batch.Start(ctx)

	f := &fixture{
		t:      t,
		e:      echo.New(),
		stores: memory.NewFactory(0),
		sid:    uuid.NewString(),
		deps: Deps{
			Backend:  cl,
			Roster:   service.NewRosterService(batch, zerolog.Nop()),
			InFlight: service.NewInFlight(),
		},
	}
	f.e.Validator = NewValidator()
	f.e.HTTPErrorHandler = func(err error, c echo.Context) {
		f.err = err
		code := 599
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		_ = c.NoContent(code)
	}
	return f
}

// route registers h behind the session middleware and mw.
func (f *fixture) route(method, path string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	chain := append([]echo.MiddlewareFunc{middleware.Session(sessionOpts, f.stores, zerolog.Nop())}, mw...)
	f.e.Add(method, path, h, chain...)
}

// signIn seeds the browser session as if a login had completed.
func (f *fixture) signIn(role string, userID int64) {
	store := f.stores.Scope(f.sid)
	ctx := context.Background()
	_ = store.Set(ctx, domain.KeyToken, "tok-"+role)
	_ = store.Set(ctx, domain.KeyRefresh, "ref-"+role)
	_ = store.Set(ctx, domain.KeyUser, `{"username":"u`+strconv.FormatInt(userID, 10)+`","role":"`+role+`","user_id":`+strconv.FormatInt(userID, 10)+`}`)
}

func (f *fixture) do(method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	f.t.Helper()
	f.err = nil
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	req.AddCookie(&http.Cookie{Name: sessionOpts.CookieName, Value: f.sid})
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) stored(key string) (string, bool) {
	v, ok, _ := f.stores.Scope(f.sid).Get(context.Background(), key)
	return v, ok
}

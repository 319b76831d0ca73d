package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ecolenet/school-portal/internal/api/metrics"
	"github.com/ecolenet/school-portal/internal/api/middleware"
	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/ports"
	"github.com/ecolenet/school-portal/internal/core/service"
	"github.com/ecolenet/school-portal/internal/infrastructure/backend"
)

// Deps are shared by every page handler.
type Deps struct {
	Backend  *backend.Client
	Roster   *service.RosterService
	InFlight ports.RequestLock
}

// ctxPortal returns the session bundle attached by the Session middleware.
// Its absence means the router is miswired.
func ctxPortal(c echo.Context) (*middleware.Portal, error) {
	p := middleware.PortalFrom(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
	}
	return p, nil
}

// ctxSession returns the session admitted by Guard.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.SessionFrom(c)
	if s == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return s, nil
}

// client returns a backend client that authenticates as the request's
// session.
func (d Deps) client(c echo.Context) (*backend.Client, error) {
	p, err := ctxPortal(c)
	if err != nil {
		return nil, err
	}
	return d.Backend.WithTokens(p.Sessions), nil
}

// dashboards builds the page-data service over the session's client.
func dashboards(cl *backend.Client) *service.DashboardService {
	return service.NewDashboardService(service.Backends{
		Users:       cl.Users(),
		Classes:     cl.Classes(),
		Subjects:    cl.Subjects(),
		Assignments: cl.Assignments(),
		Grades:      cl.Grades(),
		Attendance:  cl.Attendance(),
	})
}

// exclusive runs fn unless the same control of the same browser session is
// still busy, in which case domain.ErrRequestInFlight is returned.
func (d Deps) exclusive(c echo.Context, control string, fn func() error) error {
	p, err := ctxPortal(c)
	if err != nil {
		return err
	}
	release, err := d.InFlight.Acquire(c.Request().Context(), p.ID + ":" + control)
	if err != nil {
		metrics.InFlightRejectedTotal.Inc()
		return err
	}
	defer release()
	return fn()
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// streamBulletin writes a bulletin download as an attachment.
func streamBulletin(c echo.Context, d *backend.Download) error {
	defer d.Close()
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+d.Filename+`"`)
	return c.Stream(http.StatusOK, d.ContentType, d)
}

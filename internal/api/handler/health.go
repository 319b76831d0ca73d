package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecolenet/school-portal/internal/core/ports"
)

// HealthHandler answers the liveness probe. It touches no dependency.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness reports that the process is serving requests.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready. It pings every remote
// dependency: the session store when it is remote, and the backend.
type ReadinessHandler struct {
	deps    []ports.Pinger
	timeout time.Duration
}

func NewReadinessHandler(deps ...ports.Pinger) *ReadinessHandler {
	return &ReadinessHandler{deps: deps, timeout: 3 * time.Second}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings the backend and the session store.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results := make([]dependencyStatus, len(h.deps))
	var wg sync.WaitGroup
	for i, d := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.Ping(ctx); err != nil {
				results[i] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				return
			}
			results[i] = dependencyStatus{Status: "ok"}
		}()
	}
	wg.Wait()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.deps))}
	code := http.StatusOK
	for i, d := range h.deps {
		resp.Dependencies[d.Name()] = results[i]
		if results[i].Status != "ok" {
			resp.Status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, resp)
}

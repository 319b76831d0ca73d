package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/service"
	"github.com/ecolenet/school-portal/internal/infrastructure/backend"
)

// errorResponse is the canonical error envelope. Detail carries the backend
// payload when the failure came from the backend.
type errorResponse struct {
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Answers backend failures with the backend status and a localized message.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, errorResponse{Error: domain.MsgAuthFailed}
	}

	var batchErr *service.BatchError
	if errors.As(err, &batchErr) {
		code, detail := http.StatusBadGateway, any(nil)
		var apiErr *backend.APIError
		if errors.As(batchErr.Err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			code, detail = http.StatusBadRequest, apiErr.Detail()
		}
		log.Warn().Err(err).Int("failed", batchErr.Failed).Int("total", batchErr.Total).Msg("batch submission failed")
		return code, errorResponse{Error: batchErr.Message, Detail: detail}
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.Status
		if code == 0 {
			code = http.StatusBadGateway
		}
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend call failed")
		return code, errorResponse{Error: apiErr.UserMessage(), Detail: apiErr.Detail()}
	}

	switch {
	case errors.Is(err, domain.ErrRequestInFlight):
		return http.StatusConflict, errorResponse{Error: "request already in progress"}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "not authenticated"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "resource not found"}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

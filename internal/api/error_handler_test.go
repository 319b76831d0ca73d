package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/service"
	"github.com/ecolenet/school-portal/internal/infrastructure/backend"
)

func TestHTTPErrorHandler(t *testing.T) {
	forbidden := &backend.APIError{Status: http.StatusForbidden, Payload: []byte(`{"error":"non confirmé"}`), Message: backend.MsgBulletinDownloadFailed}
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantError  string
		wantDetail bool
	}{
		{"backend error keeps status", fmt.Errorf("download: %w", forbidden), http.StatusForbidden, backend.MsgBulletinDownloadFailed, true},
		{"unreachable backend", &backend.APIError{Err: errors.New("dial tcp")}, http.StatusBadGateway, "Erreur de communication avec le serveur.", false},
		{"auth failure is generic", &domain.AuthError{Kind: domain.ErrInvalidCredentials}, http.StatusUnauthorized, domain.MsgAuthFailed, false},
		{"in flight", domain.ErrRequestInFlight, http.StatusConflict, "request already in progress", false},
		{"invalid input", fmt.Errorf("%w: grade must be at most 20", domain.ErrInvalidInput), http.StatusBadRequest, "invalid input: grade must be at most 20", false},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "resource not found", false},
		{"batch rejected by backend", &service.BatchError{Message: service.MsgGradesFailed, Failed: 1, Total: 2,
			Err: errors.Join(&backend.APIError{Status: http.StatusBadRequest, Payload: []byte(`{"grade":["bad"]}`)})},
			http.StatusBadRequest, service.MsgGradesFailed, true},
		{"batch unreachable", &service.BatchError{Message: service.MsgAttendanceFailed, Failed: 2, Total: 2,
			Err: errors.New("dial tcp")}, http.StatusBadGateway, service.MsgAttendanceFailed, false},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid classId"), http.StatusBadRequest, "invalid classId", false},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error", false},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != tt.wantError {
				t.Fatalf("expected error %q, got %v", tt.wantError, resp["error"])
			}
			if _, ok := resp["detail"]; ok != tt.wantDetail {
				t.Fatalf("detail presence = %v, want %v (%v)", ok, tt.wantDetail, resp)
			}
		})
	}
}

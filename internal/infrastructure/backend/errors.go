package backend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

// APIError is returned for every failed backend call. Status is zero when no
// response was received, in which case Err holds the transport error.
type APIError struct {
	Status  int
	Payload []byte
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	}
	if len(e.Payload) == 0 {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Payload)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is maps authorization and lookup failures onto the domain sentinels.
func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusUnauthorized:
		return target == domain.ErrUnauthenticated
	case http.StatusForbidden:
		return target == domain.ErrForbidden
	case http.StatusNotFound:
		return target == domain.ErrNotFound
	}
	return false
}

// Detail returns the backend payload as decoded JSON when possible, else as
// text. It is nil for transport failures.
func (e *APIError) Detail() any {
	if len(e.Payload) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(e.Payload, &v); err == nil {
		return v
	}
	return string(e.Payload)
}

// UserMessage is the localized text for the failed operation.
func (e *APIError) UserMessage() string {
	if e.Message == "" {
		return "Erreur de communication avec le serveur."
	}
	return e.Message
}

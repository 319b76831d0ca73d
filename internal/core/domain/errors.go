package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMissing        = errors.New("role missing from token response")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrCorruptSession     = errors.New("corrupt session record")
	ErrRequestInFlight    = errors.New("request already in progress")
	ErrInvalidInput       = errors.New("invalid input")
)

// MsgAuthFailed is the only message shown to a user whose login failed.
const MsgAuthFailed = "Nom d'utilisateur ou mot de passe incorrect."

// AuthError is returned by every failed login. Its message never reveals
// which part of the exchange failed; Kind and Cause are for logs and errors.Is.
type AuthError struct {
	Kind  error
	Cause error
}

func (e *AuthError) Error() string { return MsgAuthFailed }

func (e *AuthError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Detail describes the failure for internal logging.
func (e *AuthError) Detail() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
}

// CorruptSessionError reports an unreadable persisted user record.
type CorruptSessionError struct {
	Cause error
}

func (e *CorruptSessionError) Error() string {
	if e.Cause == nil {
		return ErrCorruptSession.Error()
	}
	return fmt.Sprintf("%v: %v", ErrCorruptSession, e.Cause)
}

func (e *CorruptSessionError) Unwrap() error { return ErrCorruptSession }

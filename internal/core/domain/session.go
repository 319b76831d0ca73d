package domain

import "encoding/json"

// Keys used in durable session storage.
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeyRefresh = "refresh"
)

// SessionKeys lists every key a session writes, in deletion order.
var SessionKeys = []string{KeyToken, KeyRefresh, KeyUser}

// SessionState is the lifecycle state of a session context.
type SessionState int

const (
	StateInitializing SessionState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "initializing"
	}
}

// Profile is the user record persisted under KeyUser. Role always holds the
// backend role returned by the token endpoint.
type Profile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   int64  `json:"user_id"`
}

// Session is the in-memory view of an authenticated user.
type Session struct {
	Token       string `json:"-"`
	UIRole      string `json:"ui_role"`
	BackendRole string `json:"role"`
	Username    string `json:"username"`
	UserID      int64  `json:"user_id"`
}

// NewSession builds a session from a trusted profile.
func NewSession(token string, p Profile) *Session {
	return &Session{
		Token:       token,
		UIRole:      NormalizeRole(p.Role),
		BackendRole: p.Role,
		Username:    p.Username,
		UserID:      p.UserID,
	}
}

// Clone returns a copy of s. It is nil-safe.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Profile returns the record to persist for s.
func (s *Session) Profile() Profile {
	return Profile{Username: s.Username, Role: s.BackendRole, UserID: s.UserID}
}

// DecodeProfile parses a persisted user record. A record that is not valid
// JSON or carries no role is reported as ErrCorruptSession.
func DecodeProfile(raw string) (Profile, error) {
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, &CorruptSessionError{Cause: err}
	}
	if p.Role == "" {
		return Profile{}, &CorruptSessionError{}
	}
	return p, nil
}

// EncodeProfile serializes p for storage.
func EncodeProfile(p Profile) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

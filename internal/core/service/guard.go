package service

import (
	"github.com/ecolenet/school-portal/internal/core/domain"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allow bool
	// Pending is set while the session is still Initializing. The caller
	// must neither render nor redirect.
	Pending  bool
	Redirect string
}

// Policy is a resolved allow-list. Entries may be written as UI labels or
// backend roles; both resolve to backend roles, which is the only
// representation sessions are checked against.
type Policy struct {
	roles map[string]struct{}
}

// NewPolicy resolves allowed into backend roles. An empty list admits any
// authenticated session.
func NewPolicy(allowed ...string) Policy {
	if len(allowed) == 0 {
		return Policy{}
	}
	roles := make(map[string]struct{}, len(allowed))
	for _, entry := range allowed {
		if backend := domain.BackendRolesFor(entry); backend != nil {
			for _, r := range backend {
				roles[r] = struct{}{}
			}
			continue
		}
		roles[domain.CanonicalRole(entry)] = struct{}{}
	}
	return Policy{roles: roles}
}

// Admits reports whether a session with backendRole passes the policy.
func (p Policy) Admits(backendRole string) bool {
	if p.roles == nil {
		return true
	}
	_, ok := p.roles[domain.CanonicalRole(backendRole)]
	return ok
}

// Authorize evaluates a session snapshot against p. Denials always
// redirect home; they are never reported as errors.
func (p Policy) Authorize(state domain.SessionState, sess *domain.Session) Decision {
	switch {
	case state == domain.StateInitializing:
		return Decision{Pending: true}
	case state != domain.StateAuthenticated || sess == nil:
		return Decision{Redirect: domain.RouteHome}
	case !p.Admits(sess.BackendRole):
		return Decision{Redirect: domain.RouteHome}
	}
	return Decision{Allow: true}
}

package ports

import "context"

// TokenGrant is the token endpoint response. Role is the server-declared
// backend role and is the only trusted source of authorization.
type TokenGrant struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh,omitempty"`
	Role     string `json:"role"`
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
}

// TokenIssuer exchanges credentials for tokens.
type TokenIssuer interface {
	ObtainToken(ctx context.Context, username, password string) (*TokenGrant, error)
	// RevokeRefresh blacklists a refresh token server-side.
	RevokeRefresh(ctx context.Context, refresh string) error
}

// TokenSource yields the bearer credential to attach to a request. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

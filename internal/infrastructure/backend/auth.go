package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ecolenet/school-portal/internal/core/ports"
)

// Auth implements ports.TokenIssuer against the auth endpoints.
type Auth struct {
	c *Client
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ObtainToken posts credentials to auth/token/. The request never carries a
// role or a bearer token.
func (a *Auth) ObtainToken(ctx context.Context, username, password string) (*ports.TokenGrant, error) {
	var grant ports.TokenGrant
	err := a.c.do(ctx, call{
		method:  http.MethodPost,
		path:    "auth/token/",
		body:    credentials{Username: username, Password: password},
		message: "Nom d'utilisateur ou mot de passe incorrect.",
		anon:    true,
	}, &grant)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// RevokeRefresh blacklists refresh through auth/logout/.
func (a *Auth) RevokeRefresh(ctx context.Context, refresh string) error {
	return a.c.do(ctx, call{
		method:  http.MethodPost,
		path:    "auth/logout/",
		body:    map[string]string{"refresh": refresh},
		message: "Erreur lors de la déconnexion.",
	}, nil)
}

// Claims is the displayable content of an access token.
type Claims struct {
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token is past its expiry at now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// TokenClaims decodes access without verifying its signature. The result is
// for display only and must never drive an authorization decision.
func TokenClaims(access string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, mc); err != nil {
		return nil, fmt.Errorf("decode token claims: %w", err)
	}

	out := &Claims{}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	switch v := mc["user_id"].(type) {
	case float64:
		out.UserID = int64(v)
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			out.UserID = id
		}
	}
	if role, ok := mc["role"].(string); ok {
		out.Role = role
	}
	return out, nil
}

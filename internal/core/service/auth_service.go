package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/ports"
)

// AuthService implements login and logout against the token endpoint.
type AuthService struct {
	issuer ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(issuer ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{issuer: issuer, log: log}
}

// Login exchanges credentials for a session. Every failure is an
// *domain.AuthError carrying the same user-facing message; the role is taken
// from the server response only.
func (s *AuthService) Login(ctx context.Context, sessions *SessionContext, username, password string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, s.fail(username, &domain.AuthError{Kind: domain.ErrInvalidCredentials, Cause: domain.ErrInvalidInput})
	}

	grant, err := s.issuer.ObtainToken(ctx, username, password)
	if err != nil {
		return nil, s.fail(username, &domain.AuthError{Kind: domain.ErrInvalidCredentials, Cause: err})
	}
	if grant.Access == "" {
		return nil, s.fail(username, &domain.AuthError{Kind: domain.ErrInvalidCredentials})
	}
	if grant.Role == "" {
		return nil, s.fail(username, &domain.AuthError{Kind: domain.ErrRoleMissing})
	}

	profile := domain.Profile{
		Username: grant.Username,
		Role:     grant.Role,
		UserID:   grant.UserID,
	}
	if profile.Username == "" {
		profile.Username = username
	}

	sess, err := sessions.LoginUser(ctx, grant.Access, profile, grant.Refresh)
	if err != nil {
		return nil, s.fail(username, &domain.AuthError{Kind: domain.ErrInvalidCredentials, Cause: err})
	}
	return sess, nil
}

// Logout revokes the refresh token when one is stored, then clears the
// session. Revocation is best effort; logout itself always completes.
func (s *AuthService) Logout(ctx context.Context, sessions *SessionContext) {
	refresh, err := sessions.RefreshToken(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("logout: read refresh token")
	}
	if refresh != "" {
		if err := s.issuer.RevokeRefresh(ctx, refresh); err != nil {
			s.log.Warn().Err(err).Msg("logout: refresh token not revoked")
		}
	}
	sessions.LogoutUser(ctx)
}

func (s *AuthService) fail(username string, err *domain.AuthError) error {
	s.log.Warn().
		Str("username", username).
		Str("detail", err.Detail()).
		Msg("login failed")
	return err
}

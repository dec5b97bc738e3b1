// Package app holds the application services and business logic.
package app

import (
	"context"

	"discover/internal/domain"
	"discover/internal/token"
)

// AuthService handles credential exchange and session establishment.
type AuthService struct {
	verifier domain.CredentialVerifier
	users    domain.UserRepository
	codec    *token.Codec
}

// NewAuthService creates a new authentication service.
func NewAuthService(verifier domain.CredentialVerifier, users domain.UserRepository, codec *token.Codec) *AuthService {
	return &AuthService{
		verifier: verifier,
		users:    users,
		codec:    codec,
	}
}

// Login exchanges a one-time credential proof for a session token,
// creating the user row on first login.
func (s *AuthService) Login(ctx context.Context, proofToken string) (string, error) {
	identity, err := s.verifier.Verify(ctx, proofToken)
	if err != nil {
		return "", &Error{Kind: KindAuth, Msg: "invalid credential", Err: err}
	}
	if identity.Issuer == "" {
		return "", &Error{Kind: KindAuth, Msg: "no issuer"}
	}

	tok, err := s.codec.Issue(identity.Issuer)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByIssuer(ctx, identity.Issuer)
	if err != nil {
		return "", upstreamErr("look up user", err)
	}
	if user == nil {
		if _, err := s.users.Create(ctx, *identity); err != nil {
			return "", upstreamErr("create user", err)
		}
	}

	return tok, nil
}

// Logout terminates the upstream identity session for the subject.
// Callers treat failures as non-fatal; logout never fails visibly.
func (s *AuthService) Logout(ctx context.Context, subjectID string) error {
	return s.verifier.Terminate(ctx, subjectID)
}

// Authenticate verifies a raw cookie token into a Session. Verification
// failures degrade to "unauthenticated"; they are never surfaced as
// errors past this point.
func (s *AuthService) Authenticate(raw string) (domain.Session, bool) {
	if raw == "" {
		return domain.Session{}, false
	}
	subject, err := s.codec.Verify(raw)
	if err != nil {
		return domain.Session{}, false
	}
	return domain.Session{UserID: subject, Token: raw}, true
}

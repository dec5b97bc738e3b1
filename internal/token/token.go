// Package token signs and verifies the stateless session tokens carried in
// the session cookie. Issuance and verification are pure; there is no
// revocation list, so a token stays valid until it expires or the cookie
// is deleted.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is the fixed lifetime of every issued token. The cookie Max-Age is
// derived from it so the two never drift apart.
const TTL = 24 * time.Hour

var (
	// ErrNoSecret indicates the signing secret is not configured. Callers
	// must treat this as fatal at startup, not as a per-request failure.
	ErrNoSecret = errors.New("signing secret is not configured")
	// ErrMalformed indicates the token could not be parsed at all.
	ErrMalformed = errors.New("token is malformed")
	// ErrExpired indicates the token's expiry has passed.
	ErrExpired = errors.New("token is expired")
	// ErrInvalidSignature indicates the token was not signed with our secret.
	ErrInvalidSignature = errors.New("token signature is invalid")
)

// Codec issues and verifies session tokens with an HMAC-SHA256 signature.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// New creates a Codec keyed by the server secret. An empty secret is a
// configuration error.
func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// Issue creates a signed token binding subjectID with a random nonce, an
// issued-at timestamp, and an expiry of issued-at + TTL.
func (c *Codec) Issue(subjectID string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry of raw and returns the embedded
// subject id. It is side-effect free; callers log only the outcome, never
// the token itself.
func (c *Codec) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrInvalidSignature
	default:
		return "", ErrMalformed
	}
	if claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}

// Package domain contains the core business entities and interfaces.
package domain

import "context"

// User represents a registered viewer. The Issuer field is the stable
// subject identifier assigned by the external credential verifier and is
// the key every other record hangs off.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Issuer        string `json:"issuer"`
	PublicAddress string `json:"publicAddress"`
}

// Identity is what the credential verifier returns for a valid proof token.
type Identity struct {
	Issuer        string
	Email         string
	PublicAddress string
}

// UserRepository defines the port for user persistence operations.
// Lookups return (nil, nil) when no user exists.
type UserRepository interface {
	GetByIssuer(ctx context.Context, issuer string) (*User, error)
	Create(ctx context.Context, identity Identity) (*User, error)
}

// CredentialVerifier is the port for the external identity provider. It
// exchanges a one-time proof-of-identity token for a stable subject
// identifier and can terminate the provider-side session.
type CredentialVerifier interface {
	Verify(ctx context.Context, proofToken string) (*Identity, error)
	Terminate(ctx context.Context, issuer string) error
}

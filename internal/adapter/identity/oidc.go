// Package identity verifies proof-of-identity tokens against an OIDC
// provider and exposes the result as a domain credential verifier.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-resty/resty/v2"

	"discover/internal/domain"
)

// Verifier validates ID tokens issued by a single OIDC provider. The
// token subject becomes the stable issuer key for the user record.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
	client   *resty.Client

	// endSessionURL is discovered from provider metadata; empty when the
	// provider publishes none, in which case Terminate is a local no-op.
	endSessionURL string
}

var _ domain.CredentialVerifier = (*Verifier)(nil)

type providerClaims struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
	RevocationEndpoint string `json:"revocation_endpoint"`
}

// New discovers the provider configuration at issuerURL and prepares a
// verifier for tokens minted for clientID.
func New(ctx context.Context, issuerURL, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover provider: %w", err)
	}

	var claims providerClaims
	if err := provider.Claims(&claims); err != nil {
		return nil, fmt.Errorf("provider metadata: %w", err)
	}
	endSession := claims.EndSessionEndpoint
	if endSession == "" {
		endSession = claims.RevocationEndpoint
	}

	return &Verifier{
		verifier:      provider.Verifier(&oidc.Config{ClientID: clientID}),
		client:        resty.New().SetTimeout(10 * time.Second),
		endSessionURL: endSession,
	}, nil
}

type identityClaims struct {
	Email         string `json:"email"`
	PublicAddress string `json:"public_address"`
}

// Verify checks the proof token's signature, audience, and expiry, and
// returns the identity it attests to.
func (v *Verifier) Verify(ctx context.Context, proofToken string) (*domain.Identity, error) {
	idToken, err := v.verifier.Verify(ctx, proofToken)
	if err != nil {
		return nil, fmt.Errorf("verify proof: %w", err)
	}

	var claims identityClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}

	return &domain.Identity{
		Issuer:        idToken.Subject,
		Email:         claims.Email,
		PublicAddress: claims.PublicAddress,
	}, nil
}

// Terminate notifies the provider that the subject's session ended.
// Providers without an end-session endpoint get a local no-op.
func (v *Verifier) Terminate(ctx context.Context, issuer string) error {
	if v.endSessionURL == "" {
		return nil
	}
	resp, err := v.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"sub": issuer}).
		Post(v.endSessionURL)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("end session: provider returned %s", resp.Status())
	}
	return nil
}

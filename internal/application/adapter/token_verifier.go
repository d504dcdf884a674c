package adapter

import (
	"context"
)

// TokenClaims represents the claims the API relies on.
type TokenClaims struct {
	Subject string
	Email   string
	Issuer  string
}

// TokenVerifier validates bearer tokens issued by the identity provider.
type TokenVerifier interface {
	// Verify validates the token and returns its claims.
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}

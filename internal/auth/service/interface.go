// Package service provides technical services for member authentication: random key
// generation and the identity provider client.
package service

import (
	"context"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
)

// TokenService generates random opaque tokens (API keys, DNS tokens, domain keys).
type TokenService interface {
	// GenerateToken returns byteLen cryptographically random bytes hex encoded, so the
	// result has 2*byteLen characters.
	GenerateToken(byteLen int) (string, error)
}

// IdentityProvider resolves a member bearer token into an identity.
type IdentityProvider interface {
	// Identify returns the identity behind token. Rejected tokens yield ErrUnauthorized,
	// transport failures ErrUpstream.
	Identify(ctx context.Context, token string) (*authDomain.Identity, error)
}

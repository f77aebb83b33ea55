// Package service provides technical services for certificate issuance: private key sealing
// and issuance worker launching.
package service

import (
	"context"

	"github.com/google/uuid"
)

// KeySealer protects provision private keys at rest.
type KeySealer interface {
	// Seal encrypts a private key for storage.
	Seal(ctx context.Context, plaintext []byte) ([]byte, error)

	// Open decrypts a sealed private key. Open(Seal(x)) == x.
	Open(ctx context.Context, sealed []byte) ([]byte, error)

	// Close releases the underlying keeper.
	Close() error
}

// IssuanceLauncher starts an issuance worker run for a certificate.
type IssuanceLauncher interface {
	Launch(ctx context.Context, certificateUUID uuid.UUID) error
}

package service

import (
	"crypto/rand"
	"encoding/hex"

	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// APIKeyByteLength is the entropy of API keys and certificate DNS tokens.
const APIKeyByteLength = 20

// tokenService implements TokenService with crypto/rand.
type tokenService struct{}

// GenerateToken creates a hex encoded random token of byteLen bytes.
func (t *tokenService) GenerateToken(byteLen int) (string, error) {
	randomBytes := make([]byte, byteLen)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random token")
	}
	return hex.EncodeToString(randomBytes), nil
}

// NewTokenService creates a new TokenService instance.
func NewTokenService() TokenService {
	return &tokenService{}
}

package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register the keeper drivers accepted in SECRETS_KEEPER_URL.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// keeperSealer seals keys with a gocloud.dev secrets keeper.
type keeperSealer struct {
	keeper *secrets.Keeper
}

// Seal encrypts plaintext with the keeper.
func (k *keeperSealer) Seal(ctx context.Context, plaintext []byte) ([]byte, error) {
	sealed, err := k.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to seal private key: %w", err)
	}
	return sealed, nil
}

// Open decrypts sealed with the keeper.
func (k *keeperSealer) Open(ctx context.Context, sealed []byte) ([]byte, error) {
	plaintext, err := k.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to open private key: %w", err)
	}
	return plaintext, nil
}

// Close closes the keeper.
func (k *keeperSealer) Close() error {
	return k.keeper.Close()
}

// plainSealer stores keys unchanged.
type plainSealer struct{}

func (plainSealer) Seal(_ context.Context, plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

func (plainSealer) Open(_ context.Context, sealed []byte) ([]byte, error) {
	return sealed, nil
}

func (plainSealer) Close() error {
	return nil
}

// NewKeySealer opens the keeper at keeperURL (base64key://, awskms://, gcpkms://,
// azurekeyvault://, hashivault://). An empty URL stores keys unsealed.
func NewKeySealer(ctx context.Context, keeperURL string) (KeySealer, error) {
	if keeperURL == "" {
		return plainSealer{}, nil
	}

	keeper, err := secrets.OpenKeeper(ctx, keeperURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open secrets keeper: %w", err)
	}
	return &keeperSealer{keeper: keeper}, nil
}

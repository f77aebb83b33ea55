package usecase

import (
	"context"
	"time"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authService "github.com/lynlab/luppiter/internal/auth/service"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// apiKeyUseCase implements APIKeyUseCase.
type apiKeyUseCase struct {
	txManager      database.TxManager
	apiKeyRepo     APIKeyRepository
	permissionRepo PermissionRepository
	tokenService   authService.TokenService
}

// Create issues a new 40 hex character API key for the member.
func (a *apiKeyUseCase) Create(ctx context.Context, memberID int64, memo string) (*authDomain.APIKey, error) {
	key, err := a.tokenService.GenerateToken(authService.APIKeyByteLength)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	apiKey := &authDomain.APIKey{
		Key:         key,
		Memo:        memo,
		MemberID:    memberID,
		Permissions: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return nil, err
	}

	return apiKey, nil
}

// List returns the member's API keys.
func (a *apiKeyUseCase) List(ctx context.Context, memberID int64) ([]*authDomain.APIKey, error) {
	return a.apiKeyRepo.ListByMember(ctx, memberID)
}

// Delete removes one of the member's API keys.
func (a *apiKeyUseCase) Delete(ctx context.Context, memberID int64, key string) error {
	apiKey, err := a.getOwned(ctx, memberID, key)
	if err != nil {
		return err
	}
	return a.apiKeyRepo.Delete(ctx, apiKey.ID)
}

// ListPermissions returns the grant set of one of the member's API keys.
func (a *apiKeyUseCase) ListPermissions(ctx context.Context, memberID int64, key string) ([]string, error) {
	apiKey, err := a.getOwned(ctx, memberID, key)
	if err != nil {
		return nil, err
	}
	return apiKey.Permissions, nil
}

// GrantPermission adds permission to the key unless it is already granted.
func (a *apiKeyUseCase) GrantPermission(
	ctx context.Context,
	memberID int64,
	key, permission string,
) ([]string, error) {
	var granted []string

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		apiKey, err := a.getOwned(ctx, memberID, key)
		if err != nil {
			return err
		}

		if apiKey.HasGrant(permission) {
			granted = apiKey.Permissions
			return nil
		}

		perm, err := a.permissionRepo.GetByKey(ctx, permission)
		if err != nil {
			return err
		}

		if err := a.apiKeyRepo.AddPermission(ctx, apiKey.ID, perm.ID); err != nil {
			return err
		}

		granted = make([]string, 0, len(apiKey.Permissions)+1)
		granted = append(granted, apiKey.Permissions...)
		granted = append(granted, perm.Key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return granted, nil
}

// RevokePermission removes permission from the key.
func (a *apiKeyUseCase) RevokePermission(
	ctx context.Context,
	memberID int64,
	key, permission string,
) ([]string, error) {
	var granted []string

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		apiKey, err := a.getOwned(ctx, memberID, key)
		if err != nil {
			return err
		}

		perm, err := a.permissionRepo.GetByKey(ctx, permission)
		if err != nil {
			return err
		}

		if err := a.apiKeyRepo.RemovePermission(ctx, apiKey.ID, perm.ID); err != nil {
			return err
		}

		granted = make([]string, 0, len(apiKey.Permissions))
		for _, p := range apiKey.Permissions {
			if p != perm.Key {
				granted = append(granted, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return granted, nil
}

// Authenticate resolves a presented API key.
func (a *apiKeyUseCase) Authenticate(ctx context.Context, key string) (*authDomain.APIKey, error) {
	if key == "" {
		return nil, authDomain.ErrInvalidCredential
	}

	apiKey, err := a.apiKeyRepo.GetByKey(ctx, key)
	if err != nil {
		if apperrors.Is(err, authDomain.ErrAPIKeyNotFound) {
			return nil, authDomain.ErrInvalidCredential
		}
		return nil, err
	}
	return apiKey, nil
}

// getOwned loads key and hides keys of other members behind ErrAPIKeyNotFound.
func (a *apiKeyUseCase) getOwned(ctx context.Context, memberID int64, key string) (*authDomain.APIKey, error) {
	apiKey, err := a.apiKeyRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !apiKey.OwnedBy(memberID) {
		return nil, authDomain.ErrAPIKeyNotFound
	}
	return apiKey, nil
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with the provided dependencies.
func NewAPIKeyUseCase(
	txManager database.TxManager,
	apiKeyRepo APIKeyRepository,
	permissionRepo PermissionRepository,
	tokenService authService.TokenService,
) APIKeyUseCase {
	return &apiKeyUseCase{
		txManager:      txManager,
		apiKeyRepo:     apiKeyRepo,
		permissionRepo: permissionRepo,
		tokenService:   tokenService,
	}
}

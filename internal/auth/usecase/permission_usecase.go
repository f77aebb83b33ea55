package usecase

import (
	"context"
	"strings"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
)

// MinPermissionQueryLength is the shortest query Search answers.
const MinPermissionQueryLength = 2

// permissionUseCase implements PermissionUseCase.
type permissionUseCase struct {
	permissionRepo PermissionRepository
}

// Search returns catalog permissions containing query.
func (p *permissionUseCase) Search(ctx context.Context, query string) ([]*authDomain.Permission, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinPermissionQueryLength {
		return []*authDomain.Permission{}, nil
	}
	return p.permissionRepo.Search(ctx, query)
}

// Seed inserts the missing catalog permissions.
func (p *permissionUseCase) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, key := range authDomain.Catalog() {
		inserted, err := p.permissionRepo.CreateIfNotExists(ctx, key)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	return created, nil
}

// NewPermissionUseCase creates a new PermissionUseCase.
func NewPermissionUseCase(permissionRepo PermissionRepository) PermissionUseCase {
	return &permissionUseCase{permissionRepo: permissionRepo}
}

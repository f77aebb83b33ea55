// Package usecase defines business logic interfaces for members, API keys and permissions.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
)

// MemberRepository defines persistence operations for members.
type MemberRepository interface {
	// Create stores a new member and sets its ID.
	Create(ctx context.Context, member *authDomain.Member) error

	// GetByUUID retrieves a member by identity provider UUID. Returns ErrMemberNotFound if not found.
	GetByUUID(ctx context.Context, memberUUID uuid.UUID) (*authDomain.Member, error)
}

// APIKeyRepository defines persistence operations for API keys and their grants.
// Implementations must support transaction-aware operations via context propagation.
type APIKeyRepository interface {
	// Create stores a new API key and sets its ID.
	Create(ctx context.Context, apiKey *authDomain.APIKey) error

	// GetByKey retrieves an API key with its member and granted permission strings.
	// Returns ErrAPIKeyNotFound if not found.
	GetByKey(ctx context.Context, key string) (*authDomain.APIKey, error)

	// ListByMember returns every API key owned by the member, newest first, with grants.
	ListByMember(ctx context.Context, memberID int64) ([]*authDomain.APIKey, error)

	// Delete removes the API key and its grants.
	Delete(ctx context.Context, apiKeyID int64) error

	// AddPermission grants a permission to the API key.
	AddPermission(ctx context.Context, apiKeyID, permissionID int64) error

	// RemovePermission revokes a permission from the API key. Revoking an absent grant is a no-op.
	RemovePermission(ctx context.Context, apiKeyID, permissionID int64) error
}

// PermissionRepository defines persistence operations for the permission catalog.
type PermissionRepository interface {
	// GetByKey retrieves a permission by its string. Returns ErrPermissionNotFound if not found.
	GetByKey(ctx context.Context, key string) (*authDomain.Permission, error)

	// Search returns permissions whose key contains query, ordered by key.
	Search(ctx context.Context, query string) ([]*authDomain.Permission, error)

	// CreateIfNotExists inserts the permission unless it already exists and reports whether
	// a row was inserted.
	CreateIfNotExists(ctx context.Context, key string) (bool, error)
}

// MemberUseCase resolves identity provider bearer tokens into members.
type MemberUseCase interface {
	// Me identifies the token owner and lazily creates the member on first sight.
	Me(ctx context.Context, token string) (*authDomain.Member, error)

	// Authenticate identifies the token owner and requires an existing member.
	// Unknown members yield ErrInvalidCredential.
	Authenticate(ctx context.Context, token string) (*authDomain.Member, error)
}

// APIKeyUseCase manages a member's API keys and their grants, and resolves keys presented on
// protected endpoints.
type APIKeyUseCase interface {
	// Create issues a new random API key for the member.
	Create(ctx context.Context, memberID int64, memo string) (*authDomain.APIKey, error)

	// List returns the member's API keys.
	List(ctx context.Context, memberID int64) ([]*authDomain.APIKey, error)

	// Delete irreversibly removes one of the member's API keys.
	Delete(ctx context.Context, memberID int64, key string) error

	// ListPermissions returns the permissions granted to one of the member's API keys.
	ListPermissions(ctx context.Context, memberID int64, key string) ([]string, error)

	// GrantPermission adds a catalog permission to the key. Granting an already granted
	// permission is a no-op. Returns the resulting grant set.
	GrantPermission(ctx context.Context, memberID int64, key, permission string) ([]string, error)

	// RevokePermission removes a permission from the key and returns the resulting grant set.
	RevokePermission(ctx context.Context, memberID int64, key, permission string) ([]string, error)

	// Authenticate resolves a presented key with its member and grants.
	// Unknown keys yield ErrInvalidCredential.
	Authenticate(ctx context.Context, key string) (*authDomain.APIKey, error)
}

// PermissionUseCase exposes the permission catalog.
type PermissionUseCase interface {
	// Search returns catalog permissions containing query. Queries shorter than
	// MinPermissionQueryLength return an empty result.
	Search(ctx context.Context, query string) ([]*authDomain.Permission, error)

	// Seed inserts every catalog permission that does not exist yet and returns how many
	// were created. Safe to run repeatedly.
	Seed(ctx context.Context) (int, error)
}

// Package mocks provides testify mocks for the auth use cases, repositories and services.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
)

// MockMemberRepository is a mock implementation of usecase.MemberRepository.
type MockMemberRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockMemberRepository) Create(ctx context.Context, member *authDomain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// GetByUUID mocks the GetByUUID method.
func (m *MockMemberRepository) GetByUUID(ctx context.Context, memberUUID uuid.UUID) (*authDomain.Member, error) {
	args := m.Called(ctx, memberUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Member), args.Error(1)
}

// MockAPIKeyRepository is a mock implementation of usecase.APIKeyRepository.
type MockAPIKeyRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

// GetByKey mocks the GetByKey method.
func (m *MockAPIKeyRepository) GetByKey(ctx context.Context, key string) (*authDomain.APIKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.APIKey), args.Error(1)
}

// ListByMember mocks the ListByMember method.
func (m *MockAPIKeyRepository) ListByMember(ctx context.Context, memberID int64) ([]*authDomain.APIKey, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.APIKey), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockAPIKeyRepository) Delete(ctx context.Context, apiKeyID int64) error {
	args := m.Called(ctx, apiKeyID)
	return args.Error(0)
}

// AddPermission mocks the AddPermission method.
func (m *MockAPIKeyRepository) AddPermission(ctx context.Context, apiKeyID, permissionID int64) error {
	args := m.Called(ctx, apiKeyID, permissionID)
	return args.Error(0)
}

// RemovePermission mocks the RemovePermission method.
func (m *MockAPIKeyRepository) RemovePermission(ctx context.Context, apiKeyID, permissionID int64) error {
	args := m.Called(ctx, apiKeyID, permissionID)
	return args.Error(0)
}

// MockPermissionRepository is a mock implementation of usecase.PermissionRepository.
type MockPermissionRepository struct {
	mock.Mock
}

// GetByKey mocks the GetByKey method.
func (m *MockPermissionRepository) GetByKey(ctx context.Context, key string) (*authDomain.Permission, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Permission), args.Error(1)
}

// Search mocks the Search method.
func (m *MockPermissionRepository) Search(ctx context.Context, query string) ([]*authDomain.Permission, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Permission), args.Error(1)
}

// CreateIfNotExists mocks the CreateIfNotExists method.
func (m *MockPermissionRepository) CreateIfNotExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockMemberUseCase is a mock implementation of usecase.MemberUseCase.
type MockMemberUseCase struct {
	mock.Mock
}

// Me mocks the Me method.
func (m *MockMemberUseCase) Me(ctx context.Context, token string) (*authDomain.Member, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Member), args.Error(1)
}

// Authenticate mocks the Authenticate method.
func (m *MockMemberUseCase) Authenticate(ctx context.Context, token string) (*authDomain.Member, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Member), args.Error(1)
}

// MockAPIKeyUseCase is a mock implementation of usecase.APIKeyUseCase.
type MockAPIKeyUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockAPIKeyUseCase) Create(ctx context.Context, memberID int64, memo string) (*authDomain.APIKey, error) {
	args := m.Called(ctx, memberID, memo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.APIKey), args.Error(1)
}

// List mocks the List method.
func (m *MockAPIKeyUseCase) List(ctx context.Context, memberID int64) ([]*authDomain.APIKey, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.APIKey), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockAPIKeyUseCase) Delete(ctx context.Context, memberID int64, key string) error {
	args := m.Called(ctx, memberID, key)
	return args.Error(0)
}

// ListPermissions mocks the ListPermissions method.
func (m *MockAPIKeyUseCase) ListPermissions(ctx context.Context, memberID int64, key string) ([]string, error) {
	args := m.Called(ctx, memberID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// GrantPermission mocks the GrantPermission method.
func (m *MockAPIKeyUseCase) GrantPermission(
	ctx context.Context,
	memberID int64,
	key, permission string,
) ([]string, error) {
	args := m.Called(ctx, memberID, key, permission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// RevokePermission mocks the RevokePermission method.
func (m *MockAPIKeyUseCase) RevokePermission(
	ctx context.Context,
	memberID int64,
	key, permission string,
) ([]string, error) {
	args := m.Called(ctx, memberID, key, permission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Authenticate mocks the Authenticate method.
func (m *MockAPIKeyUseCase) Authenticate(ctx context.Context, key string) (*authDomain.APIKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.APIKey), args.Error(1)
}

// MockPermissionUseCase is a mock implementation of usecase.PermissionUseCase.
type MockPermissionUseCase struct {
	mock.Mock
}

// Search mocks the Search method.
func (m *MockPermissionUseCase) Search(ctx context.Context, query string) ([]*authDomain.Permission, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Permission), args.Error(1)
}

// Seed mocks the Seed method.
func (m *MockPermissionUseCase) Seed(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockIdentityProvider is a mock implementation of service.IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

// Identify mocks the Identify method.
func (m *MockIdentityProvider) Identify(ctx context.Context, token string) (*authDomain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Identity), args.Error(1)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method.
func (m *MockTokenService) GenerateToken(byteLen int) (string, error) {
	args := m.Called(byteLen)
	return args.String(0), args.Error(1)
}

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	"github.com/lynlab/luppiter/internal/auth/usecase"
	usecaseMocks "github.com/lynlab/luppiter/internal/auth/usecase/mocks"
)

func TestPermissionUseCase_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Query", func(t *testing.T) {
		repo := &usecaseMocks.MockPermissionRepository{}
		perms := []*authDomain.Permission{{ID: 1, Key: "Storage::Read"}}

		repo.On("Search", ctx, "::Read").Return(perms, nil).Once()

		got, err := usecase.NewPermissionUseCase(repo).Search(ctx, "::Read")
		require.NoError(t, err)
		assert.Equal(t, perms, got)
	})

	t.Run("Success_QueryTooShort", func(t *testing.T) {
		repo := &usecaseMocks.MockPermissionRepository{}

		got, err := usecase.NewPermissionUseCase(repo).Search(ctx, "S")
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
		repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})
}

func TestPermissionUseCase_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FirstRun", func(t *testing.T) {
		repo := &usecaseMocks.MockPermissionRepository{}
		repo.On("CreateIfNotExists", ctx, mock.AnythingOfType("string")).Return(true, nil)

		created, err := usecase.NewPermissionUseCase(repo).Seed(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(authDomain.Catalog()), created)
		repo.AssertNumberOfCalls(t, "CreateIfNotExists", len(authDomain.Catalog()))
	})

	t.Run("Success_Idempotent", func(t *testing.T) {
		repo := &usecaseMocks.MockPermissionRepository{}
		repo.On("CreateIfNotExists", ctx, mock.AnythingOfType("string")).Return(false, nil)

		created, err := usecase.NewPermissionUseCase(repo).Seed(ctx)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		repo := &usecaseMocks.MockPermissionRepository{}
		repo.On("CreateIfNotExists", ctx, "Storage::*").Return(false, errors.New("db down")).Once()

		_, err := usecase.NewPermissionUseCase(repo).Seed(ctx)
		assert.Error(t, err)
	})
}

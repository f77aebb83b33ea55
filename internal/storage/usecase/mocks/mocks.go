// Package mocks provides testify mocks for the storage use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
	"github.com/lynlab/luppiter/internal/storage/usecase"
)

// MockBucketRepository is a mock implementation of usecase.BucketRepository.
type MockBucketRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockBucketRepository) Create(ctx context.Context, bucket *storageDomain.Bucket) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

// GetByName mocks the GetByName method.
func (m *MockBucketRepository) GetByName(ctx context.Context, name string) (*storageDomain.Bucket, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.Bucket), args.Error(1)
}

// ListByMember mocks the ListByMember method.
func (m *MockBucketRepository) ListByMember(ctx context.Context, memberID int64) ([]*storageDomain.Bucket, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storageDomain.Bucket), args.Error(1)
}

// Update mocks the Update method.
func (m *MockBucketRepository) Update(ctx context.Context, bucket *storageDomain.Bucket) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockBucketRepository) Delete(ctx context.Context, bucketID int64) error {
	args := m.Called(ctx, bucketID)
	return args.Error(0)
}

// MockBucketUseCase is a mock implementation of usecase.BucketUseCase.
type MockBucketUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockBucketUseCase) List(ctx context.Context, memberID int64) ([]*storageDomain.Bucket, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storageDomain.Bucket), args.Error(1)
}

// Create mocks the Create method.
func (m *MockBucketUseCase) Create(
	ctx context.Context,
	memberID int64,
	name string,
	isPublic bool,
) (*storageDomain.Bucket, error) {
	args := m.Called(ctx, memberID, name, isPublic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.Bucket), args.Error(1)
}

// Update mocks the Update method.
func (m *MockBucketUseCase) Update(
	ctx context.Context,
	memberID int64,
	name string,
	isPublic bool,
) (*storageDomain.Bucket, error) {
	args := m.Called(ctx, memberID, name, isPublic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.Bucket), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockBucketUseCase) Delete(ctx context.Context, memberID int64, name string) error {
	args := m.Called(ctx, memberID, name)
	return args.Error(0)
}

// GetOwned mocks the GetOwned method.
func (m *MockBucketUseCase) GetOwned(ctx context.Context, memberID int64, name string) (*storageDomain.Bucket, error) {
	args := m.Called(ctx, memberID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.Bucket), args.Error(1)
}

// MockObjectUseCase is a mock implementation of usecase.ObjectUseCase.
type MockObjectUseCase struct {
	mock.Mock
}

// Get mocks the Get method.
func (m *MockObjectUseCase) Get(
	ctx context.Context,
	readerID *int64,
	bucketName, key string,
) (*storageDomain.Object, error) {
	args := m.Called(ctx, readerID, bucketName, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.Object), args.Error(1)
}

// Put mocks the Put method.
func (m *MockObjectUseCase) Put(ctx context.Context, input usecase.PutObjectInput) (*storageDomain.Object, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.Object), args.Error(1)
}

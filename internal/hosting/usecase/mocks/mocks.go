// Package mocks provides testify mocks for the hosting use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
	"github.com/lynlab/luppiter/internal/hosting/usecase"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// MockInstanceRepository is a mock implementation of usecase.InstanceRepository.
type MockInstanceRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockInstanceRepository) Create(ctx context.Context, instance *hostingDomain.Instance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

// GetByUUID mocks the GetByUUID method.
func (m *MockInstanceRepository) GetByUUID(
	ctx context.Context,
	instanceUUID uuid.UUID,
) (*hostingDomain.Instance, error) {
	args := m.Called(ctx, instanceUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostingDomain.Instance), args.Error(1)
}

// ListByMember mocks the ListByMember method.
func (m *MockInstanceRepository) ListByMember(ctx context.Context, memberID int64) ([]*hostingDomain.Instance, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hostingDomain.Instance), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockInstanceRepository) Delete(ctx context.Context, instanceID int64) error {
	args := m.Called(ctx, instanceID)
	return args.Error(0)
}

// MockBackendRepository is a mock implementation of usecase.BackendRepository.
type MockBackendRepository struct {
	mock.Mock
}

// GetByInstance mocks the GetByInstance method.
func (m *MockBackendRepository) GetByInstance(ctx context.Context, instanceID int64) (*hostingDomain.Backend, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostingDomain.Backend), args.Error(1)
}

// Upsert mocks the Upsert method.
func (m *MockBackendRepository) Upsert(ctx context.Context, backend *hostingDomain.Backend) error {
	args := m.Called(ctx, backend)
	return args.Error(0)
}

// MockCertificateFinder is a mock implementation of usecase.CertificateFinder.
type MockCertificateFinder struct {
	mock.Mock
}

// FindByUUID mocks the FindByUUID method.
func (m *MockCertificateFinder) FindByUUID(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	args := m.Called(ctx, certificateUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Certificate), args.Error(1)
}

// MockBucketFinder is a mock implementation of usecase.BucketFinder.
type MockBucketFinder struct {
	mock.Mock
}

// GetOwned mocks the GetOwned method.
func (m *MockBucketFinder) GetOwned(ctx context.Context, memberID int64, name string) (*storageDomain.Bucket, error) {
	args := m.Called(ctx, memberID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.Bucket), args.Error(1)
}

// MockInstanceUseCase is a mock implementation of usecase.InstanceUseCase.
type MockInstanceUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockInstanceUseCase) List(ctx context.Context, memberID int64) ([]*hostingDomain.Instance, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hostingDomain.Instance), args.Error(1)
}

// Create mocks the Create method.
func (m *MockInstanceUseCase) Create(
	ctx context.Context,
	input usecase.CreateInstanceInput,
) (*hostingDomain.Instance, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostingDomain.Instance), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockInstanceUseCase) Delete(ctx context.Context, memberID int64, instanceUUID uuid.UUID) error {
	args := m.Called(ctx, memberID, instanceUUID)
	return args.Error(0)
}

// GetBackend mocks the GetBackend method.
func (m *MockInstanceUseCase) GetBackend(
	ctx context.Context,
	memberID int64,
	instanceUUID uuid.UUID,
) (*hostingDomain.Backend, error) {
	args := m.Called(ctx, memberID, instanceUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostingDomain.Backend), args.Error(1)
}

// PutBackend mocks the PutBackend method.
func (m *MockInstanceUseCase) PutBackend(
	ctx context.Context,
	memberID int64,
	instanceUUID uuid.UUID,
	backend *hostingDomain.Backend,
) (*hostingDomain.Backend, error) {
	args := m.Called(ctx, memberID, instanceUUID, backend)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostingDomain.Backend), args.Error(1)
}

// Package mocks provides testify mocks for the storage service package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// MockObjectStore is a mock implementation of service.ObjectStore.
type MockObjectStore struct {
	mock.Mock
}

// Get mocks the Get method.
func (m *MockObjectStore) Get(ctx context.Context, path string) (*storageDomain.Object, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.Object), args.Error(1)
}

// Put mocks the Put method.
func (m *MockObjectStore) Put(ctx context.Context, object *storageDomain.Object) error {
	args := m.Called(ctx, object)
	return args.Error(0)
}

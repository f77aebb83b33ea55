// Package mocks provides testify mocks for the dns package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lynlab/luppiter/internal/dns"
)

// MockProvider is a mock implementation of dns.Provider. Safe for concurrent use.
type MockProvider struct {
	mock.Mock
}

// CreateRecord mocks the CreateRecord method.
func (m *MockProvider) CreateRecord(ctx context.Context, zone string, record dns.Record) (dns.Record, error) {
	args := m.Called(ctx, zone, record)
	return args.Get(0).(dns.Record), args.Error(1)
}

// ListRecords mocks the ListRecords method.
func (m *MockProvider) ListRecords(ctx context.Context, zone, name string) ([]dns.Record, error) {
	args := m.Called(ctx, zone, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dns.Record), args.Error(1)
}

// DeleteRecord mocks the DeleteRecord method.
func (m *MockProvider) DeleteRecord(ctx context.Context, zone, id string) error {
	args := m.Called(ctx, zone, id)
	return args.Error(0)
}

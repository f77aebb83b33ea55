// Package mocks provides testify mocks for the database package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager.
// By default WithTx runs fn with the given context so use cases can be tested
// without a real transaction.
type MockTxManager struct {
	mock.Mock
}

// WithTx records the call and runs fn unless the expectation returns an error.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// NewMockTxManager creates a MockTxManager that asserts its expectations on test cleanup.
func NewMockTxManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTxManager {
	m := &MockTxManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

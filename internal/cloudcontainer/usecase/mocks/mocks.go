// Package mocks provides testify mocks for the cloud container use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	"github.com/lynlab/luppiter/internal/cloudcontainer/usecase"
)

// MockTaskRepository is a mock implementation of usecase.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockTaskRepository) Create(ctx context.Context, task *cloudcontainerDomain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByUUID mocks the GetByUUID method.
func (m *MockTaskRepository) GetByUUID(ctx context.Context, taskUUID uuid.UUID) (*cloudcontainerDomain.Task, error) {
	args := m.Called(ctx, taskUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudcontainerDomain.Task), args.Error(1)
}

// ListByMember mocks the ListByMember method.
func (m *MockTaskRepository) ListByMember(ctx context.Context, memberID int64) ([]*cloudcontainerDomain.Task, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cloudcontainerDomain.Task), args.Error(1)
}

// Update mocks the Update method.
func (m *MockTaskRepository) Update(ctx context.Context, task *cloudcontainerDomain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockTaskRepository) Delete(ctx context.Context, taskID int64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// MockHistoryRepository is a mock implementation of usecase.HistoryRepository.
type MockHistoryRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockHistoryRepository) Create(ctx context.Context, history *cloudcontainerDomain.History) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// Update mocks the Update method.
func (m *MockHistoryRepository) Update(ctx context.Context, history *cloudcontainerDomain.History) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// ListByTask mocks the ListByTask method.
func (m *MockHistoryRepository) ListByTask(
	ctx context.Context,
	taskID int64,
	offset, limit int,
) ([]*cloudcontainerDomain.History, error) {
	args := m.Called(ctx, taskID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cloudcontainerDomain.History), args.Error(1)
}

// MockTaskUseCase is a mock implementation of usecase.TaskUseCase.
type MockTaskUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockTaskUseCase) List(ctx context.Context, memberID int64) ([]*cloudcontainerDomain.Task, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cloudcontainerDomain.Task), args.Error(1)
}

// Create mocks the Create method.
func (m *MockTaskUseCase) Create(ctx context.Context, input usecase.CreateTaskInput) (*cloudcontainerDomain.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudcontainerDomain.Task), args.Error(1)
}

// Update mocks the Update method.
func (m *MockTaskUseCase) Update(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	patch cloudcontainerDomain.TaskPatch,
) (*cloudcontainerDomain.Task, error) {
	args := m.Called(ctx, memberID, taskUUID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudcontainerDomain.Task), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockTaskUseCase) Delete(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
) (*cloudcontainerDomain.Task, error) {
	args := m.Called(ctx, memberID, taskUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudcontainerDomain.Task), args.Error(1)
}

// Run mocks the Run method.
func (m *MockTaskUseCase) Run(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	envs []string,
) (*cloudcontainerDomain.History, error) {
	args := m.Called(ctx, memberID, taskUUID, envs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudcontainerDomain.History), args.Error(1)
}

// ListHistories mocks the ListHistories method.
func (m *MockTaskUseCase) ListHistories(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	offset, limit int,
) ([]*cloudcontainerDomain.History, error) {
	args := m.Called(ctx, memberID, taskUUID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cloudcontainerDomain.History), args.Error(1)
}

// Wait mocks the Wait method.
func (m *MockTaskUseCase) Wait() {
	m.Called()
}

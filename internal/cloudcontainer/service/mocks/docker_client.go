// Package mocks provides testify mocks for the cloud container services.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lynlab/luppiter/internal/cloudcontainer/service"
)

// MockDockerClient is a mock implementation of service.DockerClient.
type MockDockerClient struct {
	mock.Mock
}

// CreateContainer mocks the CreateContainer method.
func (m *MockDockerClient) CreateContainer(ctx context.Context, spec service.ContainerSpec) (string, error) {
	args := m.Called(ctx, spec)
	return args.String(0), args.Error(1)
}

// StartContainer mocks the StartContainer method.
func (m *MockDockerClient) StartContainer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WaitContainer mocks the WaitContainer method.
func (m *MockDockerClient) WaitContainer(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// ContainerLogs mocks the ContainerLogs method.
func (m *MockDockerClient) ContainerLogs(ctx context.Context, id string) (*service.ContainerLogs, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContainerLogs), args.Error(1)
}

// RemoveContainer mocks the RemoveContainer method.
func (m *MockDockerClient) RemoveContainer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Package service provides the Docker Engine client used to run container tasks and
// certificate issuance workers.
package service

import "context"

// ContainerSpec describes a container to create.
type ContainerSpec struct {
	Image  string
	Cmd    []string
	Env    []string
	Labels map[string]string
}

// ContainerLogs holds the demultiplexed output of a container.
type ContainerLogs struct {
	Stdout []byte
	Stderr []byte
}

// DockerClient is the subset of the Docker Engine API used by the application.
type DockerClient interface {
	// CreateContainer creates a container and returns its id. A missing image is pulled first.
	CreateContainer(ctx context.Context, spec ContainerSpec) (string, error)

	// StartContainer starts a created container.
	StartContainer(ctx context.Context, id string) error

	// WaitContainer blocks until the container stops and returns its exit code.
	WaitContainer(ctx context.Context, id string) (int, error)

	// ContainerLogs returns everything the container wrote to stdout and stderr.
	ContainerLogs(ctx context.Context, id string) (*ContainerLogs, error)

	// RemoveContainer force-removes the container.
	RemoveContainer(ctx context.Context, id string) error
}

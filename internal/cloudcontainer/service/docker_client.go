package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/hashicorp/go-retryablehttp"

	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// dockerClient talks to a remote Docker Engine through the official client.
type dockerClient struct {
	engine *client.Client
	logger *slog.Logger
}

// CreateContainer creates a container, pulling the image once when the engine does not have it.
func (d *dockerClient) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	id, err := d.createContainer(ctx, spec)
	if cerrdefs.IsNotFound(err) {
		d.logger.Info("pulling docker image", slog.String("image", spec.Image))
		if err := d.pullImage(ctx, spec.Image); err != nil {
			return "", err
		}
		id, err = d.createContainer(ctx, spec)
	}
	if err != nil {
		return "", upstream(err, "failed to create container")
	}
	return id, nil
}

func (d *dockerClient) createContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	created, err := d.engine.ContainerCreate(ctx, &container.Config{
		Image:  spec.Image,
		Cmd:    spec.Cmd,
		Env:    spec.Env,
		Labels: spec.Labels,
	}, &container.HostConfig{}, nil, nil, "")
	if err != nil {
		return "", err
	}

	for _, warning := range created.Warnings {
		d.logger.Warn("docker warning", slog.String("container_id", created.ID), slog.String("warning", warning))
	}
	return created.ID, nil
}

func (d *dockerClient) pullImage(ctx context.Context, ref string) error {
	progress, err := d.engine.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return upstream(err, "failed to pull image")
	}
	defer func() {
		_ = progress.Close()
	}()

	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, progress); err != nil {
		return upstream(err, "failed to pull image")
	}
	return nil
}

// StartContainer starts a container. Starting a running container is a no-op.
func (d *dockerClient) StartContainer(ctx context.Context, id string) error {
	if err := d.engine.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return upstream(err, "failed to start container")
	}
	return nil
}

// WaitContainer waits for the container to stop.
func (d *dockerClient) WaitContainer(ctx context.Context, id string) (int, error) {
	waitC, errC := d.engine.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	select {
	case waited := <-waitC:
		exitCode := int(waited.StatusCode)
		if waited.Error != nil && waited.Error.Message != "" {
			return exitCode, upstream(errors.New(waited.Error.Message), "container wait failed")
		}
		return exitCode, nil
	case err := <-errC:
		return 0, upstream(err, "failed to wait container")
	}
}

// ContainerLogs fetches and demultiplexes the container output.
func (d *dockerClient) ContainerLogs(ctx context.Context, id string) (*ContainerLogs, error) {
	stream, err := d.engine.ContainerLogs(ctx, id, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, upstream(err, "failed to fetch container logs")
	}
	defer func() {
		_ = stream.Close()
	}()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, stream); err != nil {
		return nil, upstream(err, "failed to read container logs")
	}
	return &ContainerLogs{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}

// RemoveContainer force-removes a container. Removing a missing container is a no-op.
func (d *dockerClient) RemoveContainer(ctx context.Context, id string) error {
	err := d.engine.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
	if err != nil && !cerrdefs.IsNotFound(err) {
		return upstream(err, "failed to remove container")
	}
	return nil
}

func upstream(err error, message string) error {
	if apperrors.Is(err, apperrors.ErrUpstream) {
		return err
	}
	return apperrors.Wrapf(apperrors.ErrUpstream, "%s: %v", message, err)
}

// NewDockerClient creates a client for the engine at host:port speaking apiVersion. Requests
// go through httpClient so transient engine failures are retried.
func NewDockerClient(
	host string,
	port int,
	apiVersion string,
	httpClient *retryablehttp.Client,
	logger *slog.Logger,
) (DockerClient, error) {
	opts := []client.Opt{
		client.WithHost("tcp://" + net.JoinHostPort(host, strconv.Itoa(port))),
		client.WithVersion(strings.TrimPrefix(apiVersion, "v")),
	}
	if httpClient != nil {
		opts = append(opts, client.WithHTTPClient(httpClient.StandardClient()))
	}

	engine, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &dockerClient{engine: engine, logger: logger}, nil
}

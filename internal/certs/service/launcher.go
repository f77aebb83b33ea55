package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	cloudcontainerService "github.com/lynlab/luppiter/internal/cloudcontainer/service"
)

// CertificateUUIDEnv is the environment variable carrying the certificate UUID into the worker.
const CertificateUUIDEnv = "LUPPITER_CERTIFICATE_UUID"

// ContainerStarter is the part of the Docker client the launcher needs.
type ContainerStarter interface {
	CreateContainer(ctx context.Context, spec cloudcontainerService.ContainerSpec) (string, error)
	StartContainer(ctx context.Context, id string) error
}

// dockerLauncher runs the issuance worker image as a detached container.
type dockerLauncher struct {
	docker   ContainerStarter
	image    string
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// Launch creates and starts a worker container, retrying up to the configured attempts.
func (d *dockerLauncher) Launch(ctx context.Context, certificateUUID uuid.UUID) error {
	spec := cloudcontainerService.ContainerSpec{
		Image: d.image,
		Env:   []string{fmt.Sprintf("%s=%s", CertificateUUIDEnv, certificateUUID)},
		Labels: map[string]string{
			"luppiter.certificate": certificateUUID.String(),
		},
	}

	var containerID string
	err := retry.Do(
		func() error {
			if containerID == "" {
				id, err := d.docker.CreateContainer(ctx, spec)
				if err != nil {
					return err
				}
				containerID = id
			}
			return d.docker.StartContainer(ctx, containerID)
		},
		retry.Attempts(d.attempts),
		retry.Delay(d.delay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			d.logger.Warn("issuance worker launch failed, retrying",
				slog.String("certificate_uuid", certificateUUID.String()),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Any("error", err))
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to launch issuance worker: %w", err)
	}

	d.logger.Info("issuance worker launched",
		slog.String("certificate_uuid", certificateUUID.String()),
		slog.String("container_id", containerID))
	return nil
}

// NewDockerLauncher creates a launcher running image through docker.
func NewDockerLauncher(
	docker ContainerStarter,
	image string,
	attempts int,
	delay time.Duration,
	logger *slog.Logger,
) IssuanceLauncher {
	if attempts < 1 {
		attempts = 1
	}
	return &dockerLauncher{
		docker:   docker,
		image:    image,
		attempts: uint(attempts),
		delay:    delay,
		logger:   logger,
	}
}

// noopLauncher only logs. Used when no worker image is configured.
type noopLauncher struct {
	logger *slog.Logger
}

func (n *noopLauncher) Launch(_ context.Context, certificateUUID uuid.UUID) error {
	n.logger.Info("issuance worker launch skipped, no worker image configured",
		slog.String("certificate_uuid", certificateUUID.String()))
	return nil
}

// NewNoopLauncher creates a launcher that does nothing.
func NewNoopLauncher(logger *slog.Logger) IssuanceLauncher {
	return &noopLauncher{logger: logger}
}

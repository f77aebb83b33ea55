package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
	"github.com/lynlab/luppiter/internal/metrics"
)

// instanceUseCaseWithMetrics decorates InstanceUseCase with metrics instrumentation.
type instanceUseCaseWithMetrics struct {
	next    InstanceUseCase
	metrics metrics.BusinessMetrics
}

// NewInstanceUseCaseWithMetrics wraps an InstanceUseCase with metrics recording.
func NewInstanceUseCaseWithMetrics(useCase InstanceUseCase, m metrics.BusinessMetrics) InstanceUseCase {
	return &instanceUseCaseWithMetrics{next: useCase, metrics: m}
}

func (i *instanceUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "hosting", operation, status)
	i.metrics.RecordDuration(ctx, "hosting", operation, time.Since(start), status)
}

// List records metrics for instance listing.
func (i *instanceUseCaseWithMetrics) List(ctx context.Context, memberID int64) ([]*hostingDomain.Instance, error) {
	start := time.Now()
	instances, err := i.next.List(ctx, memberID)
	i.record(ctx, "instance_list", start, err)
	return instances, err
}

// Create records metrics for instance creation.
func (i *instanceUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateInstanceInput,
) (*hostingDomain.Instance, error) {
	start := time.Now()
	instance, err := i.next.Create(ctx, input)
	i.record(ctx, "instance_create", start, err)
	return instance, err
}

// Delete records metrics for instance deletion.
func (i *instanceUseCaseWithMetrics) Delete(ctx context.Context, memberID int64, instanceUUID uuid.UUID) error {
	start := time.Now()
	err := i.next.Delete(ctx, memberID, instanceUUID)
	i.record(ctx, "instance_delete", start, err)
	return err
}

// GetBackend records metrics for backend retrieval.
func (i *instanceUseCaseWithMetrics) GetBackend(
	ctx context.Context,
	memberID int64,
	instanceUUID uuid.UUID,
) (*hostingDomain.Backend, error) {
	start := time.Now()
	backend, err := i.next.GetBackend(ctx, memberID, instanceUUID)
	i.record(ctx, "backend_get", start, err)
	return backend, err
}

// PutBackend records metrics for backend updates.
func (i *instanceUseCaseWithMetrics) PutBackend(
	ctx context.Context,
	memberID int64,
	instanceUUID uuid.UUID,
	backend *hostingDomain.Backend,
) (*hostingDomain.Backend, error) {
	start := time.Now()
	stored, err := i.next.PutBackend(ctx, memberID, instanceUUID, backend)
	i.record(ctx, "backend_put", start, err)
	return stored, err
}

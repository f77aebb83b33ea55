package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	"github.com/lynlab/luppiter/internal/metrics"
)

// taskUseCaseWithMetrics decorates TaskUseCase with metrics instrumentation.
type taskUseCaseWithMetrics struct {
	next    TaskUseCase
	metrics metrics.BusinessMetrics
}

// NewTaskUseCaseWithMetrics wraps a TaskUseCase with metrics recording.
func NewTaskUseCaseWithMetrics(useCase TaskUseCase, m metrics.BusinessMetrics) TaskUseCase {
	return &taskUseCaseWithMetrics{next: useCase, metrics: m}
}

func (t *taskUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "cloudcontainer", operation, status)
	t.metrics.RecordDuration(ctx, "cloudcontainer", operation, time.Since(start), status)
}

// List records metrics for task listing.
func (t *taskUseCaseWithMetrics) List(ctx context.Context, memberID int64) ([]*cloudcontainerDomain.Task, error) {
	start := time.Now()
	tasks, err := t.next.List(ctx, memberID)
	t.record(ctx, "task_list", start, err)
	return tasks, err
}

// Create records metrics for task creation.
func (t *taskUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateTaskInput,
) (*cloudcontainerDomain.Task, error) {
	start := time.Now()
	task, err := t.next.Create(ctx, input)
	t.record(ctx, "task_create", start, err)
	return task, err
}

// Update records metrics for task updates.
func (t *taskUseCaseWithMetrics) Update(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	patch cloudcontainerDomain.TaskPatch,
) (*cloudcontainerDomain.Task, error) {
	start := time.Now()
	task, err := t.next.Update(ctx, memberID, taskUUID, patch)
	t.record(ctx, "task_update", start, err)
	return task, err
}

// Delete records metrics for task deletion.
func (t *taskUseCaseWithMetrics) Delete(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
) (*cloudcontainerDomain.Task, error) {
	start := time.Now()
	task, err := t.next.Delete(ctx, memberID, taskUUID)
	t.record(ctx, "task_delete", start, err)
	return task, err
}

// Run records metrics for task starts.
func (t *taskUseCaseWithMetrics) Run(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	envs []string,
) (*cloudcontainerDomain.History, error) {
	start := time.Now()
	history, err := t.next.Run(ctx, memberID, taskUUID, envs)
	t.record(ctx, "task_run", start, err)
	return history, err
}

// ListHistories records metrics for history listing.
func (t *taskUseCaseWithMetrics) ListHistories(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	offset, limit int,
) ([]*cloudcontainerDomain.History, error) {
	start := time.Now()
	histories, err := t.next.ListHistories(ctx, memberID, taskUUID, offset, limit)
	t.record(ctx, "history_list", start, err)
	return histories, err
}

// Wait delegates to the wrapped use case.
func (t *taskUseCaseWithMetrics) Wait() {
	t.next.Wait()
}

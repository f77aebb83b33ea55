package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	cloudcontainerService "github.com/lynlab/luppiter/internal/cloudcontainer/service"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

const (
	// runTimeout bounds a background execution from start to removal.
	runTimeout = time.Hour

	// TaskLabel marks containers started for a task with the task UUID.
	TaskLabel = "co.lynlab.luppiter.task"

	// exitCodeUnknown is recorded when the engine could not report an exit code.
	exitCodeUnknown = -1
)

// taskUseCase implements TaskUseCase.
type taskUseCase struct {
	taskRepo    TaskRepository
	historyRepo HistoryRepository
	docker      cloudcontainerService.DockerClient
	logger      *slog.Logger

	runs sync.WaitGroup
}

// List returns the member's tasks.
func (t *taskUseCase) List(ctx context.Context, memberID int64) ([]*cloudcontainerDomain.Task, error) {
	return t.taskRepo.ListByMember(ctx, memberID)
}

// Create stores a new task.
func (t *taskUseCase) Create(ctx context.Context, input CreateTaskInput) (*cloudcontainerDomain.Task, error) {
	now := time.Now().UTC()
	task := &cloudcontainerDomain.Task{
		UUID:           uuid.New(),
		Name:           input.Name,
		MemberID:       input.MemberID,
		DockerImage:    input.DockerImage,
		DockerCommands: nonNil(input.DockerCommands),
		DockerEnvs:     nonNil(input.DockerEnvs),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := t.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies patch to one of the member's tasks.
func (t *taskUseCase) Update(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	patch cloudcontainerDomain.TaskPatch,
) (*cloudcontainerDomain.Task, error) {
	task, err := t.getOwned(ctx, memberID, taskUUID)
	if err != nil {
		return nil, err
	}

	patch.Apply(task)
	task.UpdatedAt = time.Now().UTC()
	if err := t.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes one of the member's tasks.
func (t *taskUseCase) Delete(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
) (*cloudcontainerDomain.Task, error) {
	task, err := t.getOwned(ctx, memberID, taskUUID)
	if err != nil {
		return nil, err
	}
	if err := t.taskRepo.Delete(ctx, task.ID); err != nil {
		return nil, err
	}
	return task, nil
}

// Run creates and starts the container, records a running history and hands the container
// over to a background watcher.
func (t *taskUseCase) Run(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	envs []string,
) (*cloudcontainerDomain.History, error) {
	task, err := t.getOwned(ctx, memberID, taskUUID)
	if err != nil {
		return nil, err
	}

	containerID, err := t.docker.CreateContainer(ctx, cloudcontainerService.ContainerSpec{
		Image:  task.DockerImage,
		Cmd:    task.DockerCommands,
		Env:    append(slices.Clone(task.DockerEnvs), envs...),
		Labels: map[string]string{TaskLabel: task.UUID.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cloudcontainerDomain.ErrStartTaskFailed, err)
	}

	now := time.Now().UTC()
	history := &cloudcontainerDomain.History{
		UUID:        uuid.New(),
		TaskID:      task.ID,
		ContainerID: containerID,
		Stdout:      []byte{},
		Stderr:      []byte{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.historyRepo.Create(ctx, history); err != nil {
		t.removeContainer(ctx, containerID)
		return nil, err
	}

	if err := t.docker.StartContainer(ctx, containerID); err != nil {
		history.Terminate(exitCodeUnknown, []byte{}, []byte(err.Error()), time.Now().UTC())
		if updateErr := t.historyRepo.Update(ctx, history); updateErr != nil {
			t.logger.Error("failed to record container start failure",
				slog.String("history_uuid", history.UUID.String()),
				slog.Any("error", updateErr))
		}
		t.removeContainer(ctx, containerID)
		return nil, fmt.Errorf("%w: %w", cloudcontainerDomain.ErrStartTaskFailed, err)
	}

	t.logger.Info("cloud container task started",
		slog.String("task_uuid", task.UUID.String()),
		slog.String("history_uuid", history.UUID.String()),
		slog.String("container_id", containerID))

	t.watch(ctx, *history)
	return history, nil
}

// watch waits for the container in a goroutine detached from the request, then stores its
// exit code and logs and removes it. It works on a copy so the returned history is not
// mutated concurrently.
func (t *taskUseCase) watch(ctx context.Context, history cloudcontainerDomain.History) {
	t.runs.Add(1)
	go func() {
		defer t.runs.Done()

		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runTimeout)
		defer cancel()

		exitCode, err := t.docker.WaitContainer(runCtx, history.ContainerID)
		if err != nil {
			t.logger.Error("failed to wait for container",
				slog.String("container_id", history.ContainerID),
				slog.Any("error", err))
			exitCode = exitCodeUnknown
		}

		stdout, stderr := []byte{}, []byte{}
		logs, err := t.docker.ContainerLogs(runCtx, history.ContainerID)
		if err != nil {
			t.logger.Error("failed to collect container logs",
				slog.String("container_id", history.ContainerID),
				slog.Any("error", err))
		} else {
			stdout, stderr = logs.Stdout, logs.Stderr
		}

		history.Terminate(exitCode, stdout, stderr, time.Now().UTC())
		if err := t.historyRepo.Update(runCtx, &history); err != nil {
			t.logger.Error("failed to record container termination",
				slog.String("history_uuid", history.UUID.String()),
				slog.Any("error", err))
		}

		t.removeContainer(runCtx, history.ContainerID)
		t.logger.Info("cloud container task terminated",
			slog.String("history_uuid", history.UUID.String()),
			slog.Int("exit_code", exitCode))
	}()
}

func (t *taskUseCase) removeContainer(ctx context.Context, containerID string) {
	if err := t.docker.RemoveContainer(context.WithoutCancel(ctx), containerID); err != nil {
		t.logger.Warn("failed to remove container",
			slog.String("container_id", containerID),
			slog.Any("error", err))
	}
}

// Wait blocks until every background execution has been recorded.
func (t *taskUseCase) Wait() {
	t.runs.Wait()
}

// ListHistories returns executions of one of the member's tasks.
func (t *taskUseCase) ListHistories(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
	offset, limit int,
) ([]*cloudcontainerDomain.History, error) {
	task, err := t.getOwned(ctx, memberID, taskUUID)
	if err != nil {
		return nil, err
	}
	return t.historyRepo.ListByTask(ctx, task.ID, offset, limit)
}

func (t *taskUseCase) getOwned(
	ctx context.Context,
	memberID int64,
	taskUUID uuid.UUID,
) (*cloudcontainerDomain.Task, error) {
	task, err := t.taskRepo.GetByUUID(ctx, taskUUID)
	if err != nil {
		if apperrors.Is(err, cloudcontainerDomain.ErrTaskNotFound) {
			return nil, cloudcontainerDomain.ErrTaskNotOwned
		}
		return nil, err
	}
	if !task.OwnedBy(memberID) {
		return nil, cloudcontainerDomain.ErrTaskNotOwned
	}
	return task, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// NewTaskUseCase creates a new TaskUseCase.
func NewTaskUseCase(
	taskRepo TaskRepository,
	historyRepo HistoryRepository,
	docker cloudcontainerService.DockerClient,
	logger *slog.Logger,
) TaskUseCase {
	return &taskUseCase{
		taskRepo:    taskRepo,
		historyRepo: historyRepo,
		docker:      docker,
		logger:      logger,
	}
}

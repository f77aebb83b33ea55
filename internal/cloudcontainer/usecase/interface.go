// Package usecase defines business logic interfaces for cloud container tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	// Create stores a new task and sets its ID.
	Create(ctx context.Context, task *cloudcontainerDomain.Task) error

	// GetByUUID retrieves a task. Returns ErrTaskNotFound if not found.
	GetByUUID(ctx context.Context, taskUUID uuid.UUID) (*cloudcontainerDomain.Task, error)

	// ListByMember returns the member's tasks, newest first.
	ListByMember(ctx context.Context, memberID int64) ([]*cloudcontainerDomain.Task, error)

	// Update persists name, image, commands, envs and updated_at.
	Update(ctx context.Context, task *cloudcontainerDomain.Task) error

	// Delete removes a task and its histories.
	Delete(ctx context.Context, taskID int64) error
}

// HistoryRepository defines persistence operations for task executions.
type HistoryRepository interface {
	// Create stores a new history and sets its ID.
	Create(ctx context.Context, history *cloudcontainerDomain.History) error

	// Update persists the execution outcome.
	Update(ctx context.Context, history *cloudcontainerDomain.History) error

	// ListByTask returns the task's histories, newest first.
	ListByTask(ctx context.Context, taskID int64, offset, limit int) ([]*cloudcontainerDomain.History, error)
}

// CreateTaskInput contains the parameters for creating a task.
type CreateTaskInput struct {
	MemberID       int64
	Name           string
	DockerImage    string
	DockerCommands []string
	DockerEnvs     []string
}

// TaskUseCase manages a member's container tasks and runs them.
type TaskUseCase interface {
	// List returns the member's tasks.
	List(ctx context.Context, memberID int64) ([]*cloudcontainerDomain.Task, error)

	// Create stores a new task.
	Create(ctx context.Context, input CreateTaskInput) (*cloudcontainerDomain.Task, error)

	// Update applies patch to one of the member's tasks.
	Update(
		ctx context.Context,
		memberID int64,
		taskUUID uuid.UUID,
		patch cloudcontainerDomain.TaskPatch,
	) (*cloudcontainerDomain.Task, error)

	// Delete removes one of the member's tasks and returns it.
	Delete(ctx context.Context, memberID int64, taskUUID uuid.UUID) (*cloudcontainerDomain.Task, error)

	// Run starts a container for the task and returns its running history. Extra envs are
	// appended to the task envs for this execution only. The container is awaited, its logs
	// collected and it is removed in the background.
	Run(
		ctx context.Context,
		memberID int64,
		taskUUID uuid.UUID,
		envs []string,
	) (*cloudcontainerDomain.History, error)

	// ListHistories returns executions of one of the member's tasks.
	ListHistories(
		ctx context.Context,
		memberID int64,
		taskUUID uuid.UUID,
		offset, limit int,
	) ([]*cloudcontainerDomain.History, error)

	// Wait blocks until every background execution has been recorded.
	Wait()
}

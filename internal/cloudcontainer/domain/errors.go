package domain

import (
	"github.com/lynlab/luppiter/internal/errors"
)

// Cloud container errors.
var (
	// ErrTaskNotFound indicates no task exists for the UUID.
	ErrTaskNotFound = errors.Wrap(errors.ErrNotFound, "cloud container task not found")

	// ErrTaskNotOwned indicates the task is missing or belongs to another member.
	ErrTaskNotOwned = errors.Wrap(errors.ErrUnauthorized, "invalid_uuid")

	// ErrHistoryNotFound indicates no history exists for the ID.
	ErrHistoryNotFound = errors.Wrap(errors.ErrNotFound, "cloud container history not found")

	// ErrStartTaskFailed indicates the container could not be created or started.
	ErrStartTaskFailed = errors.New("start_task_failed")
)

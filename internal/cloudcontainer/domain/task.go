// Package domain defines container tasks and their execution histories.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a container recipe owned by a member. Running it creates a History.
type Task struct {
	ID             int64
	UUID           uuid.UUID
	Name           string
	MemberID       int64
	DockerImage    string
	DockerCommands []string
	// DockerEnvs holds KEY=VALUE pairs.
	DockerEnvs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OwnedBy reports whether the task belongs to the member.
func (t *Task) OwnedBy(memberID int64) bool {
	return t.MemberID == memberID
}

// TaskPatch holds the fields of a task update. Nil fields are left unchanged.
type TaskPatch struct {
	Name           *string
	DockerImage    *string
	DockerCommands []string
	DockerEnvs     []string
}

// Apply copies the set fields onto the task. Empty strings and nil slices are ignored.
func (p TaskPatch) Apply(task *Task) {
	if p.Name != nil && *p.Name != "" {
		task.Name = *p.Name
	}
	if p.DockerImage != nil && *p.DockerImage != "" {
		task.DockerImage = *p.DockerImage
	}
	if p.DockerCommands != nil {
		task.DockerCommands = p.DockerCommands
	}
	if p.DockerEnvs != nil {
		task.DockerEnvs = p.DockerEnvs
	}
}

// History is one execution of a task. ExitCode and TerminatedAt stay nil while the container
// runs.
type History struct {
	ID           int64
	UUID         uuid.UUID
	TaskID       int64
	ContainerID  string
	ExitCode     *int
	Stdout       []byte
	Stderr       []byte
	TerminatedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Running reports whether the container has not terminated yet.
func (h *History) Running() bool {
	return h.TerminatedAt == nil
}

// Terminate records the container outcome.
func (h *History) Terminate(exitCode int, stdout, stderr []byte, at time.Time) {
	h.ExitCode = &exitCode
	h.Stdout = stdout
	h.Stderr = stderr
	h.TerminatedAt = &at
	h.UpdatedAt = at
}

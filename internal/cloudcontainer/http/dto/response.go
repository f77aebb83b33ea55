package dto

import (
	"time"

	"github.com/samber/lo"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
)

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Commands  []string  `json:"commands"`
	Envs      []string  `json:"envs"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapTaskToResponse converts a domain task to an API response.
func MapTaskToResponse(task *cloudcontainerDomain.Task) TaskResponse {
	return TaskResponse{
		UUID:      task.UUID.String(),
		Name:      task.Name,
		Image:     task.DockerImage,
		Commands:  task.DockerCommands,
		Envs:      task.DockerEnvs,
		CreatedAt: task.CreatedAt,
	}
}

// MapTasksToResponse converts domain tasks to API responses.
func MapTasksToResponse(tasks []*cloudcontainerDomain.Task) []TaskResponse {
	return lo.Map(tasks, func(task *cloudcontainerDomain.Task, _ int) TaskResponse {
		return MapTaskToResponse(task)
	})
}

// HistoryResponse represents a task execution. ExitCode and TerminatedAt are null while the
// container runs.
type HistoryResponse struct {
	UUID         string     `json:"uuid"`
	ExitCode     *int       `json:"exitCode"`
	Stdout       string     `json:"stdout"`
	Stderr       string     `json:"stderr"`
	TerminatedAt *time.Time `json:"terminatedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// MapHistoryToResponse converts a domain history to an API response.
func MapHistoryToResponse(history *cloudcontainerDomain.History) HistoryResponse {
	return HistoryResponse{
		UUID:         history.UUID.String(),
		ExitCode:     history.ExitCode,
		Stdout:       string(history.Stdout),
		Stderr:       string(history.Stderr),
		TerminatedAt: history.TerminatedAt,
		CreatedAt:    history.CreatedAt,
	}
}

// ListHistoriesResponse is a page of executions.
type ListHistoriesResponse struct {
	Data []HistoryResponse `json:"data"`
}

// MapHistoriesToResponse converts domain histories to an API response.
func MapHistoriesToResponse(histories []*cloudcontainerDomain.History) ListHistoriesResponse {
	return ListHistoriesResponse{
		Data: lo.Map(histories, func(history *cloudcontainerDomain.History, _ int) HistoryResponse {
			return MapHistoryToResponse(history)
		}),
	}
}

package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
)

func TestCreateTaskRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateTaskRequest
		wantErr bool
	}{
		{
			name:    "valid",
			request: CreateTaskRequest{Name: "build", Image: "alpine:3", Envs: []string{"A=1", "EMPTY="}},
		},
		{
			name:    "missing name",
			request: CreateTaskRequest{Image: "alpine"},
			wantErr: true,
		},
		{
			name:    "blank name",
			request: CreateTaskRequest{Name: "   ", Image: "alpine"},
			wantErr: true,
		},
		{
			name:    "image with whitespace",
			request: CreateTaskRequest{Name: "build", Image: "alpine 3"},
			wantErr: true,
		},
		{
			name:    "env without separator",
			request: CreateTaskRequest{Name: "build", Image: "alpine", Envs: []string{"A"}},
			wantErr: true,
		},
		{
			name:    "env without key",
			request: CreateTaskRequest{Name: "build", Image: "alpine", Envs: []string{"=1"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateTaskRequest(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"image":"busybox","envs":["X=1"]}`), &req))
	require.NoError(t, req.Validate())

	patch := req.ToPatch()
	assert.Nil(t, patch.Name)
	require.NotNil(t, patch.DockerImage)
	assert.Equal(t, "busybox", *patch.DockerImage)
	assert.Nil(t, patch.DockerCommands)
	assert.Equal(t, []string{"X=1"}, patch.DockerEnvs)

	bad := UpdateTaskRequest{Envs: []string{"nope"}}
	assert.Error(t, bad.Validate())
}

func TestMapHistoryToResponse(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("running", func(t *testing.T) {
		body, err := json.Marshal(MapHistoryToResponse(&cloudcontainerDomain.History{
			UUID:      uuid.New(),
			CreatedAt: created,
		}))
		require.NoError(t, err)
		assert.Contains(t, string(body), `"exitCode":null`)
		assert.Contains(t, string(body), `"terminatedAt":null`)
	})

	t.Run("terminated", func(t *testing.T) {
		history := &cloudcontainerDomain.History{UUID: uuid.New(), CreatedAt: created}
		history.Terminate(0, []byte("done\n"), []byte{}, created.Add(time.Minute))

		response := MapHistoryToResponse(history)
		require.NotNil(t, response.ExitCode)
		assert.Equal(t, 0, *response.ExitCode)
		assert.Equal(t, "done\n", response.Stdout)
		assert.Equal(t, created.Add(time.Minute), *response.TerminatedAt)
	})
}

func TestMapTasksToResponse(t *testing.T) {
	tasks := []*cloudcontainerDomain.Task{
		{UUID: uuid.New(), Name: "a", DockerImage: "alpine", DockerCommands: []string{}, DockerEnvs: []string{}},
	}

	responses := MapTasksToResponse(tasks)
	require.Len(t, responses, 1)
	assert.Equal(t, "alpine", responses[0].Image)
	assert.Equal(t, tasks[0].UUID.String(), responses[0].UUID)
}

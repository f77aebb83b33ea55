package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	cloudcontainerService "github.com/lynlab/luppiter/internal/cloudcontainer/service"
	dockerMocks "github.com/lynlab/luppiter/internal/cloudcontainer/service/mocks"
	"github.com/lynlab/luppiter/internal/cloudcontainer/usecase"
	usecaseMocks "github.com/lynlab/luppiter/internal/cloudcontainer/usecase/mocks"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

type taskFixture struct {
	tasks     *usecaseMocks.MockTaskRepository
	histories *usecaseMocks.MockHistoryRepository
	docker    *dockerMocks.MockDockerClient
	uc        usecase.TaskUseCase
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		tasks:     &usecaseMocks.MockTaskRepository{},
		histories: &usecaseMocks.MockHistoryRepository{},
		docker:    &dockerMocks.MockDockerClient{},
	}
	f.uc = usecase.NewTaskUseCase(
		f.tasks,
		f.histories,
		f.docker,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *taskFixture) assertExpectations(t *testing.T) {
	f.tasks.AssertExpectations(t)
	f.histories.AssertExpectations(t)
	f.docker.AssertExpectations(t)
}

func ownedTask() *cloudcontainerDomain.Task {
	return &cloudcontainerDomain.Task{
		ID:             3,
		UUID:           uuid.New(),
		Name:           "build",
		MemberID:       1,
		DockerImage:    "alpine:3",
		DockerCommands: []string{"echo", "hi"},
		DockerEnvs:     []string{"A=1"},
	}
}

func TestTaskUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NilSlicesStoredEmpty", func(t *testing.T) {
		f := newTaskFixture()
		f.tasks.On("Create", ctx, mock.MatchedBy(func(task *cloudcontainerDomain.Task) bool {
			return task.UUID != uuid.Nil && task.DockerCommands != nil && task.DockerEnvs != nil
		})).Return(nil).Once()

		task, err := f.uc.Create(ctx, usecase.CreateTaskInput{MemberID: 1, Name: "build", DockerImage: "alpine"})
		require.NoError(t, err)
		assert.Equal(t, "build", task.Name)
		assert.Equal(t, int64(1), task.MemberID)
		assert.Empty(t, task.DockerCommands)
		f.assertExpectations(t)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		f := newTaskFixture()
		f.tasks.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

		_, err := f.uc.Create(ctx, usecase.CreateTaskInput{MemberID: 1})
		assert.Error(t, err)
	})
}

func TestTaskUseCase_Ownership(t *testing.T) {
	ctx := context.Background()
	taskUUID := uuid.New()

	tests := []struct {
		name  string
		setup func(f *taskFixture)
	}{
		{
			name: "unknown task",
			setup: func(f *taskFixture) {
				f.tasks.On("GetByUUID", ctx, taskUUID).Return(nil, cloudcontainerDomain.ErrTaskNotFound)
			},
		},
		{
			name: "foreign task",
			setup: func(f *taskFixture) {
				f.tasks.On("GetByUUID", ctx, taskUUID).
					Return(&cloudcontainerDomain.Task{ID: 9, UUID: taskUUID, MemberID: 2}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskFixture()
			tt.setup(f)

			_, err := f.uc.Update(ctx, 1, taskUUID, cloudcontainerDomain.TaskPatch{})
			assert.ErrorIs(t, err, cloudcontainerDomain.ErrTaskNotOwned)

			_, err = f.uc.Delete(ctx, 1, taskUUID)
			assert.ErrorIs(t, err, cloudcontainerDomain.ErrTaskNotOwned)

			_, err = f.uc.Run(ctx, 1, taskUUID, nil)
			assert.ErrorIs(t, err, cloudcontainerDomain.ErrTaskNotOwned)

			_, err = f.uc.ListHistories(ctx, 1, taskUUID, 0, 50)
			assert.ErrorIs(t, err, cloudcontainerDomain.ErrTaskNotOwned)
			assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

			f.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			f.tasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			f.docker.AssertNotCalled(t, "CreateContainer", mock.Anything, mock.Anything)
		})
	}

	t.Run("repository failure is not masked", func(t *testing.T) {
		f := newTaskFixture()
		f.tasks.On("GetByUUID", ctx, taskUUID).Return(nil, errors.New("db down")).Once()

		_, err := f.uc.Delete(ctx, 1, taskUUID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, cloudcontainerDomain.ErrTaskNotOwned)
	})
}

func TestTaskUseCase_Update(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	task := ownedTask()
	name := "deploy"

	f.tasks.On("GetByUUID", ctx, task.UUID).Return(task, nil).Once()
	f.tasks.On("Update", ctx, task).Return(nil).Once()

	updated, err := f.uc.Update(ctx, 1, task.UUID, cloudcontainerDomain.TaskPatch{
		Name:       &name,
		DockerEnvs: []string{"B=2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "deploy", updated.Name)
	assert.Equal(t, "alpine:3", updated.DockerImage)
	assert.Equal(t, []string{"B=2"}, updated.DockerEnvs)
	assert.False(t, updated.UpdatedAt.IsZero())
	f.assertExpectations(t)
}

func TestTaskUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	task := ownedTask()

	f.tasks.On("GetByUUID", ctx, task.UUID).Return(task, nil).Once()
	f.tasks.On("Delete", ctx, int64(3)).Return(nil).Once()

	deleted, err := f.uc.Delete(ctx, 1, task.UUID)
	require.NoError(t, err)
	assert.Equal(t, task.UUID, deleted.UUID)
	f.assertExpectations(t)
}

func TestTaskUseCase_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsTermination", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		f := newTaskFixture()
		task := ownedTask()
		f.tasks.On("GetByUUID", ctx, task.UUID).Return(task, nil).Once()
		f.docker.On("CreateContainer", ctx, cloudcontainerService.ContainerSpec{
			Image:  "alpine:3",
			Cmd:    []string{"echo", "hi"},
			Env:    []string{"A=1", "B=2"},
			Labels: map[string]string{usecase.TaskLabel: task.UUID.String()},
		}).Return("cid", nil).Once()
		f.histories.On("Create", ctx, mock.AnythingOfType("*domain.History")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*cloudcontainerDomain.History).ID = 11
			}).
			Return(nil).Once()
		f.docker.On("StartContainer", ctx, "cid").Return(nil).Once()
		f.docker.On("WaitContainer", mock.Anything, "cid").Return(2, nil).Once()
		f.docker.On("ContainerLogs", mock.Anything, "cid").
			Return(&cloudcontainerService.ContainerLogs{Stdout: []byte("hi\n"), Stderr: []byte("warn\n")}, nil).Once()
		f.histories.On("Update", mock.Anything, mock.MatchedBy(func(h *cloudcontainerDomain.History) bool {
			return h.ID == 11 && h.ExitCode != nil && *h.ExitCode == 2 &&
				string(h.Stdout) == "hi\n" && string(h.Stderr) == "warn\n" && h.TerminatedAt != nil
		})).Return(nil).Once()
		f.docker.On("RemoveContainer", mock.Anything, "cid").Return(nil).Once()

		history, err := f.uc.Run(ctx, 1, task.UUID, []string{"B=2"})
		require.NoError(t, err)
		f.uc.Wait()

		assert.Equal(t, int64(11), history.ID)
		assert.Equal(t, "cid", history.ContainerID)
		assert.Equal(t, task.ID, history.TaskID)
		assert.True(t, history.Running())
		assert.Equal(t, []string{"A=1"}, task.DockerEnvs)
		f.assertExpectations(t)
	})

	t.Run("Success_WaitFailureRecordsUnknownExitCode", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		f := newTaskFixture()
		task := ownedTask()
		f.tasks.On("GetByUUID", ctx, task.UUID).Return(task, nil).Once()
		f.docker.On("CreateContainer", ctx, mock.Anything).Return("cid", nil).Once()
		f.histories.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.docker.On("StartContainer", ctx, "cid").Return(nil).Once()
		f.docker.On("WaitContainer", mock.Anything, "cid").Return(0, apperrors.ErrUpstream).Once()
		f.docker.On("ContainerLogs", mock.Anything, "cid").Return(nil, apperrors.ErrUpstream).Once()
		f.histories.On("Update", mock.Anything, mock.MatchedBy(func(h *cloudcontainerDomain.History) bool {
			return h.ExitCode != nil && *h.ExitCode == -1 && len(h.Stdout) == 0
		})).Return(nil).Once()
		f.docker.On("RemoveContainer", mock.Anything, "cid").Return(errors.New("gone")).Once()

		_, err := f.uc.Run(ctx, 1, task.UUID, nil)
		require.NoError(t, err)
		f.uc.Wait()
		f.assertExpectations(t)
	})

	t.Run("Error_CreateContainer", func(t *testing.T) {
		f := newTaskFixture()
		task := ownedTask()
		f.tasks.On("GetByUUID", ctx, task.UUID).Return(task, nil).Once()
		f.docker.On("CreateContainer", ctx, mock.Anything).Return("", apperrors.ErrUpstream).Once()

		_, err := f.uc.Run(ctx, 1, task.UUID, nil)
		assert.ErrorIs(t, err, cloudcontainerDomain.ErrStartTaskFailed)
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		f.histories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_StartContainerTerminatesHistory", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		f := newTaskFixture()
		task := ownedTask()
		f.tasks.On("GetByUUID", ctx, task.UUID).Return(task, nil).Once()
		f.docker.On("CreateContainer", ctx, mock.Anything).Return("cid", nil).Once()
		f.histories.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.docker.On("StartContainer", ctx, "cid").Return(apperrors.ErrUpstream).Once()
		f.histories.On("Update", ctx, mock.MatchedBy(func(h *cloudcontainerDomain.History) bool {
			return !h.Running() && *h.ExitCode == -1 && len(h.Stderr) > 0
		})).Return(nil).Once()
		f.docker.On("RemoveContainer", mock.Anything, "cid").Return(nil).Once()

		_, err := f.uc.Run(ctx, 1, task.UUID, nil)
		assert.ErrorIs(t, err, cloudcontainerDomain.ErrStartTaskFailed)
		f.uc.Wait()
		f.docker.AssertNotCalled(t, "WaitContainer", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Error_HistoryRemovesContainer", func(t *testing.T) {
		f := newTaskFixture()
		task := ownedTask()
		f.tasks.On("GetByUUID", ctx, task.UUID).Return(task, nil).Once()
		f.docker.On("CreateContainer", ctx, mock.Anything).Return("cid", nil).Once()
		f.histories.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()
		f.docker.On("RemoveContainer", mock.Anything, "cid").Return(nil).Once()

		_, err := f.uc.Run(ctx, 1, task.UUID, nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, cloudcontainerDomain.ErrStartTaskFailed)
		f.docker.AssertNotCalled(t, "StartContainer", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestTaskUseCase_ListHistories(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	task := ownedTask()
	histories := []*cloudcontainerDomain.History{{ID: 2}, {ID: 1}}

	f.tasks.On("GetByUUID", ctx, task.UUID).Return(task, nil).Once()
	f.histories.On("ListByTask", ctx, int64(3), 10, 20).Return(histories, nil).Once()

	got, err := f.uc.ListHistories(ctx, 1, task.UUID, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, histories, got)
	f.assertExpectations(t)
}

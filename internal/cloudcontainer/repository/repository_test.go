package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	"github.com/lynlab/luppiter/internal/cloudcontainer/usecase"
	"github.com/lynlab/luppiter/internal/testutil"
)

type cloudcontainerRepositories struct {
	tasks     usecase.TaskRepository
	histories usecase.HistoryRepository
	db        *sql.DB
	driver    string
}

func forEachDriver(t *testing.T, fn func(t *testing.T, r cloudcontainerRepositories)) {
	t.Run("postgres", func(t *testing.T) {
		db := testutil.SetupPostgresDB(t)
		defer testutil.TeardownDB(t, db)
		defer testutil.CleanupPostgresDB(t, db)

		fn(t, cloudcontainerRepositories{
			tasks:     NewPostgreSQLTaskRepository(db),
			histories: NewPostgreSQLHistoryRepository(db),
			db:        db,
			driver:    "postgres",
		})
	})

	t.Run("mysql", func(t *testing.T) {
		db := testutil.SetupMySQLDB(t)
		defer testutil.TeardownDB(t, db)
		defer testutil.CleanupMySQLDB(t, db)

		fn(t, cloudcontainerRepositories{
			tasks:     NewMySQLTaskRepository(db),
			histories: NewMySQLHistoryRepository(db),
			db:        db,
			driver:    "mysql",
		})
	})
}

func newTask(memberID int64, name string) *cloudcontainerDomain.Task {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &cloudcontainerDomain.Task{
		UUID:           uuid.New(),
		Name:           name,
		MemberID:       memberID,
		DockerImage:    "alpine:3",
		DockerCommands: []string{"sh", "-c", "echo hi"},
		DockerEnvs:     []string{"A=1"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestTaskRepository(t *testing.T) {
	forEachDriver(t, func(t *testing.T, r cloudcontainerRepositories) {
		ctx := context.Background()
		memberID := testutil.CreateTestMember(t, r.db, r.driver)

		first := newTask(memberID, "first")
		require.NoError(t, r.tasks.Create(ctx, first))
		assert.NotZero(t, first.ID)
		second := newTask(memberID, "second")
		second.DockerEnvs = []string{}
		require.NoError(t, r.tasks.Create(ctx, second))

		got, err := r.tasks.GetByUUID(ctx, first.UUID)
		require.NoError(t, err)
		assert.Equal(t, first.Name, got.Name)
		assert.Equal(t, first.DockerCommands, got.DockerCommands)
		assert.Equal(t, first.DockerEnvs, got.DockerEnvs)
		assert.Equal(t, memberID, got.MemberID)

		list, err := r.tasks.ListByMember(ctx, memberID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.UUID, list[0].UUID)
		assert.Equal(t, []string{}, list[0].DockerEnvs)

		first.Name = "renamed"
		first.DockerCommands = []string{"true"}
		first.UpdatedAt = first.UpdatedAt.Add(time.Minute)
		require.NoError(t, r.tasks.Update(ctx, first))

		got, err = r.tasks.GetByUUID(ctx, first.UUID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Name)
		assert.Equal(t, []string{"true"}, got.DockerCommands)

		require.NoError(t, r.tasks.Delete(ctx, first.ID))
		_, err = r.tasks.GetByUUID(ctx, first.UUID)
		assert.ErrorIs(t, err, cloudcontainerDomain.ErrTaskNotFound)
	})
}

func TestHistoryRepository(t *testing.T) {
	forEachDriver(t, func(t *testing.T, r cloudcontainerRepositories) {
		ctx := context.Background()
		memberID := testutil.CreateTestMember(t, r.db, r.driver)
		task := newTask(memberID, "task")
		require.NoError(t, r.tasks.Create(ctx, task))

		now := time.Now().UTC().Truncate(time.Microsecond)
		running := &cloudcontainerDomain.History{
			UUID:        uuid.New(),
			TaskID:      task.ID,
			ContainerID: "c1",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		require.NoError(t, r.histories.Create(ctx, running))
		assert.NotZero(t, running.ID)

		finished := &cloudcontainerDomain.History{
			UUID:        uuid.New(),
			TaskID:      task.ID,
			ContainerID: "c2",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		require.NoError(t, r.histories.Create(ctx, finished))
		finished.Terminate(3, []byte{0x00, 0xff, 'o'}, []byte("err"), now.Add(time.Second))
		require.NoError(t, r.histories.Update(ctx, finished))

		list, err := r.histories.ListByTask(ctx, task.ID, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)

		assert.Equal(t, finished.UUID, list[0].UUID)
		require.NotNil(t, list[0].ExitCode)
		assert.Equal(t, 3, *list[0].ExitCode)
		assert.Equal(t, []byte{0x00, 0xff, 'o'}, list[0].Stdout)
		assert.Equal(t, []byte("err"), list[0].Stderr)
		require.NotNil(t, list[0].TerminatedAt)

		assert.True(t, list[1].Running())
		assert.Nil(t, list[1].ExitCode)

		page, err := r.histories.ListByTask(ctx, task.ID, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, running.UUID, page[0].UUID)

		require.NoError(t, r.tasks.Delete(ctx, task.ID))
		assert.Equal(t, 0, testutil.CountRows(t, r.db, "cloudcontainer_histories"))
	})
}

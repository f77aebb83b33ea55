package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
)

func TestPostgreSQLTaskRepository_GetByUUID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, uuid, name").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewPostgreSQLTaskRepository(db).GetByUUID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, cloudcontainerDomain.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLTaskRepository_GetByUUID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, uuid, name").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewMySQLTaskRepository(db).GetByUUID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, cloudcontainerDomain.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTaskRepository_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE cloudcontainer_tasks").WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewPostgreSQLTaskRepository(db).Update(context.Background(), &cloudcontainerDomain.Task{ID: 5})
	assert.ErrorIs(t, err, cloudcontainerDomain.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLTaskRepository_Create_StoresJSONArrays(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	task := &cloudcontainerDomain.Task{UUID: uuid.New(), DockerCommands: []string{"echo"}}
	mock.ExpectExec("INSERT INTO cloudcontainer_tasks").
		WithArgs(sqlmock.AnyArg(), "", int64(0), "", []byte(`["echo"]`), []byte(`[]`), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))

	require.NoError(t, NewMySQLTaskRepository(db).Create(context.Background(), task))
	assert.Equal(t, int64(12), task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLHistoryRepository_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE cloudcontainer_histories").WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewPostgreSQLHistoryRepository(db).Update(context.Background(), &cloudcontainerDomain.History{ID: 5})
	assert.ErrorIs(t, err, cloudcontainerDomain.ErrHistoryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_ListByTask_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, uuid, task_id").WithArgs(int64(4), 10, 20).
		WillReturnError(errors.New("connection reset"))

	_, err = NewMySQLHistoryRepository(db).ListByTask(context.Background(), 4, 20, 10)
	assert.ErrorContains(t, err, "failed to list cloud container histories")
	assert.NoError(t, mock.ExpectationsWereMet())
}

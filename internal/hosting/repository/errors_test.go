package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lynlab/luppiter/internal/errors"
	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
)

func TestPostgreSQLInstanceRepository_Create_DuplicatedName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("INSERT INTO hosting_instances").WillReturnError(&pq.Error{Code: "23505"})

	err = NewPostgreSQLInstanceRepository(db).Create(context.Background(), &hostingDomain.Instance{UUID: uuid.New()})
	assert.ErrorIs(t, err, hostingDomain.ErrDuplicatedInstance)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLInstanceRepository_Create_DuplicatedName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO hosting_instances").WillReturnError(&mysql.MySQLError{Number: 1062})

	err = NewMySQLInstanceRepository(db).Create(context.Background(), &hostingDomain.Instance{UUID: uuid.New()})
	assert.ErrorIs(t, err, hostingDomain.ErrDuplicatedInstance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLInstanceRepository_GetByUUID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT i.id").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewPostgreSQLInstanceRepository(db).GetByUUID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, hostingDomain.ErrInstanceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackendRepository_Upsert_InvalidBackend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	backend := &hostingDomain.Backend{UUID: uuid.New(), Type: "lambda"}

	assert.ErrorIs(t, NewPostgreSQLBackendRepository(db).Upsert(context.Background(), backend),
		hostingDomain.ErrInvalidBackend)
	assert.ErrorIs(t, NewMySQLBackendRepository(db).Upsert(context.Background(), backend),
		hostingDomain.ErrInvalidBackend)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLBackendRepository_GetByInstance_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, uuid, instance_id").WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewMySQLBackendRepository(db).GetByInstance(context.Background(), 4)
	assert.ErrorIs(t, err, hostingDomain.ErrBackendNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

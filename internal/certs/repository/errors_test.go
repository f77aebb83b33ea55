package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

func TestPostgreSQLProvisionRepository_Create_RevisionConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("INSERT INTO certificate_provisions").WillReturnError(&pq.Error{Code: "23505"})

	err = NewPostgreSQLProvisionRepository(db).Create(context.Background(), &certsDomain.Provision{
		CertificateID: 1,
		Revision:      1,
	})
	assert.ErrorIs(t, err, certsDomain.ErrProvisionConflict)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLProvisionRepository_Create_RevisionConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO certificate_provisions").WillReturnError(&mysql.MySQLError{Number: 1062})

	err = NewMySQLProvisionRepository(db).Create(context.Background(), &certsDomain.Provision{
		CertificateID: 1,
		Revision:      1,
	})
	assert.ErrorIs(t, err, certsDomain.ErrProvisionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCertificateRepository_GetByUUID_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT id, uuid").WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err = NewPostgreSQLCertificateRepository(db).GetByUUID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, certsDomain.ErrCertificateNotFound)
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT id, uuid").WillReturnError(errors.New("connection reset"))

		_, err = NewPostgreSQLCertificateRepository(db).GetByUUID(context.Background(), uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get certificate")
		assert.False(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestPostgreSQLCertificateRepository_UpdateState_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE certificates SET state").
		WithArgs("issued", sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewPostgreSQLCertificateRepository(db).UpdateState(context.Background(), &certsDomain.Certificate{
		ID:        42,
		State:     certsDomain.StateIssued,
		UpdatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, certsDomain.ErrCertificateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCertificateRepository_ListByStates_Placeholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	certUUID := uuid.New()
	uuidBytes, err := certUUID.MarshalBinary()
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery(`WHERE state IN \(\?, \?\)`).
		WithArgs("issued", "almost_expired").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "uuid", "state", "member_id", "email", "domains", "dns_token", "created_at", "updated_at",
		}).AddRow(int64(1), uuidBytes, "issued", int64(2), "a@example.com", []byte(`["x.test"]`), "tok", now, now))

	certs, err := NewMySQLCertificateRepository(db).ListByStates(context.Background(), []certsDomain.State{
		certsDomain.StateIssued,
		certsDomain.StateAlmostExpired,
	})
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, certUUID, certs[0].UUID)
	assert.Equal(t, []string{"x.test"}, certs[0].Domains)
	assert.Equal(t, certsDomain.StateIssued, certs[0].State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

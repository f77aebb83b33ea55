package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/certs/usecase"
	"github.com/lynlab/luppiter/internal/database"
	"github.com/lynlab/luppiter/internal/testutil"
)

type certsRepositories struct {
	certificates usecase.CertificateRepository
	provisions   usecase.ProvisionRepository
	db           *sql.DB
	driver       string
}

// forEachDriver runs fn against a freshly migrated PostgreSQL and MySQL database.
func forEachDriver(t *testing.T, fn func(t *testing.T, r certsRepositories)) {
	t.Run("postgres", func(t *testing.T) {
		db := testutil.SetupPostgresDB(t)
		defer testutil.TeardownDB(t, db)
		defer testutil.CleanupPostgresDB(t, db)

		fn(t, certsRepositories{
			certificates: NewPostgreSQLCertificateRepository(db),
			provisions:   NewPostgreSQLProvisionRepository(db),
			db:           db,
			driver:       "postgres",
		})
	})

	t.Run("mysql", func(t *testing.T) {
		db := testutil.SetupMySQLDB(t)
		defer testutil.TeardownDB(t, db)
		defer testutil.CleanupMySQLDB(t, db)

		fn(t, certsRepositories{
			certificates: NewMySQLCertificateRepository(db),
			provisions:   NewMySQLProvisionRepository(db),
			db:           db,
			driver:       "mysql",
		})
	})
}

func newCertificate(t *testing.T, r certsRepositories, memberID int64, dnsToken string) *certsDomain.Certificate {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	cert := &certsDomain.Certificate{
		UUID:      uuid.New(),
		State:     certsDomain.StateSubmitted,
		MemberID:  memberID,
		Email:     "a@example.com",
		Domains:   []string{"x.test", "*.x.test"},
		DNSToken:  dnsToken,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, r.certificates.Create(context.Background(), cert))
	return cert
}

func TestCertificateRepository(t *testing.T) {
	forEachDriver(t, func(t *testing.T, r certsRepositories) {
		ctx := context.Background()
		memberID := testutil.CreateTestMember(t, r.db, r.driver)
		otherID := testutil.CreateTestMember(t, r.db, r.driver)

		first := newCertificate(t, r, memberID, "0000000000000000000000000000000000000001")
		second := newCertificate(t, r, memberID, "0000000000000000000000000000000000000002")
		newCertificate(t, r, otherID, "0000000000000000000000000000000000000003")
		assert.NotZero(t, first.ID)

		got, err := r.certificates.GetByUUID(ctx, first.UUID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, first.UUID, got.UUID)
		assert.Equal(t, certsDomain.StateSubmitted, got.State)
		assert.Equal(t, []string{"x.test", "*.x.test"}, got.Domains)
		assert.Equal(t, first.DNSToken, got.DNSToken)
		assert.Equal(t, memberID, got.MemberID)

		_, err = r.certificates.GetByUUID(ctx, uuid.New())
		assert.ErrorIs(t, err, certsDomain.ErrCertificateNotFound)

		listed, err := r.certificates.ListByMember(ctx, memberID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, second.ID, listed[0].ID, "newest first")

		require.NoError(t, got.TransitionTo(certsDomain.StateInitializing, time.Now().UTC()))
		require.NoError(t, r.certificates.UpdateState(ctx, got))

		byState, err := r.certificates.ListByStates(ctx, []certsDomain.State{certsDomain.StateInitializing})
		require.NoError(t, err)
		require.Len(t, byState, 1)
		assert.Equal(t, first.UUID, byState[0].UUID)

		byState, err = r.certificates.ListByStates(ctx, []certsDomain.State{
			certsDomain.StateSubmitted,
			certsDomain.StateInitializing,
		})
		require.NoError(t, err)
		assert.Len(t, byState, 3)
	})
}

func TestCertificateRepository_GetByUUIDForUpdate(t *testing.T) {
	forEachDriver(t, func(t *testing.T, r certsRepositories) {
		ctx := context.Background()
		memberID := testutil.CreateTestMember(t, r.db, r.driver)
		cert := newCertificate(t, r, memberID, "0000000000000000000000000000000000000004")
		txManager := database.NewTxManager(r.db)

		err := txManager.WithTx(ctx, func(ctx context.Context) error {
			locked, err := r.certificates.GetByUUIDForUpdate(ctx, cert.UUID)
			if err != nil {
				return err
			}
			assert.Equal(t, cert.ID, locked.ID)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestProvisionRepository(t *testing.T) {
	forEachDriver(t, func(t *testing.T, r certsRepositories) {
		ctx := context.Background()
		memberID := testutil.CreateTestMember(t, r.db, r.driver)
		certificateID := testutil.CreateTestCertificate(t, r.db, r.driver, memberID)

		last, err := r.provisions.LastRevision(ctx, certificateID)
		require.NoError(t, err)
		assert.Equal(t, 0, last)

		_, err = r.provisions.GetCurrent(ctx, certificateID)
		assert.ErrorIs(t, err, certsDomain.ErrProvisionNotFound)
		_, err = r.provisions.CurrentExpireAt(ctx, certificateID)
		assert.ErrorIs(t, err, certsDomain.ErrProvisionNotFound)

		now := time.Now().UTC().Truncate(time.Microsecond)
		for revision := 1; revision <= 2; revision++ {
			provision := &certsDomain.Provision{
				CertificateID: certificateID,
				Revision:      revision,
				CSR:           []byte("csr"),
				Certificate:   []byte("certificate"),
				PrivateKey:    []byte("sealed"),
				ExpireAt:      now.Add(90 * 24 * time.Hour),
				CreatedAt:     now,
			}
			require.NoError(t, r.provisions.Create(ctx, provision))
			assert.NotZero(t, provision.ID)
		}

		last, err = r.provisions.LastRevision(ctx, certificateID)
		require.NoError(t, err)
		assert.Equal(t, 2, last)

		err = r.provisions.Create(ctx, &certsDomain.Provision{
			CertificateID: certificateID,
			Revision:      2,
			CSR:           []byte("csr"),
			Certificate:   []byte("certificate"),
			PrivateKey:    []byte("sealed"),
			ExpireAt:      now,
			CreatedAt:     now,
		})
		assert.ErrorIs(t, err, certsDomain.ErrProvisionConflict)

		current, err := r.provisions.GetCurrent(ctx, certificateID)
		require.NoError(t, err)
		assert.Equal(t, 2, current.Revision)
		assert.Equal(t, []byte("sealed"), current.PrivateKey)
		assert.Equal(t, []byte("certificate"), current.Certificate)
		assert.WithinDuration(t, now.Add(90*24*time.Hour), current.ExpireAt, time.Second)

		expireAt, err := r.provisions.CurrentExpireAt(ctx, certificateID)
		require.NoError(t, err)
		assert.WithinDuration(t, current.ExpireAt, expireAt, time.Second)
	})
}

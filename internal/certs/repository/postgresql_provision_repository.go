package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// PostgreSQLProvisionRepository implements Provision persistence for PostgreSQL.
type PostgreSQLProvisionRepository struct {
	db *sql.DB
}

// Create inserts a new Provision. A revision already taken for the certificate yields
// ErrProvisionConflict.
func (p *PostgreSQLProvisionRepository) Create(ctx context.Context, provision *certsDomain.Provision) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO certificate_provisions
			  (certificate_id, revision, csr, certificate, private_key, expire_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		provision.CertificateID,
		provision.Revision,
		provision.CSR,
		provision.Certificate,
		provision.PrivateKey,
		provision.ExpireAt,
		provision.CreatedAt,
	).Scan(&provision.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return certsDomain.ErrProvisionConflict
		}
		return apperrors.Wrap(err, "failed to create provision")
	}
	return nil
}

// LastRevision returns the highest provision revision of the certificate, 0 when none exist.
func (p *PostgreSQLProvisionRepository) LastRevision(ctx context.Context, certificateID int64) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COALESCE(MAX(revision), 0) FROM certificate_provisions WHERE certificate_id = $1`

	var revision int
	if err := querier.QueryRowContext(ctx, query, certificateID).Scan(&revision); err != nil {
		return 0, apperrors.Wrap(err, "failed to get last provision revision")
	}
	return revision, nil
}

// GetCurrent returns the provision with the highest revision. Returns ErrProvisionNotFound
// when the certificate has none.
func (p *PostgreSQLProvisionRepository) GetCurrent(ctx context.Context, certificateID int64) (*certsDomain.Provision, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, certificate_id, revision, csr, certificate, private_key, expire_at, created_at
			  FROM certificate_provisions
			  WHERE certificate_id = $1
			  ORDER BY revision DESC
			  LIMIT 1`

	var provision certsDomain.Provision
	err := querier.QueryRowContext(ctx, query, certificateID).Scan(
		&provision.ID,
		&provision.CertificateID,
		&provision.Revision,
		&provision.CSR,
		&provision.Certificate,
		&provision.PrivateKey,
		&provision.ExpireAt,
		&provision.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certsDomain.ErrProvisionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get current provision")
	}
	return &provision, nil
}

// CurrentExpireAt returns the expiry of the highest revision without loading its artifacts.
// Returns ErrProvisionNotFound when the certificate has none.
func (p *PostgreSQLProvisionRepository) CurrentExpireAt(ctx context.Context, certificateID int64) (time.Time, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT expire_at FROM certificate_provisions
			  WHERE certificate_id = $1
			  ORDER BY revision DESC
			  LIMIT 1`

	var expireAt time.Time
	if err := querier.QueryRowContext(ctx, query, certificateID).Scan(&expireAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, certsDomain.ErrProvisionNotFound
		}
		return time.Time{}, apperrors.Wrap(err, "failed to get current provision expiry")
	}
	return expireAt, nil
}

// NewPostgreSQLProvisionRepository creates a new PostgreSQL Provision repository.
func NewPostgreSQLProvisionRepository(db *sql.DB) *PostgreSQLProvisionRepository {
	return &PostgreSQLProvisionRepository{db: db}
}

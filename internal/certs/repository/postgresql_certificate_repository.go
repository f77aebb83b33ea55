// Package repository implements certificate and provision persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

const pgCertificateColumns = `id, uuid, state, member_id, email, domains, dns_token, created_at, updated_at`

// PostgreSQLCertificateRepository implements Certificate persistence for PostgreSQL.
// Domains are stored as TEXT[].
type PostgreSQLCertificateRepository struct {
	db *sql.DB
}

// Create inserts a new Certificate and sets its generated ID.
func (p *PostgreSQLCertificateRepository) Create(ctx context.Context, cert *certsDomain.Certificate) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO certificates (uuid, state, member_id, email, domains, dns_token, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		cert.UUID,
		string(cert.State),
		cert.MemberID,
		cert.Email,
		pq.Array(cert.Domains),
		cert.DNSToken,
		cert.CreatedAt,
		cert.UpdatedAt,
	).Scan(&cert.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "certificate already exists")
		}
		return apperrors.Wrap(err, "failed to create certificate")
	}
	return nil
}

// GetByUUID retrieves a Certificate by its UUID.
func (p *PostgreSQLCertificateRepository) GetByUUID(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	query := `SELECT ` + pgCertificateColumns + ` FROM certificates WHERE uuid = $1`
	return p.get(ctx, query, certificateUUID)
}

// GetByUUIDForUpdate retrieves a Certificate and locks its row with SELECT ... FOR UPDATE.
func (p *PostgreSQLCertificateRepository) GetByUUIDForUpdate(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	query := `SELECT ` + pgCertificateColumns + ` FROM certificates WHERE uuid = $1 FOR UPDATE`
	return p.get(ctx, query, certificateUUID)
}

func (p *PostgreSQLCertificateRepository) get(
	ctx context.Context,
	query string,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	querier := database.GetTx(ctx, p.db)

	cert, err := scanPostgreSQLCertificate(querier.QueryRowContext(ctx, query, certificateUUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certsDomain.ErrCertificateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get certificate")
	}
	return cert, nil
}

// ListByMember returns the member's certificates, newest first.
func (p *PostgreSQLCertificateRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*certsDomain.Certificate, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgCertificateColumns + ` FROM certificates WHERE member_id = $1 ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates")
	}
	return scanPostgreSQLCertificates(rows)
}

// ListByStates returns the certificates in any of states, oldest first.
func (p *PostgreSQLCertificateRepository) ListByStates(
	ctx context.Context,
	states []certsDomain.State,
) ([]*certsDomain.Certificate, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgCertificateColumns + ` FROM certificates WHERE state = ANY($1) ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query, pq.Array(stateStrings(states)))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates by state")
	}
	return scanPostgreSQLCertificates(rows)
}

// UpdateState persists the certificate state and updated_at.
func (p *PostgreSQLCertificateRepository) UpdateState(ctx context.Context, cert *certsDomain.Certificate) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE certificates SET state = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, string(cert.State), cert.UpdatedAt, cert.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update certificate state")
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLCertificate(row rowScanner) (*certsDomain.Certificate, error) {
	var cert certsDomain.Certificate
	var state string
	var domains pq.StringArray
	if err := row.Scan(
		&cert.ID,
		&cert.UUID,
		&state,
		&cert.MemberID,
		&cert.Email,
		&domains,
		&cert.DNSToken,
		&cert.CreatedAt,
		&cert.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cert.State = certsDomain.State(state)
	cert.Domains = []string(domains)
	return &cert, nil
}

func scanPostgreSQLCertificates(rows *sql.Rows) ([]*certsDomain.Certificate, error) {
	defer func() {
		_ = rows.Close()
	}()

	certs := make([]*certsDomain.Certificate, 0)
	for rows.Next() {
		cert, err := scanPostgreSQLCertificate(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan certificate")
		}
		certs = append(certs, cert)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate certificates")
	}

	return certs, nil
}

func stateStrings(states []certsDomain.State) []string {
	values := make([]string, 0, len(states))
	for _, s := range states {
		values = append(values, string(s))
	}
	return values
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return certsDomain.ErrCertificateNotFound
	}
	return nil
}

// NewPostgreSQLCertificateRepository creates a new PostgreSQL Certificate repository.
func NewPostgreSQLCertificateRepository(db *sql.DB) *PostgreSQLCertificateRepository {
	return &PostgreSQLCertificateRepository{db: db}
}

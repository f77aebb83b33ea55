package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

const mysqlCertificateColumns = `id, uuid, state, member_id, email, domains, dns_token, created_at, updated_at`

// MySQLCertificateRepository implements Certificate persistence for MySQL.
// Uses BINARY(16) for UUID storage and a JSON column for domains.
type MySQLCertificateRepository struct {
	db *sql.DB
}

// Create inserts a new Certificate and sets its generated ID.
func (m *MySQLCertificateRepository) Create(ctx context.Context, cert *certsDomain.Certificate) error {
	querier := database.GetTx(ctx, m.db)

	certUUID, err := cert.UUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal certificate uuid")
	}
	domains, err := json.Marshal(cert.Domains)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal certificate domains")
	}

	query := `INSERT INTO certificates (uuid, state, member_id, email, domains, dns_token, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		certUUID,
		string(cert.State),
		cert.MemberID,
		cert.Email,
		domains,
		cert.DNSToken,
		cert.CreatedAt,
		cert.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "certificate already exists")
		}
		return apperrors.Wrap(err, "failed to create certificate")
	}

	cert.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get certificate id")
	}
	return nil
}

// GetByUUID retrieves a Certificate by its UUID.
func (m *MySQLCertificateRepository) GetByUUID(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	query := `SELECT ` + mysqlCertificateColumns + ` FROM certificates WHERE uuid = ?`
	return m.get(ctx, query, certificateUUID)
}

// GetByUUIDForUpdate retrieves a Certificate and locks its row with SELECT ... FOR UPDATE.
func (m *MySQLCertificateRepository) GetByUUIDForUpdate(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	query := `SELECT ` + mysqlCertificateColumns + ` FROM certificates WHERE uuid = ? FOR UPDATE`
	return m.get(ctx, query, certificateUUID)
}

func (m *MySQLCertificateRepository) get(
	ctx context.Context,
	query string,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := certificateUUID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal certificate uuid")
	}

	cert, err := scanMySQLCertificate(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certsDomain.ErrCertificateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get certificate")
	}
	return cert, nil
}

// ListByMember returns the member's certificates, newest first.
func (m *MySQLCertificateRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*certsDomain.Certificate, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlCertificateColumns + ` FROM certificates WHERE member_id = ? ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates")
	}
	return scanMySQLCertificates(rows)
}

// ListByStates returns the certificates in any of states, oldest first.
func (m *MySQLCertificateRepository) ListByStates(
	ctx context.Context,
	states []certsDomain.State,
) ([]*certsDomain.Certificate, error) {
	if len(states) == 0 {
		return []*certsDomain.Certificate{}, nil
	}
	querier := database.GetTx(ctx, m.db)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(states)), ", ")
	args := make([]any, 0, len(states))
	for _, s := range states {
		args = append(args, string(s))
	}

	query := `SELECT ` + mysqlCertificateColumns + ` FROM certificates WHERE state IN (` + placeholders + `) ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates by state")
	}
	return scanMySQLCertificates(rows)
}

// UpdateState persists the certificate state and updated_at.
func (m *MySQLCertificateRepository) UpdateState(ctx context.Context, cert *certsDomain.Certificate) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE certificates SET state = ?, updated_at = ? WHERE id = ?`

	// MySQL reports changed rather than matched rows, so a missing row is not detected here.
	if _, err := querier.ExecContext(ctx, query, string(cert.State), cert.UpdatedAt, cert.ID); err != nil {
		return apperrors.Wrap(err, "failed to update certificate state")
	}
	return nil
}

func scanMySQLCertificate(row rowScanner) (*certsDomain.Certificate, error) {
	var cert certsDomain.Certificate
	var uuidBytes, domains []byte
	var state string
	if err := row.Scan(
		&cert.ID,
		&uuidBytes,
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
	if err := cert.UUID.UnmarshalBinary(uuidBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal certificate uuid")
	}
	if err := json.Unmarshal(domains, &cert.Domains); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal certificate domains")
	}
	cert.State = certsDomain.State(state)
	return &cert, nil
}

func scanMySQLCertificates(rows *sql.Rows) ([]*certsDomain.Certificate, error) {
	defer func() {
		_ = rows.Close()
	}()

	certs := make([]*certsDomain.Certificate, 0)
	for rows.Next() {
		cert, err := scanMySQLCertificate(rows)
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

// NewMySQLCertificateRepository creates a new MySQL Certificate repository.
func NewMySQLCertificateRepository(db *sql.DB) *MySQLCertificateRepository {
	return &MySQLCertificateRepository{db: db}
}

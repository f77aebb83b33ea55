// Package repository implements hosting instance and backend persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
)

// instanceSelect joins the certificate to expose its UUID. Shared by both drivers.
const instanceSelect = `SELECT i.id, i.uuid, i.name, i.domain, i.domain_key, i.member_id, i.certificate_id,
			c.uuid, i.created_at, i.updated_at
		FROM hosting_instances i JOIN certificates c ON c.id = i.certificate_id`

// PostgreSQLInstanceRepository implements Instance persistence for PostgreSQL.
type PostgreSQLInstanceRepository struct {
	db *sql.DB
}

// Create inserts a new Instance and sets its generated ID.
func (p *PostgreSQLInstanceRepository) Create(ctx context.Context, instance *hostingDomain.Instance) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO hosting_instances
			  (uuid, name, domain, domain_key, member_id, certificate_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		instance.UUID,
		instance.Name,
		instance.Domain,
		instance.DomainKey,
		instance.MemberID,
		instance.CertificateID,
		instance.CreatedAt,
		instance.UpdatedAt,
	).Scan(&instance.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return hostingDomain.ErrDuplicatedInstance
		}
		return apperrors.Wrap(err, "failed to create hosting instance")
	}
	return nil
}

// GetByUUID retrieves an Instance by its UUID.
func (p *PostgreSQLInstanceRepository) GetByUUID(
	ctx context.Context,
	instanceUUID uuid.UUID,
) (*hostingDomain.Instance, error) {
	querier := database.GetTx(ctx, p.db)

	instance, err := scanInstance(querier.QueryRowContext(ctx, instanceSelect+` WHERE i.uuid = $1`, instanceUUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hostingDomain.ErrInstanceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get hosting instance")
	}
	return instance, nil
}

// ListByMember returns the member's instances, newest first.
func (p *PostgreSQLInstanceRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*hostingDomain.Instance, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, instanceSelect+` WHERE i.member_id = $1 ORDER BY i.id DESC`, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list hosting instances")
	}
	return scanInstances(rows)
}

// Delete removes an Instance by ID.
func (p *PostgreSQLInstanceRepository) Delete(ctx context.Context, instanceID int64) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM hosting_instances WHERE id = $1`, instanceID); err != nil {
		return apperrors.Wrap(err, "failed to delete hosting instance")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanInstance reads an instanceSelect row. uuid.UUID scans both UUID and BINARY(16) columns.
func scanInstance(row rowScanner) (*hostingDomain.Instance, error) {
	var instance hostingDomain.Instance
	if err := row.Scan(
		&instance.ID,
		&instance.UUID,
		&instance.Name,
		&instance.Domain,
		&instance.DomainKey,
		&instance.MemberID,
		&instance.CertificateID,
		&instance.CertificateUUID,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &instance, nil
}

func scanInstances(rows *sql.Rows) ([]*hostingDomain.Instance, error) {
	defer func() {
		_ = rows.Close()
	}()

	instances := make([]*hostingDomain.Instance, 0)
	for rows.Next() {
		instance, err := scanInstance(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan hosting instance")
		}
		instances = append(instances, instance)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate hosting instances")
	}
	return instances, nil
}

// NewPostgreSQLInstanceRepository creates a new PostgreSQL Instance repository.
func NewPostgreSQLInstanceRepository(db *sql.DB) *PostgreSQLInstanceRepository {
	return &PostgreSQLInstanceRepository{db: db}
}

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

// MySQLInstanceRepository implements Instance persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLInstanceRepository struct {
	db *sql.DB
}

// Create inserts a new Instance and sets its generated ID.
func (m *MySQLInstanceRepository) Create(ctx context.Context, instance *hostingDomain.Instance) error {
	querier := database.GetTx(ctx, m.db)

	id, err := instance.UUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hosting instance uuid")
	}

	query := `INSERT INTO hosting_instances
			  (uuid, name, domain, domain_key, member_id, certificate_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		id,
		instance.Name,
		instance.Domain,
		instance.DomainKey,
		instance.MemberID,
		instance.CertificateID,
		instance.CreatedAt,
		instance.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return hostingDomain.ErrDuplicatedInstance
		}
		return apperrors.Wrap(err, "failed to create hosting instance")
	}

	instance.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get hosting instance id")
	}
	return nil
}

// GetByUUID retrieves an Instance by its UUID.
func (m *MySQLInstanceRepository) GetByUUID(
	ctx context.Context,
	instanceUUID uuid.UUID,
) (*hostingDomain.Instance, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := instanceUUID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hosting instance uuid")
	}

	instance, err := scanInstance(querier.QueryRowContext(ctx, instanceSelect+` WHERE i.uuid = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hostingDomain.ErrInstanceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get hosting instance")
	}
	return instance, nil
}

// ListByMember returns the member's instances, newest first.
func (m *MySQLInstanceRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*hostingDomain.Instance, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, instanceSelect+` WHERE i.member_id = ? ORDER BY i.id DESC`, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list hosting instances")
	}
	return scanInstances(rows)
}

// Delete removes an Instance by ID.
func (m *MySQLInstanceRepository) Delete(ctx context.Context, instanceID int64) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM hosting_instances WHERE id = ?`, instanceID); err != nil {
		return apperrors.Wrap(err, "failed to delete hosting instance")
	}
	return nil
}

// NewMySQLInstanceRepository creates a new MySQL Instance repository.
func NewMySQLInstanceRepository(db *sql.DB) *MySQLInstanceRepository {
	return &MySQLInstanceRepository{db: db}
}

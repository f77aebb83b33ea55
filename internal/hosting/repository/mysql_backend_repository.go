package repository

import (
	"context"
	"database/sql"

	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
)

// MySQLBackendRepository implements Backend persistence for MySQL.
// Properties are stored as msgpack in a LONGBLOB column.
type MySQLBackendRepository struct {
	db *sql.DB
}

// GetByInstance retrieves the Backend of an instance.
func (m *MySQLBackendRepository) GetByInstance(
	ctx context.Context,
	instanceID int64,
) (*hostingDomain.Backend, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + backendColumns + ` FROM hosting_backends WHERE instance_id = ?`
	return scanBackend(querier.QueryRowContext(ctx, query, instanceID))
}

// Upsert inserts the Backend or replaces the instance's current one. LAST_INSERT_ID(id)
// makes the existing row id available on update.
func (m *MySQLBackendRepository) Upsert(ctx context.Context, backend *hostingDomain.Backend) error {
	querier := database.GetTx(ctx, m.db)

	properties, err := backend.MarshalProperties()
	if err != nil {
		return err
	}
	id, err := backend.UUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hosting backend uuid")
	}

	query := `INSERT INTO hosting_backends (uuid, instance_id, type, properties, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), type = VALUES(type),
			  properties = VALUES(properties), updated_at = VALUES(updated_at)`

	result, err := querier.ExecContext(
		ctx,
		query,
		id,
		backend.InstanceID,
		string(backend.Type),
		properties,
		backend.CreatedAt,
		backend.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to store hosting backend")
	}

	backend.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get hosting backend id")
	}
	return nil
}

// NewMySQLBackendRepository creates a new MySQL Backend repository.
func NewMySQLBackendRepository(db *sql.DB) *MySQLBackendRepository {
	return &MySQLBackendRepository{db: db}
}

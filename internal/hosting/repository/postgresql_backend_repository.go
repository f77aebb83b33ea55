package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
)

const backendColumns = `id, uuid, instance_id, type, properties, created_at, updated_at`

// PostgreSQLBackendRepository implements Backend persistence for PostgreSQL.
// Properties are stored as msgpack in a BYTEA column.
type PostgreSQLBackendRepository struct {
	db *sql.DB
}

// GetByInstance retrieves the Backend of an instance.
func (p *PostgreSQLBackendRepository) GetByInstance(
	ctx context.Context,
	instanceID int64,
) (*hostingDomain.Backend, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + backendColumns + ` FROM hosting_backends WHERE instance_id = $1`
	return scanBackend(querier.QueryRowContext(ctx, query, instanceID))
}

// Upsert inserts the Backend or replaces the instance's current one.
func (p *PostgreSQLBackendRepository) Upsert(ctx context.Context, backend *hostingDomain.Backend) error {
	querier := database.GetTx(ctx, p.db)

	properties, err := backend.MarshalProperties()
	if err != nil {
		return err
	}

	query := `INSERT INTO hosting_backends (uuid, instance_id, type, properties, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (instance_id) DO UPDATE
			  SET type = EXCLUDED.type, properties = EXCLUDED.properties, updated_at = EXCLUDED.updated_at
			  RETURNING id`

	err = querier.QueryRowContext(
		ctx,
		query,
		backend.UUID,
		backend.InstanceID,
		string(backend.Type),
		properties,
		backend.CreatedAt,
		backend.UpdatedAt,
	).Scan(&backend.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to store hosting backend")
	}
	return nil
}

func scanBackend(row rowScanner) (*hostingDomain.Backend, error) {
	var backend hostingDomain.Backend
	var backendType string
	var properties []byte
	if err := row.Scan(
		&backend.ID,
		&backend.UUID,
		&backend.InstanceID,
		&backendType,
		&properties,
		&backend.CreatedAt,
		&backend.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hostingDomain.ErrBackendNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get hosting backend")
	}

	backend.Type = hostingDomain.BackendType(backendType)
	if err := backend.UnmarshalProperties(properties); err != nil {
		return nil, err
	}
	return &backend, nil
}

// NewPostgreSQLBackendRepository creates a new PostgreSQL Backend repository.
func NewPostgreSQLBackendRepository(db *sql.DB) *PostgreSQLBackendRepository {
	return &PostgreSQLBackendRepository{db: db}
}

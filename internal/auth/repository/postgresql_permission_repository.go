package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// PostgreSQLPermissionRepository implements permission catalog persistence for PostgreSQL.
type PostgreSQLPermissionRepository struct {
	db *sql.DB
}

// GetByKey retrieves a Permission by its string.
func (p *PostgreSQLPermissionRepository) GetByKey(ctx context.Context, key string) (*authDomain.Permission, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, key, created_at FROM permissions WHERE key = $1`

	var permission authDomain.Permission
	err := querier.QueryRowContext(ctx, query, key).Scan(&permission.ID, &permission.Key, &permission.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrPermissionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission")
	}

	return &permission, nil
}

// Search returns permissions whose key contains query, ordered by key.
func (p *PostgreSQLPermissionRepository) Search(
	ctx context.Context,
	query string,
) ([]*authDomain.Permission, error) {
	querier := database.GetTx(ctx, p.db)

	sqlQuery := `SELECT id, key, created_at FROM permissions
				 WHERE strpos(key, $1) > 0
				 ORDER BY key ASC`

	rows, err := querier.QueryContext(ctx, sqlQuery, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search permissions")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanPermissions(rows)
}

// CreateIfNotExists inserts the permission unless the key already exists.
func (p *PostgreSQLPermissionRepository) CreateIfNotExists(ctx context.Context, key string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO permissions (key, created_at) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`

	result, err := querier.ExecContext(ctx, query, key, time.Now().UTC())
	if err != nil {
		return false, apperrors.Wrap(err, "failed to create permission")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}
	return affected > 0, nil
}

// scanPermissions reads every permission row.
func scanPermissions(rows *sql.Rows) ([]*authDomain.Permission, error) {
	permissions := make([]*authDomain.Permission, 0)
	for rows.Next() {
		var permission authDomain.Permission
		if err := rows.Scan(&permission.ID, &permission.Key, &permission.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission")
		}
		permissions = append(permissions, &permission)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permissions")
	}

	return permissions, nil
}

// NewPostgreSQLPermissionRepository creates a new PostgreSQL permission repository.
func NewPostgreSQLPermissionRepository(db *sql.DB) *PostgreSQLPermissionRepository {
	return &PostgreSQLPermissionRepository{db: db}
}

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

// MySQLPermissionRepository implements permission catalog persistence for MySQL.
type MySQLPermissionRepository struct {
	db *sql.DB
}

// GetByKey retrieves a Permission by its string.
func (m *MySQLPermissionRepository) GetByKey(ctx context.Context, key string) (*authDomain.Permission, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT id, `key`, created_at FROM permissions WHERE `key` = ?"

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
func (m *MySQLPermissionRepository) Search(ctx context.Context, query string) ([]*authDomain.Permission, error) {
	querier := database.GetTx(ctx, m.db)

	sqlQuery := "SELECT id, `key`, created_at FROM permissions WHERE LOCATE(?, `key`) > 0 ORDER BY `key` ASC"

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
func (m *MySQLPermissionRepository) CreateIfNotExists(ctx context.Context, key string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := "INSERT IGNORE INTO permissions (`key`, created_at) VALUES (?, ?)"

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

// NewMySQLPermissionRepository creates a new MySQL permission repository.
func NewMySQLPermissionRepository(db *sql.DB) *MySQLPermissionRepository {
	return &MySQLPermissionRepository{db: db}
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// MySQLAPIKeyRepository implements APIKey and grant persistence for MySQL.
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey and sets its generated ID.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	query := "INSERT INTO api_keys (`key`, memo, member_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"

	result, err := querier.ExecContext(
		ctx,
		query,
		apiKey.Key,
		apiKey.Memo,
		apiKey.MemberID,
		apiKey.CreatedAt,
		apiKey.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "api key already exists")
		}
		return apperrors.Wrap(err, "failed to create api key")
	}

	apiKey.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get api key id")
	}
	return nil
}

// GetByKey retrieves an APIKey with its member and granted permissions.
func (m *MySQLAPIKeyRepository) GetByKey(ctx context.Context, key string) (*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT k.id, k.`key`, k.memo, k.member_id, k.created_at, k.updated_at, " +
		"m.uuid, m.created_at, m.updated_at " +
		"FROM api_keys k JOIN members m ON m.id = k.member_id " +
		"WHERE k.`key` = ?"

	var apiKey authDomain.APIKey
	var member authDomain.Member
	var memberUUID []byte
	err := querier.QueryRowContext(ctx, query, key).Scan(
		&apiKey.ID,
		&apiKey.Key,
		&apiKey.Memo,
		&apiKey.MemberID,
		&apiKey.CreatedAt,
		&apiKey.UpdatedAt,
		&memberUUID,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}

	if err := member.UUID.UnmarshalBinary(memberUUID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal member uuid")
	}
	member.ID = apiKey.MemberID
	apiKey.Member = &member

	apiKey.Permissions, err = m.listGrants(ctx, apiKey.ID)
	if err != nil {
		return nil, err
	}

	return &apiKey, nil
}

// ListByMember returns the member's API keys, newest first, with their grants.
func (m *MySQLAPIKeyRepository) ListByMember(ctx context.Context, memberID int64) ([]*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT id, `key`, memo, member_id, created_at, updated_at FROM api_keys " +
		"WHERE member_id = ? ORDER BY id DESC"

	rows, err := querier.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}

	apiKeys, err := scanAPIKeys(rows)
	if err != nil {
		return nil, err
	}

	for _, apiKey := range apiKeys {
		apiKey.Permissions, err = m.listGrants(ctx, apiKey.ID)
		if err != nil {
			return nil, err
		}
	}

	return apiKeys, nil
}

// Delete removes the API key. Grants are removed by the foreign key cascade.
func (m *MySQLAPIKeyRepository) Delete(ctx context.Context, apiKeyID int64) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, apiKeyID); err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}
	return nil
}

// AddPermission grants a permission to the API key. Existing grants are left untouched.
func (m *MySQLAPIKeyRepository) AddPermission(ctx context.Context, apiKeyID, permissionID int64) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO api_key_permissions (api_key_id, permission_id) VALUES (?, ?)`

	if _, err := querier.ExecContext(ctx, query, apiKeyID, permissionID); err != nil {
		return apperrors.Wrap(err, "failed to add api key permission")
	}
	return nil
}

// RemovePermission revokes a permission from the API key.
func (m *MySQLAPIKeyRepository) RemovePermission(ctx context.Context, apiKeyID, permissionID int64) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM api_key_permissions WHERE api_key_id = ? AND permission_id = ?`

	if _, err := querier.ExecContext(ctx, query, apiKeyID, permissionID); err != nil {
		return apperrors.Wrap(err, "failed to remove api key permission")
	}
	return nil
}

func (m *MySQLAPIKeyRepository) listGrants(ctx context.Context, apiKeyID int64) ([]string, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT p.`key` FROM api_key_permissions g " +
		"JOIN permissions p ON p.id = g.permission_id " +
		"WHERE g.api_key_id = ? ORDER BY p.`key` ASC"

	rows, err := querier.QueryContext(ctx, query, apiKeyID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api key permissions")
	}
	return scanGrants(rows)
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}

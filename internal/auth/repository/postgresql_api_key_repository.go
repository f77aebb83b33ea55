package repository

import (
	"context"
	"database/sql"
	"errors"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// PostgreSQLAPIKeyRepository implements APIKey and grant persistence for PostgreSQL.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey and sets its generated ID.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (key, memo, member_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		apiKey.Key,
		apiKey.Memo,
		apiKey.MemberID,
		apiKey.CreatedAt,
		apiKey.UpdatedAt,
	).Scan(&apiKey.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "api key already exists")
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// GetByKey retrieves an APIKey with its member and granted permissions.
func (p *PostgreSQLAPIKeyRepository) GetByKey(ctx context.Context, key string) (*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT k.id, k.key, k.memo, k.member_id, k.created_at, k.updated_at,
					 m.uuid, m.created_at, m.updated_at
			  FROM api_keys k
			  JOIN members m ON m.id = k.member_id
			  WHERE k.key = $1`

	var apiKey authDomain.APIKey
	var member authDomain.Member
	err := querier.QueryRowContext(ctx, query, key).Scan(
		&apiKey.ID,
		&apiKey.Key,
		&apiKey.Memo,
		&apiKey.MemberID,
		&apiKey.CreatedAt,
		&apiKey.UpdatedAt,
		&member.UUID,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	member.ID = apiKey.MemberID
	apiKey.Member = &member

	apiKey.Permissions, err = p.listGrants(ctx, apiKey.ID)
	if err != nil {
		return nil, err
	}

	return &apiKey, nil
}

// ListByMember returns the member's API keys, newest first, with their grants.
func (p *PostgreSQLAPIKeyRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, key, memo, member_id, created_at, updated_at
			  FROM api_keys
			  WHERE member_id = $1
			  ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}

	apiKeys, err := scanAPIKeys(rows)
	if err != nil {
		return nil, err
	}

	for _, apiKey := range apiKeys {
		apiKey.Permissions, err = p.listGrants(ctx, apiKey.ID)
		if err != nil {
			return nil, err
		}
	}

	return apiKeys, nil
}

// Delete removes the API key. Grants are removed by the foreign key cascade.
func (p *PostgreSQLAPIKeyRepository) Delete(ctx context.Context, apiKeyID int64) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, apiKeyID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}
	return nil
}

// AddPermission grants a permission to the API key. Existing grants are left untouched.
func (p *PostgreSQLAPIKeyRepository) AddPermission(ctx context.Context, apiKeyID, permissionID int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_key_permissions (api_key_id, permission_id) VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`

	if _, err := querier.ExecContext(ctx, query, apiKeyID, permissionID); err != nil {
		return apperrors.Wrap(err, "failed to add api key permission")
	}
	return nil
}

// RemovePermission revokes a permission from the API key.
func (p *PostgreSQLAPIKeyRepository) RemovePermission(ctx context.Context, apiKeyID, permissionID int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM api_key_permissions WHERE api_key_id = $1 AND permission_id = $2`

	if _, err := querier.ExecContext(ctx, query, apiKeyID, permissionID); err != nil {
		return apperrors.Wrap(err, "failed to remove api key permission")
	}
	return nil
}

func (p *PostgreSQLAPIKeyRepository) listGrants(ctx context.Context, apiKeyID int64) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT p.key FROM api_key_permissions g
			  JOIN permissions p ON p.id = g.permission_id
			  WHERE g.api_key_id = $1
			  ORDER BY p.key ASC`

	rows, err := querier.QueryContext(ctx, query, apiKeyID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api key permissions")
	}
	return scanGrants(rows)
}

// scanAPIKeys reads and closes rows of api_keys columns.
func scanAPIKeys(rows *sql.Rows) ([]*authDomain.APIKey, error) {
	defer func() {
		_ = rows.Close()
	}()

	apiKeys := make([]*authDomain.APIKey, 0)
	for rows.Next() {
		var apiKey authDomain.APIKey
		if err := rows.Scan(
			&apiKey.ID,
			&apiKey.Key,
			&apiKey.Memo,
			&apiKey.MemberID,
			&apiKey.CreatedAt,
			&apiKey.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}
		apiKeys = append(apiKeys, &apiKey)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}

	return apiKeys, nil
}

// scanGrants reads and closes rows of permission strings.
func scanGrants(rows *sql.Rows) ([]string, error) {
	defer func() {
		_ = rows.Close()
	}()

	grants := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key permission")
		}
		grants = append(grants, key)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api key permissions")
	}

	return grants, nil
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}

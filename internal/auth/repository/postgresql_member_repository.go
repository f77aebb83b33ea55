// Package repository implements data persistence for members, API keys and permissions.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// PostgreSQLMemberRepository implements Member persistence for PostgreSQL.
type PostgreSQLMemberRepository struct {
	db *sql.DB
}

// Create inserts a new Member and sets its generated ID. A duplicate UUID yields ErrConflict.
func (p *PostgreSQLMemberRepository) Create(ctx context.Context, member *authDomain.Member) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO members (uuid, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`

	err := querier.QueryRowContext(ctx, query, member.UUID, member.CreatedAt, member.UpdatedAt).
		Scan(&member.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "member already exists")
		}
		return apperrors.Wrap(err, "failed to create member")
	}
	return nil
}

// GetByUUID retrieves a Member by its identity provider UUID.
func (p *PostgreSQLMemberRepository) GetByUUID(
	ctx context.Context,
	memberUUID uuid.UUID,
) (*authDomain.Member, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, uuid, created_at, updated_at FROM members WHERE uuid = $1`

	var member authDomain.Member
	err := querier.QueryRowContext(ctx, query, memberUUID).Scan(
		&member.ID,
		&member.UUID,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get member")
	}

	return &member, nil
}

// NewPostgreSQLMemberRepository creates a new PostgreSQL Member repository.
func NewPostgreSQLMemberRepository(db *sql.DB) *PostgreSQLMemberRepository {
	return &PostgreSQLMemberRepository{db: db}
}

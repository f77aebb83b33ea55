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

// MySQLMemberRepository implements Member persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLMemberRepository struct {
	db *sql.DB
}

// Create inserts a new Member and sets its generated ID. A duplicate UUID yields ErrConflict.
func (m *MySQLMemberRepository) Create(ctx context.Context, member *authDomain.Member) error {
	querier := database.GetTx(ctx, m.db)

	memberUUID, err := member.UUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal member uuid")
	}

	query := `INSERT INTO members (uuid, created_at, updated_at) VALUES (?, ?, ?)`

	result, err := querier.ExecContext(ctx, query, memberUUID, member.CreatedAt, member.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "member already exists")
		}
		return apperrors.Wrap(err, "failed to create member")
	}

	member.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get member id")
	}
	return nil
}

// GetByUUID retrieves a Member by its identity provider UUID.
func (m *MySQLMemberRepository) GetByUUID(ctx context.Context, memberUUID uuid.UUID) (*authDomain.Member, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := memberUUID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal member uuid")
	}

	query := `SELECT id, uuid, created_at, updated_at FROM members WHERE uuid = ?`

	var member authDomain.Member
	var uuidBytes []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&member.ID,
		&uuidBytes,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get member")
	}

	if err := member.UUID.UnmarshalBinary(uuidBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal member uuid")
	}

	return &member, nil
}

// NewMySQLMemberRepository creates a new MySQL Member repository.
func NewMySQLMemberRepository(db *sql.DB) *MySQLMemberRepository {
	return &MySQLMemberRepository{db: db}
}

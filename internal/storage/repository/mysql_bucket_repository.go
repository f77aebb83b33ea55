package repository

import (
	"context"
	"database/sql"

	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// MySQLBucketRepository implements Bucket persistence for MySQL.
type MySQLBucketRepository struct {
	db *sql.DB
}

// Create inserts a new Bucket and sets its generated ID.
func (m *MySQLBucketRepository) Create(ctx context.Context, bucket *storageDomain.Bucket) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO storage_buckets (name, is_public, member_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		bucket.Name,
		bucket.IsPublic,
		bucket.MemberID,
		bucket.CreatedAt,
		bucket.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return storageDomain.ErrDuplicatedBucket
		}
		return apperrors.Wrap(err, "failed to create storage bucket")
	}

	bucket.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get storage bucket id")
	}
	return nil
}

// GetByName retrieves a Bucket by name.
func (m *MySQLBucketRepository) GetByName(ctx context.Context, name string) (*storageDomain.Bucket, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + bucketColumns + ` FROM storage_buckets WHERE name = ?`
	return scanBucket(querier.QueryRowContext(ctx, query, name))
}

// ListByMember returns the member's buckets ordered by name.
func (m *MySQLBucketRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*storageDomain.Bucket, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + bucketColumns + ` FROM storage_buckets WHERE member_id = ? ORDER BY name ASC`

	rows, err := querier.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list storage buckets")
	}
	return scanBuckets(rows)
}

// Update persists the bucket visibility.
func (m *MySQLBucketRepository) Update(ctx context.Context, bucket *storageDomain.Bucket) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE storage_buckets SET is_public = ?, updated_at = ? WHERE id = ?`
	if _, err := querier.ExecContext(ctx, query, bucket.IsPublic, bucket.UpdatedAt, bucket.ID); err != nil {
		return apperrors.Wrap(err, "failed to update storage bucket")
	}
	return nil
}

// Delete removes a Bucket by ID.
func (m *MySQLBucketRepository) Delete(ctx context.Context, bucketID int64) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM storage_buckets WHERE id = ?`, bucketID); err != nil {
		return apperrors.Wrap(err, "failed to delete storage bucket")
	}
	return nil
}

// NewMySQLBucketRepository creates a new MySQL Bucket repository.
func NewMySQLBucketRepository(db *sql.DB) *MySQLBucketRepository {
	return &MySQLBucketRepository{db: db}
}

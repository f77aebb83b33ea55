// Package repository implements storage bucket persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

const bucketColumns = `id, name, is_public, member_id, created_at, updated_at`

// PostgreSQLBucketRepository implements Bucket persistence for PostgreSQL.
type PostgreSQLBucketRepository struct {
	db *sql.DB
}

// Create inserts a new Bucket and sets its generated ID.
func (p *PostgreSQLBucketRepository) Create(ctx context.Context, bucket *storageDomain.Bucket) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO storage_buckets (name, is_public, member_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		bucket.Name,
		bucket.IsPublic,
		bucket.MemberID,
		bucket.CreatedAt,
		bucket.UpdatedAt,
	).Scan(&bucket.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return storageDomain.ErrDuplicatedBucket
		}
		return apperrors.Wrap(err, "failed to create storage bucket")
	}
	return nil
}

// GetByName retrieves a Bucket by name.
func (p *PostgreSQLBucketRepository) GetByName(ctx context.Context, name string) (*storageDomain.Bucket, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + bucketColumns + ` FROM storage_buckets WHERE name = $1`
	return scanBucket(querier.QueryRowContext(ctx, query, name))
}

// ListByMember returns the member's buckets ordered by name.
func (p *PostgreSQLBucketRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*storageDomain.Bucket, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + bucketColumns + ` FROM storage_buckets WHERE member_id = $1 ORDER BY name ASC`

	rows, err := querier.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list storage buckets")
	}
	return scanBuckets(rows)
}

// Update persists the bucket visibility.
func (p *PostgreSQLBucketRepository) Update(ctx context.Context, bucket *storageDomain.Bucket) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE storage_buckets SET is_public = $1, updated_at = $2 WHERE id = $3`
	if _, err := querier.ExecContext(ctx, query, bucket.IsPublic, bucket.UpdatedAt, bucket.ID); err != nil {
		return apperrors.Wrap(err, "failed to update storage bucket")
	}
	return nil
}

// Delete removes a Bucket by ID.
func (p *PostgreSQLBucketRepository) Delete(ctx context.Context, bucketID int64) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM storage_buckets WHERE id = $1`, bucketID); err != nil {
		return apperrors.Wrap(err, "failed to delete storage bucket")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBucket(row rowScanner) (*storageDomain.Bucket, error) {
	var bucket storageDomain.Bucket
	if err := row.Scan(
		&bucket.ID,
		&bucket.Name,
		&bucket.IsPublic,
		&bucket.MemberID,
		&bucket.CreatedAt,
		&bucket.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storageDomain.ErrBucketNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get storage bucket")
	}
	return &bucket, nil
}

func scanBuckets(rows *sql.Rows) ([]*storageDomain.Bucket, error) {
	defer func() {
		_ = rows.Close()
	}()

	buckets := make([]*storageDomain.Bucket, 0)
	for rows.Next() {
		bucket, err := scanBucket(rows)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate storage buckets")
	}
	return buckets, nil
}

// NewPostgreSQLBucketRepository creates a new PostgreSQL Bucket repository.
func NewPostgreSQLBucketRepository(db *sql.DB) *PostgreSQLBucketRepository {
	return &PostgreSQLBucketRepository{db: db}
}

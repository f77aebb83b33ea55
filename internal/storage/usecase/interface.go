// Package usecase implements storage bucket management and object access.
package usecase

import (
	"context"

	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// BucketRepository defines persistence operations for storage buckets.
type BucketRepository interface {
	// Create stores a new bucket and sets its ID. A taken name yields ErrDuplicatedBucket.
	Create(ctx context.Context, bucket *storageDomain.Bucket) error

	// GetByName retrieves a bucket. Returns ErrBucketNotFound if not found.
	GetByName(ctx context.Context, name string) (*storageDomain.Bucket, error)

	// ListByMember returns the member's buckets ordered by name.
	ListByMember(ctx context.Context, memberID int64) ([]*storageDomain.Bucket, error)

	// Update persists is_public and updated_at.
	Update(ctx context.Context, bucket *storageDomain.Bucket) error

	// Delete removes the bucket row. Stored objects are left in the object store.
	Delete(ctx context.Context, bucketID int64) error
}

// BucketUseCase manages a member's storage buckets.
type BucketUseCase interface {
	// List returns the member's buckets.
	List(ctx context.Context, memberID int64) ([]*storageDomain.Bucket, error)

	// Create registers a new bucket for the member.
	Create(ctx context.Context, memberID int64, name string, isPublic bool) (*storageDomain.Bucket, error)

	// Update changes the bucket visibility.
	Update(ctx context.Context, memberID int64, name string, isPublic bool) (*storageDomain.Bucket, error)

	// Delete removes one of the member's buckets.
	Delete(ctx context.Context, memberID int64, name string) error

	// GetOwned returns the bucket when it belongs to the member. Buckets of another member
	// yield ErrBucketNotOwned.
	GetOwned(ctx context.Context, memberID int64, name string) (*storageDomain.Bucket, error)
}

// PutObjectInput holds an object upload.
type PutObjectInput struct {
	MemberID    int64
	BucketName  string
	Key         string
	ContentType string
	Body        []byte
}

// ObjectUseCase reads and writes bucket objects.
type ObjectUseCase interface {
	// Get returns an object. readerID is nil for anonymous readers, who can only read public
	// buckets.
	Get(ctx context.Context, readerID *int64, bucketName, key string) (*storageDomain.Object, error)

	// Put stores an object in one of the member's buckets.
	Put(ctx context.Context, input PutObjectInput) (*storageDomain.Object, error)
}

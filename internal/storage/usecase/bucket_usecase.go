package usecase

import (
	"context"
	"log/slog"
	"time"

	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// bucketUseCase implements BucketUseCase.
type bucketUseCase struct {
	bucketRepo BucketRepository
	logger     *slog.Logger
}

// List returns the member's buckets.
func (b *bucketUseCase) List(ctx context.Context, memberID int64) ([]*storageDomain.Bucket, error) {
	return b.bucketRepo.ListByMember(ctx, memberID)
}

// Create registers a bucket. Names are global across members.
func (b *bucketUseCase) Create(
	ctx context.Context,
	memberID int64,
	name string,
	isPublic bool,
) (*storageDomain.Bucket, error) {
	now := time.Now().UTC()
	bucket := &storageDomain.Bucket{
		Name:      name,
		IsPublic:  isPublic,
		MemberID:  memberID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := b.bucketRepo.Create(ctx, bucket); err != nil {
		return nil, err
	}

	b.logger.Info("storage bucket created", slog.String("bucket", bucket.Name), slog.Bool("public", isPublic))
	return bucket, nil
}

// Update changes the bucket visibility.
func (b *bucketUseCase) Update(
	ctx context.Context,
	memberID int64,
	name string,
	isPublic bool,
) (*storageDomain.Bucket, error) {
	bucket, err := b.GetOwned(ctx, memberID, name)
	if err != nil {
		return nil, err
	}

	bucket.IsPublic = isPublic
	bucket.UpdatedAt = time.Now().UTC()
	if err := b.bucketRepo.Update(ctx, bucket); err != nil {
		return nil, err
	}
	return bucket, nil
}

// Delete removes the bucket row.
func (b *bucketUseCase) Delete(ctx context.Context, memberID int64, name string) error {
	bucket, err := b.GetOwned(ctx, memberID, name)
	if err != nil {
		return err
	}
	if err := b.bucketRepo.Delete(ctx, bucket.ID); err != nil {
		return err
	}

	b.logger.Info("storage bucket deleted", slog.String("bucket", bucket.Name))
	return nil
}

// GetOwned returns the bucket when the member owns it.
func (b *bucketUseCase) GetOwned(ctx context.Context, memberID int64, name string) (*storageDomain.Bucket, error) {
	bucket, err := b.bucketRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !bucket.OwnedBy(memberID) {
		return nil, storageDomain.ErrBucketNotOwned
	}
	return bucket, nil
}

// NewBucketUseCase creates a new BucketUseCase.
func NewBucketUseCase(bucketRepo BucketRepository, logger *slog.Logger) BucketUseCase {
	return &bucketUseCase{bucketRepo: bucketRepo, logger: logger}
}

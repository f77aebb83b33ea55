package usecase

import (
	"context"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"

	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
	storageService "github.com/lynlab/luppiter/internal/storage/service"
)

// objectUseCase implements ObjectUseCase.
type objectUseCase struct {
	bucketRepo     BucketRepository
	objectStore    storageService.ObjectStore
	maxUploadBytes int
	logger         *slog.Logger
}

// Get returns the object when the reader may read the bucket. Unreadable private buckets
// answer like missing ones.
func (o *objectUseCase) Get(
	ctx context.Context,
	readerID *int64,
	bucketName, key string,
) (*storageDomain.Object, error) {
	if err := storageDomain.ValidateObjectKey(key); err != nil {
		return nil, err
	}

	bucket, err := o.bucketRepo.GetByName(ctx, bucketName)
	if err != nil {
		return nil, err
	}
	if !bucket.ReadableBy(readerID) {
		return nil, storageDomain.ErrBucketNotFound
	}

	return o.objectStore.Get(ctx, bucket.ObjectPath(key))
}

// Put stores the object. A missing content type is sniffed from the body.
func (o *objectUseCase) Put(ctx context.Context, input PutObjectInput) (*storageDomain.Object, error) {
	if err := storageDomain.ValidateObjectKey(input.Key); err != nil {
		return nil, err
	}
	if len(input.Body) > o.maxUploadBytes {
		return nil, storageDomain.ErrObjectTooLarge
	}

	bucket, err := o.bucketRepo.GetByName(ctx, input.BucketName)
	if err != nil {
		return nil, err
	}
	if !bucket.OwnedBy(input.MemberID) {
		return nil, storageDomain.ErrBucketNotOwned
	}

	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(input.Body).String()
	}

	object := &storageDomain.Object{
		Key:         bucket.ObjectPath(input.Key),
		ContentType: contentType,
		Body:        input.Body,
	}
	if err := o.objectStore.Put(ctx, object); err != nil {
		return nil, err
	}

	o.logger.Info("storage object stored",
		slog.String("path", object.Key),
		slog.Int("size", len(object.Body)))
	return object, nil
}

// NewObjectUseCase creates a new ObjectUseCase. Uploads above maxUploadBytes are rejected.
func NewObjectUseCase(
	bucketRepo BucketRepository,
	objectStore storageService.ObjectStore,
	maxUploadBytes int,
	logger *slog.Logger,
) ObjectUseCase {
	return &objectUseCase{
		bucketRepo:     bucketRepo,
		objectStore:    objectStore,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

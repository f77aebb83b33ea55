package service

import (
	"context"
	"log/slog"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/lynlab/luppiter/internal/errors"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// CachedObjectStore keeps a local disk copy of objects read from or written to the wrapped
// store. Cache failures are logged and never fail a request.
type CachedObjectStore struct {
	next   ObjectStore
	cache  *blob.Bucket
	logger *slog.Logger
}

// Get serves the object from the cache, falling back to the wrapped store.
func (c *CachedObjectStore) Get(ctx context.Context, path string) (*storageDomain.Object, error) {
	object, err := c.read(ctx, path)
	if err == nil {
		return object, nil
	}
	if gcerrors.Code(err) != gcerrors.NotFound {
		c.logger.Warn("object cache read failed", slog.String("path", path), slog.Any("error", err))
	}

	object, err = c.next.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	c.store(ctx, object)
	return object, nil
}

// Put writes through to the wrapped store and refreshes the cache.
func (c *CachedObjectStore) Put(ctx context.Context, object *storageDomain.Object) error {
	if err := c.next.Put(ctx, object); err != nil {
		return err
	}
	c.store(ctx, object)
	return nil
}

func (c *CachedObjectStore) read(ctx context.Context, path string) (*storageDomain.Object, error) {
	attrs, err := c.cache.Attributes(ctx, path)
	if err != nil {
		return nil, err
	}
	body, err := c.cache.ReadAll(ctx, path)
	if err != nil {
		return nil, err
	}
	return &storageDomain.Object{Key: path, ContentType: attrs.ContentType, Body: body}, nil
}

func (c *CachedObjectStore) store(ctx context.Context, object *storageDomain.Object) {
	err := c.cache.WriteAll(ctx, object.Key, object.Body, &blob.WriterOptions{ContentType: object.ContentType})
	if err != nil {
		c.logger.Warn("object cache write failed", slog.String("path", object.Key), slog.Any("error", err))
	}
}

// Close releases the cache bucket.
func (c *CachedObjectStore) Close() error {
	return c.cache.Close()
}

// NewCachedObjectStore wraps next with a disk cache rooted at dir. The directory is created
// when missing.
func NewCachedObjectStore(next ObjectStore, dir string, logger *slog.Logger) (*CachedObjectStore, error) {
	cache, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open object cache")
	}
	return &CachedObjectStore{next: next, cache: cache, logger: logger}, nil
}

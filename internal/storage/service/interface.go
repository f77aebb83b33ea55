// Package service provides the object stores backing storage buckets.
package service

import (
	"context"

	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// ObjectStore persists object bodies under a path of the form "{bucket}/{key}".
type ObjectStore interface {
	// Get returns the object stored at path. Returns ErrObjectNotFound if absent.
	Get(ctx context.Context, path string) (*storageDomain.Object, error)

	// Put stores the object at object.Key, replacing any previous body.
	Put(ctx context.Context, object *storageDomain.Object) error
}

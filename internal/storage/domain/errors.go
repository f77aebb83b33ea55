package domain

import (
	"github.com/lynlab/luppiter/internal/errors"
)

// Storage errors.
var (
	// ErrBucketNotFound indicates no bucket exists with the name.
	ErrBucketNotFound = errors.Wrap(errors.ErrNotFound, "bucket not found")

	// ErrBucketNotOwned indicates the bucket belongs to another member.
	ErrBucketNotOwned = errors.Wrap(errors.ErrUnauthorized, "bucket belongs to another member")

	// ErrDuplicatedBucket indicates the bucket name is taken.
	ErrDuplicatedBucket = errors.Wrap(errors.ErrConflict, "duplicated_entry")

	// ErrObjectNotFound indicates the object does not exist in the bucket.
	ErrObjectNotFound = errors.Wrap(errors.ErrNotFound, "object not found")

	// ErrObjectTooLarge indicates an upload above the configured limit.
	ErrObjectTooLarge = errors.Wrap(errors.ErrInvalidInput, "object exceeds the upload limit")

	// ErrInvalidObjectKey indicates an empty or path traversing object key.
	ErrInvalidObjectKey = errors.Wrap(errors.ErrInvalidInput, "invalid object key")
)

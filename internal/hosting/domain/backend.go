package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// BackendType discriminates the Backend variants.
type BackendType string

// Backend types.
const (
	BackendTypeStorage BackendType = "storage"
)

// StorageBackend serves files of a storage bucket. Field keys are kept short in the
// persisted properties.
type StorageBackend struct {
	BucketName      string `msgpack:"b"`
	FilePrefix      string `msgpack:"p"`
	RedirectToIndex bool   `msgpack:"i"`
}

// Backend is what an instance serves. Exactly the variant named by Type is set.
type Backend struct {
	ID         int64
	UUID       uuid.UUID
	InstanceID int64
	Type       BackendType
	Storage    *StorageBackend
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks that Type is known and its variant is present.
func (b *Backend) Validate() error {
	switch b.Type {
	case BackendTypeStorage:
		if b.Storage == nil || b.Storage.BucketName == "" {
			return ErrInvalidBackend
		}
		return nil
	default:
		return ErrInvalidBackend
	}
}

// MarshalProperties encodes the active variant as msgpack.
func (b *Backend) MarshalProperties() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	data, err := msgpack.Marshal(b.Storage)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode backend properties")
	}
	return data, nil
}

// UnmarshalProperties decodes msgpack properties into the variant named by Type.
func (b *Backend) UnmarshalProperties(data []byte) error {
	switch b.Type {
	case BackendTypeStorage:
		var storage StorageBackend
		if err := msgpack.Unmarshal(data, &storage); err != nil {
			return apperrors.Wrap(err, "failed to decode backend properties")
		}
		b.Storage = &storage
		return nil
	default:
		return ErrInvalidBackend
	}
}

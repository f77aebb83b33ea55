// Package domain defines storage buckets and the objects stored in them.
package domain

import (
	"strings"
	"time"
)

// Bucket is a member-owned namespace of objects. Public buckets can be read anonymously.
type Bucket struct {
	ID        int64
	Name      string
	IsPublic  bool
	MemberID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the bucket belongs to the member.
func (b *Bucket) OwnedBy(memberID int64) bool {
	return b != nil && b.MemberID == memberID
}

// ReadableBy reports whether a reader may fetch objects. memberID is nil for anonymous readers.
func (b *Bucket) ReadableBy(memberID *int64) bool {
	if b == nil {
		return false
	}
	return b.IsPublic || (memberID != nil && b.OwnedBy(*memberID))
}

// ObjectPath is the object store path of key inside the bucket.
func (b *Bucket) ObjectPath(key string) string {
	return b.Name + "/" + strings.TrimPrefix(key, "/")
}

// ValidateObjectKey rejects empty keys and keys escaping the bucket.
func ValidateObjectKey(key string) error {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		return ErrInvalidObjectKey
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return ErrInvalidObjectKey
		}
	}
	return nil
}

// Object is a stored file.
type Object struct {
	Key         string
	ContentType string
	Body        []byte
}

package domain

import (
	"slices"
	"time"
)

// APIKey is an opaque bearer credential owned by one member and holding a set of granted
// permissions.
type APIKey struct {
	ID          int64
	Key         string
	Memo        string
	MemberID    int64
	Member      *Member
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPermission reports whether the key's grants satisfy requested.
func (k *APIKey) HasPermission(requested string) bool {
	if k == nil {
		return false
	}
	return HasPermission(k.Permissions, requested)
}

// HasGrant reports whether permission is literally present in the grant set.
func (k *APIKey) HasGrant(permission string) bool {
	return slices.Contains(k.Permissions, permission)
}

// OwnedBy reports whether the key belongs to the member.
func (k *APIKey) OwnedBy(memberID int64) bool {
	return k.MemberID == memberID
}

// Package domain defines hosting instances and their backends.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainKeyByteLength is the number of random bytes of a domain key (hex encoded).
const DomainKeyByteLength = 10

// Instance serves a member's site under a generated hosting domain.
type Instance struct {
	ID              int64
	UUID            uuid.UUID
	Name            string
	Domain          string
	DomainKey       string
	MemberID        int64
	CertificateID   int64
	CertificateUUID uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CNAMEName is the generated name pointing at the hosting frontends.
func (i *Instance) CNAMEName(hostingDomain string) string {
	return i.DomainKey + "." + hostingDomain
}

// OwnedBy reports whether the instance belongs to the member.
func (i *Instance) OwnedBy(memberID int64) bool {
	return i != nil && i.MemberID == memberID
}

// Package domain defines the certificate issuance entities and their state machine.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// State is the lifecycle state of a certificate issuance.
type State string

// Certificate states.
const (
	StateSubmitted     State = "submitted"
	StateInitializing  State = "initializing"
	StateVerifying     State = "verifying"
	StateIssued        State = "issued"
	StateFailed        State = "failed"
	StateAlmostExpired State = "almost_expired"
	StateExpired       State = "expired"
)

// stateRank orders states along the issuance path. failed shares the rank of issued: it can
// be entered from any state before issued and is only left by a delivered certificate.
var stateRank = map[State]int{
	StateSubmitted:     0,
	StateInitializing:  1,
	StateVerifying:     2,
	StateIssued:        3,
	StateFailed:        3,
	StateAlmostExpired: 4,
	StateExpired:       5,
}

// IsValid reports whether s is a known state.
func (s State) IsValid() bool {
	_, ok := stateRank[s]
	return ok
}

// DNSTokenByteLength is the entropy of a certificate DNS token (40 hex characters).
const DNSTokenByteLength = 20

// Certificate is one issuance workflow for a set of domains.
type Certificate struct {
	ID        int64
	UUID      uuid.UUID
	State     State
	MemberID  int64
	Email     string
	Domains   []string
	DNSToken  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Provisions is only populated by repository calls that load them.
	Provisions []*Provision
}

// BelongsTo reports whether the certificate is owned by the member.
func (c *Certificate) BelongsTo(memberID int64) bool {
	return c != nil && c.MemberID == memberID
}

// CanTransitionTo reports whether moving to next is allowed. The issuance path only moves
// forward. An issued, almost expired or expired certificate may restart at initializing for a
// renewal, and a renewed certificate returns to issued. Re-entering the current state is
// allowed so worker retries stay harmless.
func (c *Certificate) CanTransitionTo(next State) bool {
	if !next.IsValid() {
		return false
	}
	if c.State == next {
		return true
	}

	switch c.State {
	case StateSubmitted, StateInitializing, StateVerifying:
		return stateRank[next] > stateRank[c.State] && stateRank[next] <= stateRank[StateIssued]
	case StateIssued, StateAlmostExpired, StateExpired:
		if next == StateInitializing || next == StateIssued {
			return true
		}
		return next != StateFailed && stateRank[next] > stateRank[c.State]
	default:
		return false
	}
}

// TransitionTo moves the certificate to next, rejecting moves the state machine does not allow.
func (c *Certificate) TransitionTo(next State, now time.Time) error {
	if !c.CanTransitionTo(next) {
		return apperrors.Wrap(ErrInvalidTransition, fmt.Sprintf("%s -> %s", c.State, next))
	}
	c.State = next
	c.UpdatedAt = now
	return nil
}

// MarkIssued moves the certificate to issued from any state. A delivered certificate is
// always the current one.
func (c *Certificate) MarkIssued(now time.Time) {
	c.State = StateIssued
	c.UpdatedAt = now
}

// LastRevision returns the highest loaded provision revision, 0 when there is none.
func (c *Certificate) LastRevision() int {
	last := 0
	for _, p := range c.Provisions {
		if p.Revision > last {
			last = p.Revision
		}
	}
	return last
}

// CurrentProvision returns the provision with the highest revision, nil when there is none.
func (c *Certificate) CurrentProvision() *Provision {
	var current *Provision
	for _, p := range c.Provisions {
		if current == nil || p.Revision > current.Revision {
			current = p
		}
	}
	return current
}

// ChallengeRecordName is the DNS name holding the certificate's TXT challenges.
func (c *Certificate) ChallengeRecordName(hostingDomain string) string {
	return c.DNSToken + "." + hostingDomain
}

// Covers reports whether name is one of the certificate domains or matches one of its
// single-label wildcards ("*.example.com" covers "a.example.com" but not "a.b.example.com").
func (c *Certificate) Covers(name string) bool {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	for _, d := range c.Domains {
		d = strings.ToLower(d)
		if d == name {
			return true
		}
		if suffix, ok := strings.CutPrefix(d, "*."); ok {
			label, rest, found := strings.Cut(name, ".")
			if found && label != "" && rest == suffix {
				return true
			}
		}
	}
	return false
}

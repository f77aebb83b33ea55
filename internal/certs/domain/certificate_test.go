package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lynlab/luppiter/internal/errors"
)

func TestCertificate_TransitionTo(t *testing.T) {
	tests := []struct {
		from    State
		to      State
		allowed bool
	}{
		{StateSubmitted, StateInitializing, true},
		{StateInitializing, StateVerifying, true},
		{StateVerifying, StateIssued, true},
		{StateSubmitted, StateVerifying, true},
		{StateInitializing, StateInitializing, true},
		{StateIssued, StateIssued, true},
		{StateVerifying, StateInitializing, false},
		{StateIssued, StateSubmitted, false},
		{StateIssued, StateVerifying, false},
		{StateSubmitted, StateFailed, true},
		{StateVerifying, StateFailed, true},
		{StateIssued, StateFailed, false},
		{StateFailed, StateSubmitted, false},
		{StateFailed, StateIssued, false},
		{StateIssued, StateAlmostExpired, true},
		{StateIssued, StateExpired, true},
		{StateAlmostExpired, StateExpired, true},
		{StateAlmostExpired, StateIssued, true},
		{StateExpired, StateIssued, true},
		{StateIssued, StateInitializing, true},
		{StateAlmostExpired, StateInitializing, true},
		{StateExpired, StateInitializing, true},
		{StateExpired, StateAlmostExpired, false},
		{StateAlmostExpired, StateFailed, false},
		{StateFailed, StateInitializing, false},
		{StateVerifying, StateAlmostExpired, false},
		{StateSubmitted, State("revoked"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			cert := &Certificate{State: tt.from}
			now := time.Now().UTC()

			err := cert.TransitionTo(tt.to, now)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, cert.State)
				assert.Equal(t, now, cert.UpdatedAt)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
			assert.Equal(t, tt.from, cert.State)
		})
	}
}

func TestCertificate_MarkIssued(t *testing.T) {
	now := time.Now().UTC()
	for _, from := range []State{StateSubmitted, StateVerifying, StateFailed, StateAlmostExpired, StateExpired} {
		cert := &Certificate{State: from}
		cert.MarkIssued(now)
		assert.Equal(t, StateIssued, cert.State, from)
		assert.Equal(t, now, cert.UpdatedAt)
	}
}

func TestCertificate_LastRevision(t *testing.T) {
	cert := &Certificate{}
	assert.Equal(t, 0, cert.LastRevision())
	assert.Nil(t, cert.CurrentProvision())

	cert.Provisions = []*Provision{{Revision: 2}, {Revision: 3}, {Revision: 1}}
	assert.Equal(t, 3, cert.LastRevision())
	assert.Equal(t, 3, cert.CurrentProvision().Revision)
}

func TestCertificate_BelongsTo(t *testing.T) {
	cert := &Certificate{MemberID: 5}
	assert.True(t, cert.BelongsTo(5))
	assert.False(t, cert.BelongsTo(6))

	var missing *Certificate
	assert.False(t, missing.BelongsTo(5))
}

func TestCertificate_ChallengeRecordName(t *testing.T) {
	cert := &Certificate{DNSToken: "abcd"}
	assert.Equal(t, "abcd.luppiter.dev", cert.ChallengeRecordName("luppiter.dev"))
}

func TestProvision_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	window := 14 * 24 * time.Hour

	fresh := &Provision{ExpireAt: now.Add(60 * 24 * time.Hour)}
	assert.False(t, fresh.IsExpired(now))
	assert.False(t, fresh.ExpiresWithin(now, window))

	soon := &Provision{ExpireAt: now.Add(3 * 24 * time.Hour)}
	assert.False(t, soon.IsExpired(now))
	assert.True(t, soon.ExpiresWithin(now, window))

	past := &Provision{ExpireAt: now}
	assert.True(t, past.IsExpired(now))
}

func TestState_IsValid(t *testing.T) {
	for _, s := range []State{
		StateSubmitted, StateInitializing, StateVerifying, StateIssued,
		StateFailed, StateAlmostExpired, StateExpired,
	} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, State("").IsValid())
}

func TestCertificate_Covers(t *testing.T) {
	cert := &Certificate{Domains: []string{"example.com", "*.apps.example.com"}}

	tests := []struct {
		name string
		want bool
	}{
		{"example.com", true},
		{"EXAMPLE.com.", true},
		{"www.example.com", false},
		{"a.apps.example.com", true},
		{"a.b.apps.example.com", false},
		{"apps.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cert.Covers(tt.name))
		})
	}
}

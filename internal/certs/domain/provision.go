package domain

import "time"

// Provision is one issued artifact of a certificate. Provisions are immutable and versioned
// by a revision that is unique per certificate.
type Provision struct {
	ID            int64
	CertificateID int64
	Revision      int
	CSR           []byte
	Certificate   []byte
	PrivateKey    []byte
	ExpireAt      time.Time
	CreatedAt     time.Time
}

// IsExpired reports whether the provision is no longer valid at now.
func (p *Provision) IsExpired(now time.Time) bool {
	return !p.ExpireAt.After(now)
}

// ExpiresWithin reports whether the provision expires before now+window.
func (p *Provision) ExpiresWithin(now time.Time, window time.Duration) bool {
	return !p.ExpireAt.After(now.Add(window))
}

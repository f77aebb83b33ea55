// Package usecase implements certificate management, the issuance worker triggers and the
// expiry sweep.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
)

// CertificateRepository defines persistence operations for certificates.
type CertificateRepository interface {
	// Create stores a new certificate and sets its ID.
	Create(ctx context.Context, cert *certsDomain.Certificate) error

	// GetByUUID retrieves a certificate. Returns ErrCertificateNotFound if not found.
	GetByUUID(ctx context.Context, certificateUUID uuid.UUID) (*certsDomain.Certificate, error)

	// GetByUUIDForUpdate retrieves a certificate and locks its row until the surrounding
	// transaction ends. Must run inside TxManager.WithTx.
	GetByUUIDForUpdate(ctx context.Context, certificateUUID uuid.UUID) (*certsDomain.Certificate, error)

	// ListByMember returns the member's certificates, newest first.
	ListByMember(ctx context.Context, memberID int64) ([]*certsDomain.Certificate, error)

	// ListByStates returns every certificate in one of states, oldest first.
	ListByStates(ctx context.Context, states []certsDomain.State) ([]*certsDomain.Certificate, error)

	// UpdateState persists the certificate's state and updated_at.
	UpdateState(ctx context.Context, cert *certsDomain.Certificate) error
}

// ProvisionRepository defines persistence operations for certificate provisions.
type ProvisionRepository interface {
	// Create stores a new provision and sets its ID. A taken revision yields ErrProvisionConflict.
	Create(ctx context.Context, provision *certsDomain.Provision) error

	// LastRevision returns the highest revision of the certificate, 0 when it has none.
	LastRevision(ctx context.Context, certificateID int64) (int, error)

	// GetCurrent returns the highest revision. Returns ErrProvisionNotFound when there is none.
	GetCurrent(ctx context.Context, certificateID int64) (*certsDomain.Provision, error)

	// CurrentExpireAt returns the expiry of the highest revision. Returns ErrProvisionNotFound
	// when there is none.
	CurrentExpireAt(ctx context.Context, certificateID int64) (time.Time, error)
}

// CreateCertificateInput holds the parameters of a certificate request.
type CreateCertificateInput struct {
	MemberID int64
	Email    string
	Domains  []string
}

// CertificateUseCase manages member certificates.
type CertificateUseCase interface {
	// Create stores a submitted certificate with a fresh UUID and DNS token and launches an
	// issuance worker in the background.
	Create(ctx context.Context, input CreateCertificateInput) (*certsDomain.Certificate, error)

	// List returns the member's certificates.
	List(ctx context.Context, memberID int64) ([]*certsDomain.Certificate, error)

	// Get returns one of the member's certificates. Certificates that are missing or owned by
	// another member yield ErrCertificateNotOwned.
	Get(ctx context.Context, memberID int64, certificateUUID uuid.UUID) (*certsDomain.Certificate, error)

	// CurrentProvision returns the newest provision of one of the member's certificates with its
	// private key opened. Returns ErrProvisionNotFound before the first issuance.
	CurrentProvision(ctx context.Context, memberID int64, certificateUUID uuid.UUID) (*certsDomain.Provision, error)

	// FindByUUID returns a certificate regardless of owner. Returns ErrCertificateNotFound.
	FindByUUID(ctx context.Context, certificateUUID uuid.UUID) (*certsDomain.Certificate, error)

	// Wait blocks until every background worker launch has finished. Called on shutdown.
	Wait()
}

// VerifiedInput carries the artifacts delivered by the worker after validation.
type VerifiedInput struct {
	CSR         []byte
	PrivateKey  []byte
	Certificate []byte
}

// IssuanceUseCase implements the triggers called by the issuance worker.
type IssuanceUseCase interface {
	// RegisterClient moves the certificate to initializing and returns its contact email.
	RegisterClient(ctx context.Context, certificateUUID uuid.UUID) (string, error)

	// FetchDomains moves the certificate to verifying and returns its domains and DNS token.
	FetchDomains(ctx context.Context, certificateUUID uuid.UUID) ([]string, string, error)

	// RegisterChallenges concurrently creates one TXT record per content under the
	// certificate's challenge name.
	RegisterChallenges(ctx context.Context, certificateUUID uuid.UUID, contents []string) error

	// VerifiedCallback marks the certificate issued, stores a new provision and removes the
	// challenge records.
	VerifiedCallback(ctx context.Context, certificateUUID uuid.UUID, input VerifiedInput) (*certsDomain.Provision, error)
}

// SweepChange is one state change decided by the expiry sweep.
type SweepChange struct {
	UUID     uuid.UUID         `json:"uuid"`
	From     certsDomain.State `json:"from"`
	To       certsDomain.State `json:"to"`
	ExpireAt time.Time         `json:"expireAt"`
}

// SweepResult summarizes an expiry sweep.
type SweepResult struct {
	Checked int           `json:"checked"`
	Changes []SweepChange `json:"changes"`
	DryRun  bool          `json:"dryRun"`
}

// ExpiryUseCase moves issued certificates to almost_expired and expired. A renewal delivered
// through VerifiedCallback brings them back to issued.
type ExpiryUseCase interface {
	// Sweep inspects issued and almost expired certificates. A certificate whose current
	// provision expires within window becomes almost_expired, one already past expiry becomes
	// expired. With dryRun nothing is persisted.
	Sweep(ctx context.Context, window time.Duration, dryRun bool) (*SweepResult, error)
}

// Package usecase implements hosting instance management and backend configuration.
package usecase

import (
	"context"

	"github.com/google/uuid"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// InstanceRepository defines persistence operations for hosting instances.
type InstanceRepository interface {
	// Create stores a new instance and sets its ID. A taken name yields ErrDuplicatedInstance.
	Create(ctx context.Context, instance *hostingDomain.Instance) error

	// GetByUUID retrieves an instance with its certificate UUID. Returns ErrInstanceNotFound.
	GetByUUID(ctx context.Context, instanceUUID uuid.UUID) (*hostingDomain.Instance, error)

	// ListByMember returns the member's instances, newest first.
	ListByMember(ctx context.Context, memberID int64) ([]*hostingDomain.Instance, error)

	// Delete removes the instance. Its backend is removed by cascade.
	Delete(ctx context.Context, instanceID int64) error
}

// BackendRepository defines persistence operations for hosting backends.
type BackendRepository interface {
	// GetByInstance retrieves the backend of an instance. Returns ErrBackendNotFound.
	GetByInstance(ctx context.Context, instanceID int64) (*hostingDomain.Backend, error)

	// Upsert stores the backend, replacing the instance's current one, and sets its ID.
	Upsert(ctx context.Context, backend *hostingDomain.Backend) error
}

// CertificateFinder resolves certificates regardless of owner.
type CertificateFinder interface {
	FindByUUID(ctx context.Context, certificateUUID uuid.UUID) (*certsDomain.Certificate, error)
}

// BucketFinder resolves storage buckets owned by a member.
type BucketFinder interface {
	GetOwned(ctx context.Context, memberID int64, name string) (*storageDomain.Bucket, error)
}

// CreateInstanceInput holds the parameters of a new hosting instance.
type CreateInstanceInput struct {
	MemberID        int64
	Name            string
	CertificateUUID uuid.UUID
	// Domain is the custom domain served by the instance. It must be covered by the
	// certificate. Empty serves the generated CNAME name.
	Domain string
}

// InstanceUseCase manages hosting instances and their backends.
type InstanceUseCase interface {
	// List returns the member's instances.
	List(ctx context.Context, memberID int64) ([]*hostingDomain.Instance, error)

	// Create binds a new instance to one of the member's certificates and registers its CNAME
	// record.
	Create(ctx context.Context, input CreateInstanceInput) (*hostingDomain.Instance, error)

	// Delete removes the instance DNS records, the instance and its backend. Instances that are
	// missing or owned by another member yield ErrInstanceNotOwned.
	Delete(ctx context.Context, memberID int64, instanceUUID uuid.UUID) error

	// GetBackend returns the backend of one of the member's instances.
	GetBackend(ctx context.Context, memberID int64, instanceUUID uuid.UUID) (*hostingDomain.Backend, error)

	// PutBackend validates and stores the backend of one of the member's instances.
	PutBackend(
		ctx context.Context,
		memberID int64,
		instanceUUID uuid.UUID,
		backend *hostingDomain.Backend,
	) (*hostingDomain.Backend, error)
}

package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authService "github.com/lynlab/luppiter/internal/auth/service"
	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/database"
	"github.com/lynlab/luppiter/internal/dns"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// InstanceConfig holds the DNS settings of hosting instances.
type InstanceConfig struct {
	// DNSZone is the provider zone holding the instance CNAME records.
	DNSZone string
	// HostingDomain is the parent domain of the generated CNAME names.
	HostingDomain string
	// CNAMETarget is the frontend every generated name points at.
	CNAMETarget string
}

// instanceUseCase implements InstanceUseCase.
type instanceUseCase struct {
	txManager    database.TxManager
	instanceRepo InstanceRepository
	backendRepo  BackendRepository
	certificates CertificateFinder
	buckets      BucketFinder
	dnsProvider  dns.Provider
	tokenService authService.TokenService
	config       InstanceConfig
	logger       *slog.Logger
}

// List returns the member's instances.
func (i *instanceUseCase) List(ctx context.Context, memberID int64) ([]*hostingDomain.Instance, error) {
	return i.instanceRepo.ListByMember(ctx, memberID)
}

// Create persists the instance and its CNAME record in one transaction. A DNS failure rolls
// the insert back.
func (i *instanceUseCase) Create(
	ctx context.Context,
	input CreateInstanceInput,
) (*hostingDomain.Instance, error) {
	cert, err := i.certificates.FindByUUID(ctx, input.CertificateUUID)
	if err != nil {
		if apperrors.Is(err, certsDomain.ErrCertificateNotFound) {
			return nil, hostingDomain.ErrInvalidCertificate
		}
		return nil, err
	}
	if !cert.BelongsTo(input.MemberID) {
		return nil, hostingDomain.ErrInvalidCertificate
	}

	domainName := strings.ToLower(strings.TrimSuffix(input.Domain, "."))
	if domainName != "" && !cert.Covers(domainName) {
		return nil, hostingDomain.ErrInvalidCertificate
	}

	domainKey, err := i.tokenService.GenerateToken(hostingDomain.DomainKeyByteLength)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	instance := &hostingDomain.Instance{
		UUID:            uuid.New(),
		Name:            input.Name,
		DomainKey:       domainKey,
		MemberID:        input.MemberID,
		CertificateID:   cert.ID,
		CertificateUUID: cert.UUID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	cname := instance.CNAMEName(i.config.HostingDomain)
	instance.Domain = domainName
	if instance.Domain == "" {
		instance.Domain = cname
	}

	err = i.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := i.instanceRepo.Create(ctx, instance); err != nil {
			return err
		}

		_, err := i.dnsProvider.CreateRecord(ctx, i.config.DNSZone, dns.Record{
			Type:    dns.RecordTypeCNAME,
			Name:    cname,
			Content: i.config.CNAMETarget,
			TTL:     dns.DefaultTTL,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info("hosting instance created",
		slog.String("instance_uuid", instance.UUID.String()),
		slog.String("domain", instance.Domain))
	return instance, nil
}

// Delete removes the instance records and row.
func (i *instanceUseCase) Delete(ctx context.Context, memberID int64, instanceUUID uuid.UUID) error {
	instance, err := i.getOwned(ctx, memberID, instanceUUID)
	if err != nil {
		return err
	}

	deleted, err := dns.DeleteRecordsByName(
		ctx,
		i.dnsProvider,
		i.config.DNSZone,
		instance.CNAMEName(i.config.HostingDomain),
	)
	if err != nil {
		return err
	}

	if err := i.instanceRepo.Delete(ctx, instance.ID); err != nil {
		return err
	}

	i.logger.Info("hosting instance deleted",
		slog.String("instance_uuid", instance.UUID.String()),
		slog.Int("dns_records", len(deleted)))
	return nil
}

// GetBackend returns the instance backend.
func (i *instanceUseCase) GetBackend(
	ctx context.Context,
	memberID int64,
	instanceUUID uuid.UUID,
) (*hostingDomain.Backend, error) {
	instance, err := i.getOwned(ctx, memberID, instanceUUID)
	if err != nil {
		return nil, err
	}
	return i.backendRepo.GetByInstance(ctx, instance.ID)
}

// PutBackend replaces the instance backend. Storage backends must reference a bucket of the
// same member.
func (i *instanceUseCase) PutBackend(
	ctx context.Context,
	memberID int64,
	instanceUUID uuid.UUID,
	backend *hostingDomain.Backend,
) (*hostingDomain.Backend, error) {
	instance, err := i.getOwned(ctx, memberID, instanceUUID)
	if err != nil {
		return nil, err
	}
	if err := backend.Validate(); err != nil {
		return nil, err
	}

	if backend.Type == hostingDomain.BackendTypeStorage {
		if _, err := i.buckets.GetOwned(ctx, memberID, backend.Storage.BucketName); err != nil {
			if apperrors.Is(err, storageDomain.ErrBucketNotFound) || apperrors.Is(err, storageDomain.ErrBucketNotOwned) {
				return nil, hostingDomain.ErrInvalidBackend
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	backend.InstanceID = instance.ID
	backend.UUID = uuid.New()
	backend.CreatedAt = now
	backend.UpdatedAt = now

	current, err := i.backendRepo.GetByInstance(ctx, instance.ID)
	switch {
	case err == nil:
		backend.UUID = current.UUID
		backend.CreatedAt = current.CreatedAt
	case !apperrors.Is(err, hostingDomain.ErrBackendNotFound):
		return nil, err
	}

	if err := i.backendRepo.Upsert(ctx, backend); err != nil {
		return nil, err
	}
	return backend, nil
}

func (i *instanceUseCase) getOwned(
	ctx context.Context,
	memberID int64,
	instanceUUID uuid.UUID,
) (*hostingDomain.Instance, error) {
	instance, err := i.instanceRepo.GetByUUID(ctx, instanceUUID)
	if err != nil {
		if apperrors.Is(err, hostingDomain.ErrInstanceNotFound) {
			return nil, hostingDomain.ErrInstanceNotOwned
		}
		return nil, err
	}
	if !instance.OwnedBy(memberID) {
		return nil, hostingDomain.ErrInstanceNotOwned
	}
	return instance, nil
}

// NewInstanceUseCase creates a new InstanceUseCase.
func NewInstanceUseCase(
	txManager database.TxManager,
	instanceRepo InstanceRepository,
	backendRepo BackendRepository,
	certificates CertificateFinder,
	buckets BucketFinder,
	dnsProvider dns.Provider,
	tokenService authService.TokenService,
	config InstanceConfig,
	logger *slog.Logger,
) InstanceUseCase {
	return &instanceUseCase{
		txManager:    txManager,
		instanceRepo: instanceRepo,
		backendRepo:  backendRepo,
		certificates: certificates,
		buckets:      buckets,
		dnsProvider:  dnsProvider,
		tokenService: tokenService,
		config:       config,
		logger:       logger,
	}
}

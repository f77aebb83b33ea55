package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	certsService "github.com/lynlab/luppiter/internal/certs/service"
	"github.com/lynlab/luppiter/internal/database"
	"github.com/lynlab/luppiter/internal/dns"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// IssuanceConfig holds the settings of the issuance triggers.
type IssuanceConfig struct {
	// DNSZone is the provider zone holding the challenge records.
	DNSZone string
	// HostingDomain is the parent domain of challenge record names.
	HostingDomain string
	// ProvisionTTL is the validity recorded on new provisions.
	ProvisionTTL time.Duration
}

// issuanceUseCase implements IssuanceUseCase.
type issuanceUseCase struct {
	txManager     database.TxManager
	certRepo      CertificateRepository
	provisionRepo ProvisionRepository
	dnsProvider   dns.Provider
	keySealer     certsService.KeySealer
	config        IssuanceConfig
	logger        *slog.Logger
	now           func() time.Time
}

// RegisterClient moves the certificate to initializing.
func (i *issuanceUseCase) RegisterClient(ctx context.Context, certificateUUID uuid.UUID) (string, error) {
	cert, err := i.transition(ctx, certificateUUID, certsDomain.StateInitializing)
	if err != nil {
		return "", err
	}
	return cert.Email, nil
}

// FetchDomains moves the certificate to verifying.
func (i *issuanceUseCase) FetchDomains(ctx context.Context, certificateUUID uuid.UUID) ([]string, string, error) {
	cert, err := i.transition(ctx, certificateUUID, certsDomain.StateVerifying)
	if err != nil {
		return nil, "", err
	}
	return cert.Domains, cert.DNSToken, nil
}

func (i *issuanceUseCase) transition(
	ctx context.Context,
	certificateUUID uuid.UUID,
	next certsDomain.State,
) (*certsDomain.Certificate, error) {
	cert, err := i.certRepo.GetByUUID(ctx, certificateUUID)
	if err != nil {
		return nil, err
	}
	if err := cert.TransitionTo(next, i.now()); err != nil {
		return nil, err
	}
	if err := i.certRepo.UpdateState(ctx, cert); err != nil {
		return nil, err
	}

	i.logger.Info("certificate state changed",
		slog.String("certificate_uuid", cert.UUID.String()),
		slog.String("state", string(cert.State)))
	return cert, nil
}

// RegisterChallenges creates the challenge TXT records concurrently. The first failure
// cancels the remaining creations and is returned.
func (i *issuanceUseCase) RegisterChallenges(
	ctx context.Context,
	certificateUUID uuid.UUID,
	contents []string,
) error {
	for _, content := range contents {
		if strings.TrimSpace(content) == "" {
			return certsDomain.ErrInvalidChallenge
		}
	}

	cert, err := i.certRepo.GetByUUID(ctx, certificateUUID)
	if err != nil {
		return err
	}

	name := cert.ChallengeRecordName(i.config.HostingDomain)
	g, gctx := errgroup.WithContext(ctx)
	for _, content := range contents {
		g.Go(func() error {
			_, err := dns.CreateTXTRecord(gctx, i.dnsProvider, i.config.DNSZone, name, content)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	i.logger.Info("challenge records registered",
		slog.String("certificate_uuid", cert.UUID.String()),
		slog.String("name", name),
		slog.Int("count", len(contents)))
	return nil
}

// VerifiedCallback marks the certificate issued from whatever state it is in, stores the next
// provision revision and cleans up the challenge records. Saving the issued state is
// best-effort.
func (i *issuanceUseCase) VerifiedCallback(
	ctx context.Context,
	certificateUUID uuid.UUID,
	input VerifiedInput,
) (*certsDomain.Provision, error) {
	if len(input.CSR) == 0 || len(input.PrivateKey) == 0 || len(input.Certificate) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "csr, private key and certificate are required")
	}

	cert, err := i.certRepo.GetByUUID(ctx, certificateUUID)
	if err != nil {
		return nil, err
	}
	now := i.now()

	previous := cert.State
	cert.MarkIssued(now)
	if err := i.certRepo.UpdateState(ctx, cert); err != nil {
		i.logger.Error("failed to save issued certificate",
			slog.String("certificate_uuid", cert.UUID.String()),
			slog.Any("error", err))
	}

	sealedKey, err := i.keySealer.Seal(ctx, input.PrivateKey)
	if err != nil {
		return nil, err
	}

	provision := &certsDomain.Provision{
		CSR:         input.CSR,
		Certificate: input.Certificate,
		PrivateKey:  sealedKey,
		ExpireAt:    now.Add(i.config.ProvisionTTL),
		CreatedAt:   now,
	}
	err = i.txManager.WithTx(ctx, func(ctx context.Context) error {
		locked, err := i.certRepo.GetByUUIDForUpdate(ctx, certificateUUID)
		if err != nil {
			return err
		}
		last, err := i.provisionRepo.LastRevision(ctx, locked.ID)
		if err != nil {
			return err
		}

		provision.CertificateID = locked.ID
		provision.Revision = last + 1
		return i.provisionRepo.Create(ctx, provision)
	})
	if err != nil {
		return nil, err
	}

	name := cert.ChallengeRecordName(i.config.HostingDomain)
	deleted, err := dns.DeleteRecordsByName(ctx, i.dnsProvider, i.config.DNSZone, name)
	if err != nil {
		return nil, err
	}

	i.logger.Info("certificate provisioned",
		slog.String("certificate_uuid", cert.UUID.String()),
		slog.String("previous_state", string(previous)),
		slog.Int("revision", provision.Revision),
		slog.Time("expire_at", provision.ExpireAt),
		slog.Int("challenge_records_deleted", len(deleted)))
	return provision, nil
}

// NewIssuanceUseCase creates a new IssuanceUseCase.
func NewIssuanceUseCase(
	txManager database.TxManager,
	certRepo CertificateRepository,
	provisionRepo ProvisionRepository,
	dnsProvider dns.Provider,
	keySealer certsService.KeySealer,
	config IssuanceConfig,
	logger *slog.Logger,
) IssuanceUseCase {
	return &issuanceUseCase{
		txManager:     txManager,
		certRepo:      certRepo,
		provisionRepo: provisionRepo,
		dnsProvider:   dnsProvider,
		keySealer:     keySealer,
		config:        config,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

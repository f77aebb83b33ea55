package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	authService "github.com/lynlab/luppiter/internal/auth/service"
	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	certsService "github.com/lynlab/luppiter/internal/certs/service"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// launchTimeout bounds a background issuance worker launch including retries.
const launchTimeout = 5 * time.Minute

// certificateUseCase implements CertificateUseCase.
type certificateUseCase struct {
	certRepo      CertificateRepository
	provisionRepo ProvisionRepository
	keySealer     certsService.KeySealer
	tokenService  authService.TokenService
	launcher      certsService.IssuanceLauncher
	logger        *slog.Logger

	launches sync.WaitGroup
}

// Create stores a submitted certificate and fires the issuance worker.
func (c *certificateUseCase) Create(
	ctx context.Context,
	input CreateCertificateInput,
) (*certsDomain.Certificate, error) {
	dnsToken, err := c.tokenService.GenerateToken(certsDomain.DNSTokenByteLength)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cert := &certsDomain.Certificate{
		UUID:      uuid.New(),
		State:     certsDomain.StateSubmitted,
		MemberID:  input.MemberID,
		Email:     input.Email,
		Domains:   input.Domains,
		DNSToken:  dnsToken,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.certRepo.Create(ctx, cert); err != nil {
		return nil, err
	}

	c.launch(ctx, cert.UUID)
	return cert, nil
}

// launch runs the launcher detached from the request. A launcher that gives up marks the
// certificate failed.
func (c *certificateUseCase) launch(ctx context.Context, certificateUUID uuid.UUID) {
	c.launches.Add(1)
	go func() {
		defer c.launches.Done()

		launchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), launchTimeout)
		defer cancel()

		err := c.launcher.Launch(launchCtx, certificateUUID)
		if err == nil {
			return
		}

		c.logger.Error("issuance worker could not be launched",
			slog.String("certificate_uuid", certificateUUID.String()),
			slog.Any("error", err))
		if err := c.markFailed(launchCtx, certificateUUID); err != nil {
			c.logger.Error("failed to mark certificate as failed",
				slog.String("certificate_uuid", certificateUUID.String()),
				slog.Any("error", err))
		}
	}()
}

func (c *certificateUseCase) markFailed(ctx context.Context, certificateUUID uuid.UUID) error {
	cert, err := c.certRepo.GetByUUID(ctx, certificateUUID)
	if err != nil {
		return err
	}
	if err := cert.TransitionTo(certsDomain.StateFailed, time.Now().UTC()); err != nil {
		return err
	}
	return c.certRepo.UpdateState(ctx, cert)
}

// Wait blocks until every background launch has finished.
func (c *certificateUseCase) Wait() {
	c.launches.Wait()
}

// List returns the member's certificates.
func (c *certificateUseCase) List(ctx context.Context, memberID int64) ([]*certsDomain.Certificate, error) {
	return c.certRepo.ListByMember(ctx, memberID)
}

// Get returns a certificate owned by the member.
func (c *certificateUseCase) Get(
	ctx context.Context,
	memberID int64,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	cert, err := c.certRepo.GetByUUID(ctx, certificateUUID)
	if err != nil {
		if apperrors.Is(err, certsDomain.ErrCertificateNotFound) {
			return nil, certsDomain.ErrCertificateNotOwned
		}
		return nil, err
	}
	if !cert.BelongsTo(memberID) {
		return nil, certsDomain.ErrCertificateNotOwned
	}
	return cert, nil
}

// CurrentProvision returns the member's newest provision with the private key opened.
func (c *certificateUseCase) CurrentProvision(
	ctx context.Context,
	memberID int64,
	certificateUUID uuid.UUID,
) (*certsDomain.Provision, error) {
	cert, err := c.Get(ctx, memberID, certificateUUID)
	if err != nil {
		return nil, err
	}

	provision, err := c.provisionRepo.GetCurrent(ctx, cert.ID)
	if err != nil {
		return nil, err
	}

	provision.PrivateKey, err = c.keySealer.Open(ctx, provision.PrivateKey)
	if err != nil {
		return nil, err
	}
	return provision, nil
}

// FindByUUID returns a certificate regardless of owner.
func (c *certificateUseCase) FindByUUID(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	return c.certRepo.GetByUUID(ctx, certificateUUID)
}

// NewCertificateUseCase creates a new CertificateUseCase.
func NewCertificateUseCase(
	certRepo CertificateRepository,
	provisionRepo ProvisionRepository,
	keySealer certsService.KeySealer,
	tokenService authService.TokenService,
	launcher certsService.IssuanceLauncher,
	logger *slog.Logger,
) CertificateUseCase {
	return &certificateUseCase{
		certRepo:      certRepo,
		provisionRepo: provisionRepo,
		keySealer:     keySealer,
		tokenService:  tokenService,
		launcher:      launcher,
		logger:        logger,
	}
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// expiryUseCase implements ExpiryUseCase.
type expiryUseCase struct {
	certRepo      CertificateRepository
	provisionRepo ProvisionRepository
	logger        *slog.Logger
	now           func() time.Time
}

// Sweep moves certificates whose current provision is expiring or expired.
func (e *expiryUseCase) Sweep(ctx context.Context, window time.Duration, dryRun bool) (*SweepResult, error) {
	certs, err := e.certRepo.ListByStates(ctx, []certsDomain.State{
		certsDomain.StateIssued,
		certsDomain.StateAlmostExpired,
	})
	if err != nil {
		return nil, err
	}

	now := e.now()
	result := &SweepResult{Checked: len(certs), Changes: []SweepChange{}, DryRun: dryRun}
	for _, cert := range certs {
		expireAt, err := e.provisionRepo.CurrentExpireAt(ctx, cert.ID)
		if err != nil {
			if apperrors.Is(err, certsDomain.ErrProvisionNotFound) {
				continue
			}
			return nil, err
		}
		current := &certsDomain.Provision{ExpireAt: expireAt}

		var next certsDomain.State
		switch {
		case current.IsExpired(now):
			next = certsDomain.StateExpired
		case cert.State == certsDomain.StateIssued && current.ExpiresWithin(now, window):
			next = certsDomain.StateAlmostExpired
		default:
			continue
		}

		change := SweepChange{UUID: cert.UUID, From: cert.State, To: next, ExpireAt: expireAt}
		if !dryRun {
			if err := cert.TransitionTo(next, now); err != nil {
				return nil, err
			}
			if err := e.certRepo.UpdateState(ctx, cert); err != nil {
				return nil, err
			}
			e.logger.Info("certificate expiry state changed",
				slog.String("certificate_uuid", cert.UUID.String()),
				slog.String("from", string(change.From)),
				slog.String("to", string(change.To)))
		}
		result.Changes = append(result.Changes, change)
	}

	return result, nil
}

// NewExpiryUseCase creates a new ExpiryUseCase.
func NewExpiryUseCase(
	certRepo CertificateRepository,
	provisionRepo ProvisionRepository,
	logger *slog.Logger,
) ExpiryUseCase {
	return &expiryUseCase{
		certRepo:      certRepo,
		provisionRepo: provisionRepo,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

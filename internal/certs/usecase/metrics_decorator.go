package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/metrics"
)

const metricsDomain = "certs"

func recordMetrics(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, metricsDomain, operation, status)
	m.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// certificateUseCaseWithMetrics decorates CertificateUseCase with metrics instrumentation.
type certificateUseCaseWithMetrics struct {
	next    CertificateUseCase
	metrics metrics.BusinessMetrics
}

// NewCertificateUseCaseWithMetrics wraps a CertificateUseCase with metrics recording.
func NewCertificateUseCaseWithMetrics(useCase CertificateUseCase, m metrics.BusinessMetrics) CertificateUseCase {
	return &certificateUseCaseWithMetrics{next: useCase, metrics: m}
}

// Create records metrics for certificate creation.
func (c *certificateUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateCertificateInput,
) (*certsDomain.Certificate, error) {
	start := time.Now()
	cert, err := c.next.Create(ctx, input)
	recordMetrics(ctx, c.metrics, "certificate_create", start, err)
	return cert, err
}

// List records metrics for certificate listing.
func (c *certificateUseCaseWithMetrics) List(ctx context.Context, memberID int64) ([]*certsDomain.Certificate, error) {
	start := time.Now()
	certs, err := c.next.List(ctx, memberID)
	recordMetrics(ctx, c.metrics, "certificate_list", start, err)
	return certs, err
}

// Get records metrics for certificate retrieval.
func (c *certificateUseCaseWithMetrics) Get(
	ctx context.Context,
	memberID int64,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	start := time.Now()
	cert, err := c.next.Get(ctx, memberID, certificateUUID)
	recordMetrics(ctx, c.metrics, "certificate_get", start, err)
	return cert, err
}

// CurrentProvision records metrics for provision retrieval.
func (c *certificateUseCaseWithMetrics) CurrentProvision(
	ctx context.Context,
	memberID int64,
	certificateUUID uuid.UUID,
) (*certsDomain.Provision, error) {
	start := time.Now()
	provision, err := c.next.CurrentProvision(ctx, memberID, certificateUUID)
	recordMetrics(ctx, c.metrics, "certificate_provision_get", start, err)
	return provision, err
}

// FindByUUID is not instrumented; it only backs other use cases.
func (c *certificateUseCaseWithMetrics) FindByUUID(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	return c.next.FindByUUID(ctx, certificateUUID)
}

// Wait delegates to the wrapped use case.
func (c *certificateUseCaseWithMetrics) Wait() {
	c.next.Wait()
}

// issuanceUseCaseWithMetrics decorates IssuanceUseCase with metrics instrumentation.
type issuanceUseCaseWithMetrics struct {
	next    IssuanceUseCase
	metrics metrics.BusinessMetrics
}

// NewIssuanceUseCaseWithMetrics wraps an IssuanceUseCase with metrics recording.
func NewIssuanceUseCaseWithMetrics(useCase IssuanceUseCase, m metrics.BusinessMetrics) IssuanceUseCase {
	return &issuanceUseCaseWithMetrics{next: useCase, metrics: m}
}

// RegisterClient records metrics for the register client trigger.
func (i *issuanceUseCaseWithMetrics) RegisterClient(ctx context.Context, certificateUUID uuid.UUID) (string, error) {
	start := time.Now()
	email, err := i.next.RegisterClient(ctx, certificateUUID)
	recordMetrics(ctx, i.metrics, "issuance_register_client", start, err)
	return email, err
}

// FetchDomains records metrics for the fetch domains trigger.
func (i *issuanceUseCaseWithMetrics) FetchDomains(
	ctx context.Context,
	certificateUUID uuid.UUID,
) ([]string, string, error) {
	start := time.Now()
	domains, dnsToken, err := i.next.FetchDomains(ctx, certificateUUID)
	recordMetrics(ctx, i.metrics, "issuance_fetch_domains", start, err)
	return domains, dnsToken, err
}

// RegisterChallenges records metrics for the register challenges trigger.
func (i *issuanceUseCaseWithMetrics) RegisterChallenges(
	ctx context.Context,
	certificateUUID uuid.UUID,
	contents []string,
) error {
	start := time.Now()
	err := i.next.RegisterChallenges(ctx, certificateUUID, contents)
	recordMetrics(ctx, i.metrics, "issuance_register_challenges", start, err)
	return err
}

// VerifiedCallback records metrics for the verified callback trigger.
func (i *issuanceUseCaseWithMetrics) VerifiedCallback(
	ctx context.Context,
	certificateUUID uuid.UUID,
	input VerifiedInput,
) (*certsDomain.Provision, error) {
	start := time.Now()
	provision, err := i.next.VerifiedCallback(ctx, certificateUUID, input)
	recordMetrics(ctx, i.metrics, "issuance_verified_callback", start, err)
	return provision, err
}

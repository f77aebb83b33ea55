package usecase

import (
	"context"
	"time"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	"github.com/lynlab/luppiter/internal/metrics"
)

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *apiKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", operation, status)
	a.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Create records metrics for API key creation.
func (a *apiKeyUseCaseWithMetrics) Create(ctx context.Context, memberID int64, memo string) (*authDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Create(ctx, memberID, memo)
	a.record(ctx, "api_key_create", start, err)
	return apiKey, err
}

// List records metrics for API key listing.
func (a *apiKeyUseCaseWithMetrics) List(ctx context.Context, memberID int64) ([]*authDomain.APIKey, error) {
	start := time.Now()
	apiKeys, err := a.next.List(ctx, memberID)
	a.record(ctx, "api_key_list", start, err)
	return apiKeys, err
}

// Delete records metrics for API key deletion.
func (a *apiKeyUseCaseWithMetrics) Delete(ctx context.Context, memberID int64, key string) error {
	start := time.Now()
	err := a.next.Delete(ctx, memberID, key)
	a.record(ctx, "api_key_delete", start, err)
	return err
}

// ListPermissions records metrics for grant listing.
func (a *apiKeyUseCaseWithMetrics) ListPermissions(ctx context.Context, memberID int64, key string) ([]string, error) {
	start := time.Now()
	granted, err := a.next.ListPermissions(ctx, memberID, key)
	a.record(ctx, "api_key_list_permissions", start, err)
	return granted, err
}

// GrantPermission records metrics for permission grants.
func (a *apiKeyUseCaseWithMetrics) GrantPermission(
	ctx context.Context,
	memberID int64,
	key, permission string,
) ([]string, error) {
	start := time.Now()
	granted, err := a.next.GrantPermission(ctx, memberID, key, permission)
	a.record(ctx, "api_key_grant_permission", start, err)
	return granted, err
}

// RevokePermission records metrics for permission revocations.
func (a *apiKeyUseCaseWithMetrics) RevokePermission(
	ctx context.Context,
	memberID int64,
	key, permission string,
) ([]string, error) {
	start := time.Now()
	granted, err := a.next.RevokePermission(ctx, memberID, key, permission)
	a.record(ctx, "api_key_revoke_permission", start, err)
	return granted, err
}

// Authenticate records metrics for API key resolution.
func (a *apiKeyUseCaseWithMetrics) Authenticate(ctx context.Context, key string) (*authDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Authenticate(ctx, key)
	a.record(ctx, "api_key_authenticate", start, err)
	return apiKey, err
}

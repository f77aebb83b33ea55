package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/certs/usecase"
	usecaseMocks "github.com/lynlab/luppiter/internal/certs/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "certs", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "certs", operation, mock.AnythingOfType("time.Duration"), status).Return().Once()
}

func TestCertificateUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Create success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockCertificateUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewCertificateUseCaseWithMetrics(mockNext, mockMetrics)
		input := usecase.CreateCertificateInput{MemberID: 1, Domains: []string{"x.test"}}
		output := &certsDomain.Certificate{ID: 1}

		mockNext.On("Create", ctx, input).Return(output, nil).Once()
		expectMetrics(mockMetrics, ctx, "certificate_create", "success")

		res, err := uc.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Get error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockCertificateUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewCertificateUseCaseWithMetrics(mockNext, mockMetrics)
		id := uuid.New()

		mockNext.On("Get", ctx, int64(1), id).Return(nil, certsDomain.ErrCertificateNotOwned).Once()
		expectMetrics(mockMetrics, ctx, "certificate_get", "error")

		_, err := uc.Get(ctx, 1, id)
		assert.ErrorIs(t, err, certsDomain.ErrCertificateNotOwned)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("FindByUUID and Wait are passed through", func(t *testing.T) {
		mockNext := &usecaseMocks.MockCertificateUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewCertificateUseCaseWithMetrics(mockNext, mockMetrics)
		id := uuid.New()

		mockNext.On("FindByUUID", ctx, id).Return(&certsDomain.Certificate{UUID: id}, nil).Once()
		mockNext.On("Wait").Return().Once()

		cert, err := uc.FindByUUID(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, id, cert.UUID)
		uc.Wait()
		mockNext.AssertExpectations(t)
		mockMetrics.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestIssuanceUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("RegisterChallenges error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockIssuanceUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewIssuanceUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("RegisterChallenges", ctx, id, []string{"c"}).Return(errors.New("dns")).Once()
		expectMetrics(mockMetrics, ctx, "issuance_register_challenges", "error")

		assert.Error(t, uc.RegisterChallenges(ctx, id, []string{"c"}))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("FetchDomains success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockIssuanceUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewIssuanceUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("FetchDomains", ctx, id).Return([]string{"x.test"}, "token", nil).Once()
		expectMetrics(mockMetrics, ctx, "issuance_fetch_domains", "success")

		domains, token, err := uc.FetchDomains(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, []string{"x.test"}, domains)
		assert.Equal(t, "token", token)
		mockMetrics.AssertExpectations(t)
	})
}

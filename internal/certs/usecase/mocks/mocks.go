// Package mocks provides testify mocks for the certificate use cases, repositories and services.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/certs/usecase"
)

// MockCertificateRepository is a mock implementation of usecase.CertificateRepository.
type MockCertificateRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockCertificateRepository) Create(ctx context.Context, cert *certsDomain.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

// GetByUUID mocks the GetByUUID method.
func (m *MockCertificateRepository) GetByUUID(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	args := m.Called(ctx, certificateUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Certificate), args.Error(1)
}

// GetByUUIDForUpdate mocks the GetByUUIDForUpdate method.
func (m *MockCertificateRepository) GetByUUIDForUpdate(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	args := m.Called(ctx, certificateUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Certificate), args.Error(1)
}

// ListByMember mocks the ListByMember method.
func (m *MockCertificateRepository) ListByMember(ctx context.Context, memberID int64) ([]*certsDomain.Certificate, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*certsDomain.Certificate), args.Error(1)
}

// ListByStates mocks the ListByStates method.
func (m *MockCertificateRepository) ListByStates(
	ctx context.Context,
	states []certsDomain.State,
) ([]*certsDomain.Certificate, error) {
	args := m.Called(ctx, states)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*certsDomain.Certificate), args.Error(1)
}

// UpdateState mocks the UpdateState method.
func (m *MockCertificateRepository) UpdateState(ctx context.Context, cert *certsDomain.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

// MockProvisionRepository is a mock implementation of usecase.ProvisionRepository.
type MockProvisionRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockProvisionRepository) Create(ctx context.Context, provision *certsDomain.Provision) error {
	args := m.Called(ctx, provision)
	return args.Error(0)
}

// LastRevision mocks the LastRevision method.
func (m *MockProvisionRepository) LastRevision(ctx context.Context, certificateID int64) (int, error) {
	args := m.Called(ctx, certificateID)
	return args.Int(0), args.Error(1)
}

// GetCurrent mocks the GetCurrent method.
func (m *MockProvisionRepository) GetCurrent(ctx context.Context, certificateID int64) (*certsDomain.Provision, error) {
	args := m.Called(ctx, certificateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Provision), args.Error(1)
}

// CurrentExpireAt mocks the CurrentExpireAt method.
func (m *MockProvisionRepository) CurrentExpireAt(ctx context.Context, certificateID int64) (time.Time, error) {
	args := m.Called(ctx, certificateID)
	return args.Get(0).(time.Time), args.Error(1)
}

// MockCertificateUseCase is a mock implementation of usecase.CertificateUseCase.
type MockCertificateUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockCertificateUseCase) Create(
	ctx context.Context,
	input usecase.CreateCertificateInput,
) (*certsDomain.Certificate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Certificate), args.Error(1)
}

// List mocks the List method.
func (m *MockCertificateUseCase) List(ctx context.Context, memberID int64) ([]*certsDomain.Certificate, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*certsDomain.Certificate), args.Error(1)
}

// Get mocks the Get method.
func (m *MockCertificateUseCase) Get(
	ctx context.Context,
	memberID int64,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	args := m.Called(ctx, memberID, certificateUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Certificate), args.Error(1)
}

// CurrentProvision mocks the CurrentProvision method.
func (m *MockCertificateUseCase) CurrentProvision(
	ctx context.Context,
	memberID int64,
	certificateUUID uuid.UUID,
) (*certsDomain.Provision, error) {
	args := m.Called(ctx, memberID, certificateUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Provision), args.Error(1)
}

// FindByUUID mocks the FindByUUID method.
func (m *MockCertificateUseCase) FindByUUID(
	ctx context.Context,
	certificateUUID uuid.UUID,
) (*certsDomain.Certificate, error) {
	args := m.Called(ctx, certificateUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Certificate), args.Error(1)
}

// Wait mocks the Wait method.
func (m *MockCertificateUseCase) Wait() {
	m.Called()
}

// MockIssuanceUseCase is a mock implementation of usecase.IssuanceUseCase.
type MockIssuanceUseCase struct {
	mock.Mock
}

// RegisterClient mocks the RegisterClient method.
func (m *MockIssuanceUseCase) RegisterClient(ctx context.Context, certificateUUID uuid.UUID) (string, error) {
	args := m.Called(ctx, certificateUUID)
	return args.String(0), args.Error(1)
}

// FetchDomains mocks the FetchDomains method.
func (m *MockIssuanceUseCase) FetchDomains(ctx context.Context, certificateUUID uuid.UUID) ([]string, string, error) {
	args := m.Called(ctx, certificateUUID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]string), args.String(1), args.Error(2)
}

// RegisterChallenges mocks the RegisterChallenges method.
func (m *MockIssuanceUseCase) RegisterChallenges(
	ctx context.Context,
	certificateUUID uuid.UUID,
	contents []string,
) error {
	args := m.Called(ctx, certificateUUID, contents)
	return args.Error(0)
}

// VerifiedCallback mocks the VerifiedCallback method.
func (m *MockIssuanceUseCase) VerifiedCallback(
	ctx context.Context,
	certificateUUID uuid.UUID,
	input usecase.VerifiedInput,
) (*certsDomain.Provision, error) {
	args := m.Called(ctx, certificateUUID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certsDomain.Provision), args.Error(1)
}

// MockExpiryUseCase is a mock implementation of usecase.ExpiryUseCase.
type MockExpiryUseCase struct {
	mock.Mock
}

// Sweep mocks the Sweep method.
func (m *MockExpiryUseCase) Sweep(ctx context.Context, window time.Duration, dryRun bool) (*usecase.SweepResult, error) {
	args := m.Called(ctx, window, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SweepResult), args.Error(1)
}

// MockKeySealer is a mock implementation of service.KeySealer.
type MockKeySealer struct {
	mock.Mock
}

// Seal mocks the Seal method.
func (m *MockKeySealer) Seal(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Open mocks the Open method.
func (m *MockKeySealer) Open(ctx context.Context, sealed []byte) ([]byte, error) {
	args := m.Called(ctx, sealed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Close mocks the Close method.
func (m *MockKeySealer) Close() error {
	return m.Called().Error(0)
}

// MockIssuanceLauncher is a mock implementation of service.IssuanceLauncher.
type MockIssuanceLauncher struct {
	mock.Mock
}

// Launch mocks the Launch method.
func (m *MockIssuanceLauncher) Launch(ctx context.Context, certificateUUID uuid.UUID) error {
	args := m.Called(ctx, certificateUUID)
	return args.Error(0)
}

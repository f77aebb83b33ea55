package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	"github.com/lynlab/luppiter/internal/certs/usecase"
	usecaseMocks "github.com/lynlab/luppiter/internal/certs/usecase/mocks"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

const (
	testWorkerToken = "worker-token"
	testPEM         = "-----BEGIN TEST-----\nAAAA\n-----END TEST-----\n"
)

type rpcFixture struct {
	issuance *usecaseMocks.MockIssuanceUseCase
	conn     *grpc.ClientConn
	client   *CertificateServiceClient
}

func newRPCFixture(t *testing.T, workerToken string) *rpcFixture {
	t.Helper()

	issuance := &usecaseMocks.MockIssuanceUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(issuance, ServerOptions{WorkerToken: workerToken}, logger)

	listener := bufconn.Listen(1024 * 1024)
	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	return &rpcFixture{issuance: issuance, conn: conn, client: NewCertificateServiceClient(conn)}
}

func authorized(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+testWorkerToken)
}

func TestCertificateServer_Triggers(t *testing.T) {
	f := newRPCFixture(t, testWorkerToken)
	ctx := authorized(context.Background())
	certificateUUID := uuid.New()

	f.issuance.On("RegisterClient", mock.Anything, certificateUUID).Return("a@example.com", nil).Once()
	f.issuance.On("FetchDomains", mock.Anything, certificateUUID).
		Return([]string{"x.test"}, "0123456789abcdef0123456789abcdef01234567", nil).Once()
	f.issuance.On("RegisterChallenges", mock.Anything, certificateUUID, []string{"c1", "c2"}).Return(nil).Once()
	expireAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.issuance.On("VerifiedCallback", mock.Anything, certificateUUID, usecase.VerifiedInput{
		CSR:         []byte(testPEM),
		PrivateKey:  []byte(testPEM),
		Certificate: []byte(testPEM),
	}).Return(&certsDomain.Provision{Revision: 1, ExpireAt: expireAt}, nil).Once()

	registered, err := f.client.RegisterClient(ctx, &CertificateRequest{UUID: certificateUUID.String()})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", registered.Email)

	domains, err := f.client.FetchDomains(ctx, &CertificateRequest{UUID: certificateUUID.String()})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.test"}, domains.Domains)
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", domains.DNSToken)

	_, err = f.client.RegisterChallenges(ctx, &RegisterChallengesRequest{
		UUID:    certificateUUID.String(),
		Records: []string{"c1", "c2"},
	})
	require.NoError(t, err)

	verified, err := f.client.VerifiedCallback(ctx, &VerifiedCallbackRequest{
		UUID:        certificateUUID.String(),
		CSR:         []byte(testPEM),
		PrivateKey:  []byte(testPEM),
		Certificate: []byte(testPEM),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, verified.Revision)
	assert.Equal(t, "2025-01-01T00:00:00Z", verified.ExpireAt)

	f.issuance.AssertExpectations(t)
}

func TestCertificateServer_ErrorCodes(t *testing.T) {
	f := newRPCFixture(t, testWorkerToken)
	ctx := authorized(context.Background())

	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"unknown certificate", certsDomain.ErrCertificateNotFound, codes.NotFound},
		{"invalid transition", certsDomain.ErrInvalidTransition, codes.FailedPrecondition},
		{"dns failure", apperrors.Wrap(apperrors.ErrUpstream, "dns"), codes.Unavailable},
		{"unexpected failure", apperrors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			certificateUUID := uuid.New()
			f.issuance.On("RegisterClient", mock.Anything, certificateUUID).Return("", tt.err).Once()

			_, err := f.client.RegisterClient(ctx, &CertificateRequest{UUID: certificateUUID.String()})
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	t.Run("malformed uuid", func(t *testing.T) {
		_, err := f.client.FetchDomains(ctx, &CertificateRequest{UUID: "nope"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("blank challenge", func(t *testing.T) {
		_, err := f.client.RegisterChallenges(ctx, &RegisterChallengesRequest{
			UUID:    uuid.NewString(),
			Records: []string{" "},
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("artifacts not PEM encoded", func(t *testing.T) {
		_, err := f.client.VerifiedCallback(ctx, &VerifiedCallbackRequest{
			UUID:        uuid.NewString(),
			CSR:         []byte("csr"),
			PrivateKey:  []byte(testPEM),
			Certificate: []byte(testPEM),
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	f.issuance.AssertNotCalled(t, "FetchDomains", mock.Anything, mock.Anything)
	f.issuance.AssertNotCalled(t, "VerifiedCallback", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerAuthInterceptor(t *testing.T) {
	f := newRPCFixture(t, testWorkerToken)
	request := &CertificateRequest{UUID: uuid.NewString()}

	t.Run("missing token", func(t *testing.T) {
		_, err := f.client.RegisterClient(context.Background(), request)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("wrong token", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer nope")
		_, err := f.client.RegisterClient(ctx, request)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("health checks are open", func(t *testing.T) {
		resp, err := healthpb.NewHealthClient(f.conn).Check(context.Background(), &healthpb.HealthCheckRequest{
			Service: ServiceName,
		})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	})

	f.issuance.AssertNotCalled(t, "RegisterClient", mock.Anything, mock.Anything)
}

func TestWorkerAuthInterceptor_Disabled(t *testing.T) {
	f := newRPCFixture(t, "")
	certificateUUID := uuid.New()
	f.issuance.On("RegisterClient", mock.Anything, certificateUUID).Return("a@example.com", nil).Once()

	_, err := f.client.RegisterClient(context.Background(), &CertificateRequest{UUID: certificateUUID.String()})
	assert.NoError(t, err)
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: RegisterClientMethod},
		func(context.Context, any) (any, error) {
			panic("boom")
		})
	assert.Equal(t, codes.Internal, status.Code(err))
}

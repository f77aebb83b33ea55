package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	certsUseCase "github.com/lynlab/luppiter/internal/certs/usecase"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	"github.com/lynlab/luppiter/internal/metrics"
	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// CertificateServer implements CertificateServiceServer on top of IssuanceUseCase.
type CertificateServer struct {
	issuanceUseCase certsUseCase.IssuanceUseCase
	logger          *slog.Logger
}

// NewCertificateServer creates a new certificate RPC server.
func NewCertificateServer(issuanceUseCase certsUseCase.IssuanceUseCase, logger *slog.Logger) *CertificateServer {
	return &CertificateServer{
		issuanceUseCase: issuanceUseCase,
		logger:          logger,
	}
}

// RegisterClient moves the certificate to initializing and returns its contact email.
func (s *CertificateServer) RegisterClient(
	ctx context.Context,
	req *CertificateRequest,
) (*RegisterClientResponse, error) {
	certificateUUID, err := parseUUID(req.UUID)
	if err != nil {
		return nil, err
	}

	email, err := s.issuanceUseCase.RegisterClient(ctx, certificateUUID)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &RegisterClientResponse{Email: email}, nil
}

// FetchDomains moves the certificate to verifying and returns its domains and DNS token.
func (s *CertificateServer) FetchDomains(ctx context.Context, req *CertificateRequest) (*FetchDomainsResponse, error) {
	certificateUUID, err := parseUUID(req.UUID)
	if err != nil {
		return nil, err
	}

	domains, dnsToken, err := s.issuanceUseCase.FetchDomains(ctx, certificateUUID)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &FetchDomainsResponse{Domains: domains, DNSToken: dnsToken}, nil
}

// RegisterChallenges creates the DNS-01 challenge records.
func (s *CertificateServer) RegisterChallenges(ctx context.Context, req *RegisterChallengesRequest) (*Empty, error) {
	certificateUUID, err := parseUUID(req.UUID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, s.toStatus(customValidation.WrapValidationError(err))
	}

	if err := s.issuanceUseCase.RegisterChallenges(ctx, certificateUUID, req.Records); err != nil {
		return nil, s.toStatus(err)
	}
	return &Empty{}, nil
}

// VerifiedCallback stores the issued certificate.
func (s *CertificateServer) VerifiedCallback(
	ctx context.Context,
	req *VerifiedCallbackRequest,
) (*VerifiedCallbackResponse, error) {
	certificateUUID, err := parseUUID(req.UUID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, s.toStatus(customValidation.WrapValidationError(err))
	}

	provision, err := s.issuanceUseCase.VerifiedCallback(ctx, certificateUUID, certsUseCase.VerifiedInput{
		CSR:         req.CSR,
		PrivateKey:  req.PrivateKey,
		Certificate: req.Certificate,
	})
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &VerifiedCallbackResponse{
		Revision: provision.Revision,
		ExpireAt: provision.ExpireAt.UTC().Format(time.RFC3339),
	}, nil
}

func parseUUID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, "invalid certificate uuid")
	}
	return id, nil
}

// toStatus maps domain errors to gRPC status errors.
func (s *CertificateServer) toStatus(err error) error {
	var code codes.Code
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		code = codes.NotFound
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		code = codes.InvalidArgument
	case apperrors.Is(err, apperrors.ErrConflict):
		code = codes.FailedPrecondition
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		code = codes.Unauthenticated
	case apperrors.Is(err, apperrors.ErrUpstream):
		code = codes.Unavailable
	default:
		s.logger.Error("issuance rpc failed", slog.Any("error", err))
		return status.Error(codes.Internal, "internal error")
	}

	s.logger.Warn("issuance rpc rejected",
		slog.String("code", code.String()),
		slog.Any("error", err))
	return status.Error(code, err.Error())
}

// ServerOptions configures NewServer.
type ServerOptions struct {
	// WorkerToken is the bearer token workers must present. Empty disables the check.
	WorkerToken string
	// MeterProvider enables RPC metrics when set.
	MeterProvider metric.MeterProvider
	// MetricsNamespace prefixes RPC metric names.
	MetricsNamespace string
}

// NewServer builds the gRPC server hosting the certificate service and the standard health
// service.
func NewServer(
	issuanceUseCase certsUseCase.IssuanceUseCase,
	opts ServerOptions,
	logger *slog.Logger,
) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{RecoveryInterceptor(logger)}
	if opts.MeterProvider != nil {
		interceptors = append(interceptors, metrics.GRPCMetricsInterceptor(opts.MeterProvider, opts.MetricsNamespace))
	}
	interceptors = append(interceptors,
		LoggingInterceptor(logger),
		WorkerAuthInterceptor(opts.WorkerToken, logger),
	)

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	RegisterCertificateServiceServer(server, NewCertificateServer(issuanceUseCase, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	return server
}

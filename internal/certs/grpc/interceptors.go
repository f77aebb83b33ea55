package grpc

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	authorizationKey = "authorization"
	bearerPrefix     = "bearer "
)

// WorkerAuthInterceptor requires "authorization: Bearer <token>" metadata on certificate
// service calls. An empty token disables the check. Health checks are never authenticated.
func WorkerAuthInterceptor(token string, logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if token == "" || !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") {
			return handler(ctx, req)
		}

		presented, ok := tokenFromMetadata(ctx)
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			logger.Warn("issuance worker authentication failed", slog.String("method", info.FullMethod))
			return nil, status.Error(codes.Unauthenticated, "invalid worker token")
		}
		return handler(ctx, req)
	}
}

func tokenFromMetadata(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	values := md.Get(authorizationKey)
	if len(values) == 0 {
		return "", false
	}

	value := strings.TrimSpace(values[0])
	if len(value) <= len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearerPrefix):])
	return token, token != ""
}

// LoggingInterceptor logs every unary call with its status code and duration.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		logger.Info("rpc",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)))
		return resp, err
	}
}

// RecoveryInterceptor turns handler panics into codes.Internal.
func RecoveryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("rpc panicked",
					slog.String("method", info.FullMethod),
					slog.Any("panic", r))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

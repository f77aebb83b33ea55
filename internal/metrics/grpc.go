package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// GRPCMetricsInterceptor returns a unary server interceptor that records RPC metrics.
// Tracks total requests and durations with service, method, and code labels.
func GRPCMetricsInterceptor(meterProvider metric.MeterProvider, namespace string) grpc.UnaryServerInterceptor {
	passthrough := func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(ctx, req)
	}

	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_grpc_requests_total", namespace),
		metric.WithDescription("Total number of gRPC unary requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passthrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_grpc_request_duration_seconds", namespace),
		metric.WithDescription("gRPC unary request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passthrough
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		service, method := splitFullMethod(info.FullMethod)
		attrs := metric.WithAttributes(
			attribute.String("service", service),
			attribute.String("method", method),
			attribute.String("code", status.Code(err).String()),
		)
		requestCounter.Add(ctx, 1, attrs)
		durationHisto.Record(ctx, time.Since(start).Seconds(), attrs)

		return resp, err
	}
}

// splitFullMethod splits "/pkg.Service/Method" into its service and method parts.
func splitFullMethod(full string) (string, string) {
	full = strings.TrimPrefix(full, "/")
	service, method, ok := strings.Cut(full, "/")
	if !ok || service == "" || method == "" {
		return "unknown", "unknown"
	}
	return service, method
}

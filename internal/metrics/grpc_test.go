package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCMetricsInterceptor(t *testing.T) {
	provider, err := NewProvider("grpc_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	interceptor := GRPCMetricsInterceptor(provider.MeterProvider(), "grpc_test")
	info := &grpc.UnaryServerInfo{FullMethod: "/luppiter.certs.v1.CertificateService/FetchDomains"}

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	_, err = interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "certificate not found")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	output := w.Body.String()
	assert.Contains(t, output, "grpc_test_grpc_requests_total")
	assert.Contains(t, output, `method="FetchDomains"`)
	assert.Contains(t, output, `code="NotFound"`)
	assert.Contains(t, output, `service="luppiter.certs.v1.CertificateService"`)
}

func TestSplitFullMethod(t *testing.T) {
	tests := []struct {
		input   string
		service string
		method  string
	}{
		{"/luppiter.certs.v1.CertificateService/RegisterClient", "luppiter.certs.v1.CertificateService", "RegisterClient"},
		{"", "unknown", "unknown"},
		{"/only", "unknown", "unknown"},
		{"/svc/", "unknown", "unknown"},
	}

	for _, tt := range tests {
		service, method := splitFullMethod(tt.input)
		assert.Equal(t, tt.service, service)
		assert.Equal(t, tt.method, method)
	}
}

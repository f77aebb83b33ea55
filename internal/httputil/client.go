package httputil

import (
	"log/slog"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// NewRetryableClient builds the outbound HTTP client shared by upstream integrations
// (identity provider, Cloudflare, docker engine). Connection errors and 5xx responses are
// retried up to retryMax times with exponential backoff.
func NewRetryableClient(retryMax int, timeout time.Duration, logger *slog.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}
	return client
}

package dns

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudflare/cloudflare-go"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/samber/lo"
)

// CloudflareProvider manages records through the Cloudflare v4 API.
type CloudflareProvider struct {
	api    *cloudflare.API
	logger *slog.Logger
}

// CreateRecord creates a DNS record in the zone.
func (p *CloudflareProvider) CreateRecord(ctx context.Context, zone string, record Record) (Record, error) {
	if record.TTL == 0 {
		record.TTL = DefaultTTL
	}

	created, err := p.api.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier(zone), cloudflare.CreateDNSRecordParams{
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
		TTL:     record.TTL,
	})
	if err != nil {
		return Record{}, upstreamError(err, "failed to create cloudflare record")
	}

	p.logger.Debug("cloudflare record created",
		slog.String("name", created.Name),
		slog.String("type", created.Type),
		slog.String("id", created.ID))
	return toRecord(created), nil
}

// ListRecords lists the records of the zone named name, following every result page.
func (p *CloudflareProvider) ListRecords(ctx context.Context, zone, name string) ([]Record, error) {
	records, _, err := p.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zone), cloudflare.ListDNSRecordsParams{
		Name: name,
	})
	if err != nil {
		return nil, upstreamError(err, "failed to list cloudflare records")
	}

	return lo.Map(records, func(r cloudflare.DNSRecord, _ int) Record {
		return toRecord(r)
	}), nil
}

// DeleteRecord deletes a record by id.
func (p *CloudflareProvider) DeleteRecord(ctx context.Context, zone, id string) error {
	if err := p.api.DeleteDNSRecord(ctx, cloudflare.ZoneIdentifier(zone), id); err != nil {
		return upstreamError(err, "failed to delete cloudflare record")
	}

	p.logger.Debug("cloudflare record deleted", slog.String("id", id))
	return nil
}

func toRecord(r cloudflare.DNSRecord) Record {
	return Record{
		ID:      r.ID,
		Type:    r.Type,
		Name:    r.Name,
		Content: r.Content,
		TTL:     r.TTL,
	}
}

// NewCloudflareProvider creates a Cloudflare provider authenticated with an API token. An empty
// baseURL uses the public API. Retries are left to client, so the SDK's own retry loop is off.
func NewCloudflareProvider(
	baseURL, token string,
	client *retryablehttp.Client,
	logger *slog.Logger,
) (*CloudflareProvider, error) {
	opts := []cloudflare.Option{
		cloudflare.UsingRetryPolicy(0, 0, 0),
	}
	if client != nil {
		opts = append(opts, cloudflare.HTTPClient(client.StandardClient()))
	}
	if baseURL != "" {
		opts = append(opts, cloudflare.BaseURL(strings.TrimSuffix(baseURL, "/")))
	}

	api, err := cloudflare.NewWithAPIToken(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
	}
	return &CloudflareProvider{api: api, logger: logger}, nil
}

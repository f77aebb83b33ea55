// Package dns provides the DNS provider boundary used for certificate challenges and hosting
// instance domains, with Cloudflare, Aliyun, Tencent Cloud and Huawei Cloud implementations.
package dns

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/lynlab/luppiter/internal/config"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// Record types.
const (
	RecordTypeTXT   = "TXT"
	RecordTypeCNAME = "CNAME"
)

// DefaultTTL is used when a record is created without a TTL. Cloudflare treats 1 as automatic.
const DefaultTTL = 600

// Record is a DNS record as seen by a provider. Name is always the fully qualified name
// without a trailing dot.
type Record struct {
	ID      string
	Type    string
	Name    string
	Content string
	TTL     int
}

// Provider manages DNS records of a zone. For Cloudflare the zone is the zone id, for the
// other providers it is the managed domain name.
type Provider interface {
	// CreateRecord creates a record and returns it with its provider id.
	CreateRecord(ctx context.Context, zone string, record Record) (Record, error)

	// ListRecords returns every record of the zone named name.
	ListRecords(ctx context.Context, zone, name string) ([]Record, error)

	// DeleteRecord removes a record by provider id.
	DeleteRecord(ctx context.Context, zone, id string) error
}

// CreateTXTRecord creates a TXT record holding content.
func CreateTXTRecord(ctx context.Context, provider Provider, zone, name, content string) (Record, error) {
	return provider.CreateRecord(ctx, zone, Record{
		Type:    RecordTypeTXT,
		Name:    name,
		Content: content,
		TTL:     DefaultTTL,
	})
}

// DeleteRecordsByName lists the records named name and deletes every one of them. It returns
// the deleted records.
func DeleteRecordsByName(ctx context.Context, provider Provider, zone, name string) ([]Record, error) {
	records, err := provider.ListRecords(ctx, zone, name)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if err := provider.DeleteRecord(ctx, zone, record.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// NewProvider builds the provider selected by cfg.DNSProvider.
func NewProvider(cfg *config.Config, client *retryablehttp.Client, logger *slog.Logger) (Provider, error) {
	switch strings.ToLower(cfg.DNSProvider) {
	case "cloudflare":
		return NewCloudflareProvider(cfg.CloudflareAPIURL, cfg.CloudflareAPIToken, client, logger)
	case "aliyun":
		return NewAliyunProvider(cfg.AliyunAccessKeyID, cfg.AliyunAccessKeySecret, cfg.AliyunRegion, logger)
	case "tencent":
		return NewTencentProvider(cfg.TencentSecretID, cfg.TencentSecretKey, logger)
	case "huawei":
		return NewHuaweiProvider(cfg.HuaweiAccessKey, cfg.HuaweiSecretKey, cfg.HuaweiRegion, logger)
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported dns provider %q", cfg.DNSProvider)
	}
}

// upstreamError marks a provider failure as an upstream failure.
func upstreamError(err error, operation string) error {
	return apperrors.Wrapf(apperrors.ErrUpstream, "%s: %v", operation, err)
}

// relativeName strips the zone from a fully qualified name. The zone apex is "@".
func relativeName(name, zone string) string {
	name = strings.TrimSuffix(name, ".")
	zone = strings.TrimSuffix(zone, ".")
	if name == zone {
		return "@"
	}
	return strings.TrimSuffix(name, "."+zone)
}

// fullName joins a relative record name with the zone.
func fullName(rr, zone string) string {
	zone = strings.TrimSuffix(zone, ".")
	if rr == "" || rr == "@" {
		return zone
	}
	return rr + "." + zone
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

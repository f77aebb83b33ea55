package dns

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/huaweicloud/huaweicloud-sdk-go-v3/core/auth/basic"
	huaweidns "github.com/huaweicloud/huaweicloud-sdk-go-v3/services/dns/v2"
	"github.com/huaweicloud/huaweicloud-sdk-go-v3/services/dns/v2/model"
	"github.com/huaweicloud/huaweicloud-sdk-go-v3/services/dns/v2/region"
)

// HuaweiProvider manages record sets through Huawei Cloud DNS. The zone is the domain name;
// the public zone id is looked up once and cached.
type HuaweiProvider struct {
	client *huaweidns.DnsClient
	logger *slog.Logger

	mu      sync.Mutex
	zoneIDs map[string]string
}

// CreateRecord creates a record set holding one value.
func (p *HuaweiProvider) CreateRecord(ctx context.Context, zone string, record Record) (Record, error) {
	zoneID, err := p.zoneID(zone)
	if err != nil {
		return Record{}, err
	}
	if record.TTL == 0 {
		record.TTL = DefaultTTL
	}

	content := record.Content
	if record.Type == RecordTypeTXT {
		content = quoteTXT(content)
	}
	ttl := int32(record.TTL)

	response, err := p.client.CreateRecordSet(&model.CreateRecordSetRequest{
		ZoneId: zoneID,
		Body: &model.CreateRecordSetRequestBody{
			Name:    absoluteName(record.Name),
			Type:    record.Type,
			Records: []string{content},
			Ttl:     &ttl,
		},
	})
	if err != nil {
		return Record{}, upstreamError(err, "failed to create huawei record set")
	}
	record.ID = stringValue(response.Id)

	p.logger.Debug("huawei record set created", slog.String("name", record.Name), slog.String("id", record.ID))
	return record, nil
}

// ListRecords returns the record sets named name.
func (p *HuaweiProvider) ListRecords(ctx context.Context, zone, name string) ([]Record, error) {
	zoneID, err := p.zoneID(zone)
	if err != nil {
		return nil, err
	}

	recordName := absoluteName(name)
	response, err := p.client.ListRecordSetsByZone(&model.ListRecordSetsByZoneRequest{
		ZoneId: zoneID,
		Name:   &recordName,
	})
	if err != nil {
		return nil, upstreamError(err, "failed to list huawei record sets")
	}

	records := []Record{}
	if response.Recordsets == nil {
		return records, nil
	}
	// Name is a fuzzy match.
	for _, set := range *response.Recordsets {
		if stringValue(set.Name) != recordName {
			continue
		}
		record := Record{
			ID:   stringValue(set.Id),
			Type: stringValue(set.Type),
			Name: strings.TrimSuffix(stringValue(set.Name), "."),
		}
		if set.Records != nil && len(*set.Records) > 0 {
			record.Content = strings.Trim((*set.Records)[0], `"`)
		}
		if set.Ttl != nil {
			record.TTL = int(*set.Ttl)
		}
		records = append(records, record)
	}
	return records, nil
}

// DeleteRecord deletes a record set by id.
func (p *HuaweiProvider) DeleteRecord(ctx context.Context, zone, id string) error {
	zoneID, err := p.zoneID(zone)
	if err != nil {
		return err
	}

	if _, err := p.client.DeleteRecordSet(&model.DeleteRecordSetRequest{
		ZoneId:      zoneID,
		RecordsetId: id,
	}); err != nil {
		return upstreamError(err, "failed to delete huawei record set")
	}

	p.logger.Debug("huawei record set deleted", slog.String("id", id))
	return nil
}

func (p *HuaweiProvider) zoneID(zone string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.zoneIDs[zone]; ok {
		return id, nil
	}

	zoneName := absoluteName(zone)
	response, err := p.client.ListPublicZones(&model.ListPublicZonesRequest{Name: &zoneName})
	if err != nil {
		return "", upstreamError(err, "failed to list huawei public zones")
	}
	if response.Zones != nil {
		for _, z := range *response.Zones {
			if stringValue(z.Name) == zoneName && z.Id != nil {
				p.zoneIDs[zone] = *z.Id
				return *z.Id, nil
			}
		}
	}
	return "", upstreamError(fmt.Errorf("zone %s not found", zone), "failed to resolve huawei zone")
}

func absoluteName(name string) string {
	return strings.TrimSuffix(name, ".") + "."
}

func quoteTXT(content string) string {
	if strings.HasPrefix(content, `"`) {
		return content
	}
	return `"` + content + `"`
}

// NewHuaweiProvider creates a Huawei Cloud DNS provider for regionID.
func NewHuaweiProvider(accessKey, secretKey, regionID string, logger *slog.Logger) (*HuaweiProvider, error) {
	credentials := basic.NewCredentialsBuilder().
		WithAk(accessKey).
		WithSk(secretKey).
		Build()

	dnsRegion, err := region.SafeValueOf(regionID)
	if err != nil {
		return nil, fmt.Errorf("invalid huawei region %q: %w", regionID, err)
	}

	hcClient := huaweidns.DnsClientBuilder().
		WithRegion(dnsRegion).
		WithCredential(credentials).
		Build()

	return &HuaweiProvider{
		client:  huaweidns.NewDnsClient(hcClient),
		logger:  logger,
		zoneIDs: map[string]string{},
	}, nil
}

package dns

import (
	"context"
	"fmt"
	"log/slog"

	alidns "github.com/alibabacloud-go/alidns-20150109/v4/client"
	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	"github.com/alibabacloud-go/tea/tea"
)

// AliyunProvider manages records through Alibaba Cloud DNS. The zone is the domain name.
type AliyunProvider struct {
	client *alidns.Client
	logger *slog.Logger
}

// CreateRecord adds a domain record.
func (p *AliyunProvider) CreateRecord(ctx context.Context, zone string, record Record) (Record, error) {
	if record.TTL == 0 {
		record.TTL = DefaultTTL
	}

	response, err := p.client.AddDomainRecord(&alidns.AddDomainRecordRequest{
		DomainName: tea.String(zone),
		RR:         tea.String(relativeName(record.Name, zone)),
		Type:       tea.String(record.Type),
		Value:      tea.String(record.Content),
		TTL:        tea.Int64(int64(record.TTL)),
	})
	if err != nil {
		return Record{}, upstreamError(err, "failed to create aliyun record")
	}
	if response.Body != nil {
		record.ID = tea.StringValue(response.Body.RecordId)
	}

	p.logger.Debug("aliyun record created", slog.String("name", record.Name), slog.String("id", record.ID))
	return record, nil
}

// ListRecords returns the records whose RR matches name exactly.
func (p *AliyunProvider) ListRecords(ctx context.Context, zone, name string) ([]Record, error) {
	rr := relativeName(name, zone)

	response, err := p.client.DescribeDomainRecords(&alidns.DescribeDomainRecordsRequest{
		DomainName: tea.String(zone),
		RRKeyWord:  tea.String(rr),
		PageSize:   tea.Int64(500),
	})
	if err != nil {
		return nil, upstreamError(err, "failed to list aliyun records")
	}

	records := []Record{}
	if response.Body == nil || response.Body.DomainRecords == nil {
		return records, nil
	}
	// RRKeyWord is a fuzzy match.
	for _, r := range response.Body.DomainRecords.Record {
		if tea.StringValue(r.RR) != rr {
			continue
		}
		records = append(records, Record{
			ID:      tea.StringValue(r.RecordId),
			Type:    tea.StringValue(r.Type),
			Name:    fullName(tea.StringValue(r.RR), zone),
			Content: tea.StringValue(r.Value),
			TTL:     int(tea.Int64Value(r.TTL)),
		})
	}
	return records, nil
}

// DeleteRecord deletes a record by id. Record ids are unique across domains.
func (p *AliyunProvider) DeleteRecord(ctx context.Context, zone, id string) error {
	if _, err := p.client.DeleteDomainRecord(&alidns.DeleteDomainRecordRequest{
		RecordId: tea.String(id),
	}); err != nil {
		return upstreamError(err, "failed to delete aliyun record")
	}

	p.logger.Debug("aliyun record deleted", slog.String("id", id))
	return nil
}

// NewAliyunProvider creates an Alibaba Cloud DNS provider for region.
func NewAliyunProvider(accessKeyID, accessKeySecret, region string, logger *slog.Logger) (*AliyunProvider, error) {
	endpoint := "alidns.cn-hangzhou.aliyuncs.com"
	if region != "" {
		endpoint = fmt.Sprintf("alidns.%s.aliyuncs.com", region)
	}

	client, err := alidns.NewClient(&openapi.Config{
		AccessKeyId:     tea.String(accessKeyID),
		AccessKeySecret: tea.String(accessKeySecret),
		Endpoint:        tea.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun dns client: %w", err)
	}

	return &AliyunProvider{client: client, logger: logger}, nil
}

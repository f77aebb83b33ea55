package dns

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	tcerrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	dnspod "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/dnspod/v20210323"
)

const (
	tencentDefaultLine = "默认"
	tencentNoRecords   = "ResourceNotFound.NoDataOfRecord"
)

// TencentProvider manages records through Tencent Cloud DNSPod. The zone is the domain name.
type TencentProvider struct {
	client *dnspod.Client
	logger *slog.Logger
}

// CreateRecord creates a record on the default line.
func (p *TencentProvider) CreateRecord(ctx context.Context, zone string, record Record) (Record, error) {
	if record.TTL == 0 {
		record.TTL = DefaultTTL
	}

	request := dnspod.NewCreateRecordRequest()
	request.Domain = common.StringPtr(zone)
	request.SubDomain = common.StringPtr(relativeName(record.Name, zone))
	request.RecordType = common.StringPtr(record.Type)
	request.RecordLine = common.StringPtr(tencentDefaultLine)
	request.Value = common.StringPtr(record.Content)
	request.TTL = common.Uint64Ptr(uint64(record.TTL))

	response, err := p.client.CreateRecordWithContext(ctx, request)
	if err != nil {
		return Record{}, upstreamError(err, "failed to create tencent record")
	}
	if response.Response != nil && response.Response.RecordId != nil {
		record.ID = strconv.FormatUint(*response.Response.RecordId, 10)
	}

	p.logger.Debug("tencent record created", slog.String("name", record.Name), slog.String("id", record.ID))
	return record, nil
}

// ListRecords returns the records of the sub domain.
func (p *TencentProvider) ListRecords(ctx context.Context, zone, name string) ([]Record, error) {
	request := dnspod.NewDescribeRecordListRequest()
	request.Domain = common.StringPtr(zone)
	request.Subdomain = common.StringPtr(relativeName(name, zone))

	records := []Record{}
	response, err := p.client.DescribeRecordListWithContext(ctx, request)
	if err != nil {
		var sdkErr *tcerrors.TencentCloudSDKError
		if errors.As(err, &sdkErr) && sdkErr.Code == tencentNoRecords {
			return records, nil
		}
		return nil, upstreamError(err, "failed to list tencent records")
	}

	if response.Response == nil {
		return records, nil
	}
	for _, r := range response.Response.RecordList {
		if r.RecordId == nil {
			continue
		}
		record := Record{
			ID:   strconv.FormatUint(*r.RecordId, 10),
			Name: fullName(stringValue(r.Name), zone),
			Type: stringValue(r.Type),
		}
		record.Content = stringValue(r.Value)
		if r.TTL != nil {
			record.TTL = int(*r.TTL)
		}
		records = append(records, record)
	}
	return records, nil
}

// DeleteRecord deletes a record by id.
func (p *TencentProvider) DeleteRecord(ctx context.Context, zone, id string) error {
	recordID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid tencent record id %q: %w", id, err)
	}

	request := dnspod.NewDeleteRecordRequest()
	request.Domain = common.StringPtr(zone)
	request.RecordId = common.Uint64Ptr(recordID)

	if _, err := p.client.DeleteRecordWithContext(ctx, request); err != nil {
		return upstreamError(err, "failed to delete tencent record")
	}

	p.logger.Debug("tencent record deleted", slog.String("id", id))
	return nil
}

// NewTencentProvider creates a Tencent Cloud DNSPod provider.
func NewTencentProvider(secretID, secretKey string, logger *slog.Logger) (*TencentProvider, error) {
	credential := common.NewCredential(secretID, secretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "dnspod.tencentcloudapi.com"

	client, err := dnspod.NewClient(credential, "", cpf)
	if err != nil {
		return nil, fmt.Errorf("failed to create tencent dnspod client: %w", err)
	}

	return &TencentProvider{client: client, logger: logger}, nil
}

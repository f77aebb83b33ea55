package dto

import (
	"time"

	"github.com/samber/lo"

	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
)

// InstanceResponse represents a hosting instance in API responses.
type InstanceResponse struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain"`
	DomainCNAME string    `json:"domainCname"`
	Certificate string    `json:"certificate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MapInstanceToResponse converts a domain instance to an API response.
func MapInstanceToResponse(instance *hostingDomain.Instance, hostingDomainName string) InstanceResponse {
	return InstanceResponse{
		UUID:        instance.UUID.String(),
		Name:        instance.Name,
		Domain:      instance.Domain,
		DomainCNAME: instance.CNAMEName(hostingDomainName),
		Certificate: instance.CertificateUUID.String(),
		CreatedAt:   instance.CreatedAt,
	}
}

// MapInstancesToResponse converts domain instances to API responses.
func MapInstancesToResponse(instances []*hostingDomain.Instance, hostingDomainName string) []InstanceResponse {
	return lo.Map(instances, func(instance *hostingDomain.Instance, _ int) InstanceResponse {
		return MapInstanceToResponse(instance, hostingDomainName)
	})
}

// StorageBackendResponse represents a storage backend.
type StorageBackendResponse struct {
	BucketName      string `json:"bucketName"`
	FilePrefix      string `json:"filePrefix"`
	RedirectToIndex bool   `json:"redirectToIndex"`
}

// BackendResponse represents a hosting backend in API responses.
type BackendResponse struct {
	UUID      string                  `json:"uuid"`
	Type      string                  `json:"type"`
	Storage   *StorageBackendResponse `json:"storage,omitempty"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// MapBackendToResponse converts a domain backend to an API response.
func MapBackendToResponse(backend *hostingDomain.Backend) BackendResponse {
	response := BackendResponse{
		UUID:      backend.UUID.String(),
		Type:      string(backend.Type),
		UpdatedAt: backend.UpdatedAt,
	}
	if backend.Storage != nil {
		response.Storage = &StorageBackendResponse{
			BucketName:      backend.Storage.BucketName,
			FilePrefix:      backend.Storage.FilePrefix,
			RedirectToIndex: backend.Storage.RedirectToIndex,
		}
	}
	return response
}

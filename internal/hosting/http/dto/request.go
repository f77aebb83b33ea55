// Package dto provides data transfer objects for the hosting HTTP API.
package dto

import (
	"errors"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// CreateInstanceRequest contains the parameters for creating a hosting instance.
type CreateInstanceRequest struct {
	Name        string `json:"name"`
	Certificate string `json:"certificate"`
	Domain      string `json:"domain"`
}

// Validate checks if the create instance request is valid.
func (r *CreateInstanceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&r.Certificate, validation.Required, isUUID),
		validation.Field(&r.Domain, customValidation.DomainName, validation.Length(0, 255)),
	)
}

var isUUID = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
})

// StorageBackendRequest configures a storage backend.
type StorageBackendRequest struct {
	BucketName      string `json:"bucketName"`
	FilePrefix      string `json:"filePrefix"`
	RedirectToIndex bool   `json:"redirectToIndex"`
}

// PutBackendRequest contains the backend of a hosting instance. Type selects which variant
// must be present.
type PutBackendRequest struct {
	Type    string                 `json:"type"`
	Storage *StorageBackendRequest `json:"storage"`
}

// ToDomain converts the request to a domain backend. Unknown types are rejected by the
// domain validation.
func (r *PutBackendRequest) ToDomain() *hostingDomain.Backend {
	backend := &hostingDomain.Backend{Type: hostingDomain.BackendType(r.Type)}
	if r.Storage != nil {
		backend.Storage = &hostingDomain.StorageBackend{
			BucketName:      r.Storage.BucketName,
			FilePrefix:      r.Storage.FilePrefix,
			RedirectToIndex: r.Storage.RedirectToIndex,
		}
	}
	return backend
}

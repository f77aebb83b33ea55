// Package dto provides data transfer objects for the storage HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// CreateBucketRequest contains the parameters for creating a bucket.
type CreateBucketRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"isPublic"`
}

// Validate checks if the create bucket request is valid.
func (r *CreateBucketRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.BucketName,
			validation.Length(3, 63),
		),
	)
}

// UpdateBucketRequest contains the mutable bucket attributes.
type UpdateBucketRequest struct {
	IsPublic *bool `json:"isPublic"`
}

// Validate checks if the update bucket request is valid.
func (r *UpdateBucketRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IsPublic, validation.NotNil),
	)
}

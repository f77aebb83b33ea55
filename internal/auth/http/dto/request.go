// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// CreateAPIKeyRequest contains the parameters for issuing an API key.
type CreateAPIKeyRequest struct {
	Memo string `json:"memo"`
}

// Validate checks if the create API key request is valid.
func (r *CreateAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Memo, validation.Length(0, 255)),
	)
}

// PermissionRequest names a permission to grant or revoke.
type PermissionRequest struct {
	Key string `json:"key"`
}

// Validate checks if the permission request is valid.
func (r *PermissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key,
			validation.Required,
			customValidation.NotBlank,
			customValidation.PermissionKey,
			validation.Length(1, 255),
		),
	)
}

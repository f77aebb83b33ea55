// Package dto provides data transfer objects for the certificate HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// MaxDomains caps the number of domains of one certificate request.
const MaxDomains = 100

// CreateCertificateRequest contains the parameters for requesting a certificate.
type CreateCertificateRequest struct {
	Email   string   `json:"email"`
	Domains []string `json:"domains"`
}

// Validate checks if the create certificate request is valid.
func (r *CreateCertificateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
			validation.Length(1, 255),
		),
		validation.Field(&r.Domains,
			validation.Required,
			validation.Length(1, MaxDomains),
			validation.Each(
				validation.Required,
				customValidation.NotBlank,
				customValidation.DomainName,
			),
		),
	)
}

package grpc

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// CertificateRequest identifies the certificate a worker is issuing.
type CertificateRequest struct {
	UUID string `json:"uuid"`
}

// RegisterClientResponse carries the ACME account contact.
type RegisterClientResponse struct {
	Email string `json:"email"`
}

// FetchDomainsResponse carries the domains to validate and the challenge token.
type FetchDomainsResponse struct {
	Domains  []string `json:"domains"`
	DNSToken string   `json:"dnsToken"`
}

// RegisterChallengesRequest carries the TXT contents of every DNS-01 challenge.
type RegisterChallengesRequest struct {
	UUID    string   `json:"uuid"`
	Records []string `json:"records"`
}

// Validate checks if the register challenges request is valid.
func (r *RegisterChallengesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Records,
			validation.Required,
			validation.Each(validation.Required, customValidation.NotBlank),
		),
	)
}

// VerifiedCallbackRequest carries the PEM artifacts of an issued certificate.
type VerifiedCallbackRequest struct {
	UUID        string `json:"uuid"`
	CSR         []byte `json:"csr"`
	PrivateKey  []byte `json:"privateKey"`
	Certificate []byte `json:"certificate"`
}

// Validate checks if the verified callback request is valid.
func (r *VerifiedCallbackRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CSR, validation.Required, customValidation.PEM),
		validation.Field(&r.PrivateKey, validation.Required, customValidation.PEM),
		validation.Field(&r.Certificate, validation.Required, customValidation.PEM),
	)
}

// VerifiedCallbackResponse describes the stored provision.
type VerifiedCallbackResponse struct {
	Revision int    `json:"revision"`
	ExpireAt string `json:"expireAt"`
}

// Empty is returned by RPCs without a result.
type Empty struct{}

package dto

import (
	"time"

	"github.com/samber/lo"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
)

// CertificateResponse represents a certificate in API responses.
type CertificateResponse struct {
	UUID      string    `json:"uuid"`
	State     string    `json:"state"`
	Domains   []string  `json:"domains"`
	DNSToken  string    `json:"dnsToken"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapCertificateToResponse converts a domain certificate to an API response.
func MapCertificateToResponse(cert *certsDomain.Certificate) CertificateResponse {
	domains := cert.Domains
	if domains == nil {
		domains = []string{}
	}
	return CertificateResponse{
		UUID:      cert.UUID.String(),
		State:     string(cert.State),
		Domains:   domains,
		DNSToken:  cert.DNSToken,
		CreatedAt: cert.CreatedAt,
	}
}

// ProvisionResponse represents a certificate provision in API responses. The artifacts are
// PEM text.
type ProvisionResponse struct {
	Revision    int       `json:"revision"`
	CSR         string    `json:"csr"`
	Certificate string    `json:"certificate"`
	PrivateKey  string    `json:"privateKey"`
	ExpireAt    time.Time `json:"expireAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MapProvisionToResponse converts a domain provision to an API response.
func MapProvisionToResponse(provision *certsDomain.Provision) ProvisionResponse {
	return ProvisionResponse{
		Revision:    provision.Revision,
		CSR:         string(provision.CSR),
		Certificate: string(provision.Certificate),
		PrivateKey:  string(provision.PrivateKey),
		ExpireAt:    provision.ExpireAt,
		CreatedAt:   provision.CreatedAt,
	}
}

// MapCertificatesToResponse converts domain certificates to API responses.
func MapCertificatesToResponse(certs []*certsDomain.Certificate) []CertificateResponse {
	return lo.Map(certs, func(cert *certsDomain.Certificate, _ int) CertificateResponse {
		return MapCertificateToResponse(cert)
	})
}

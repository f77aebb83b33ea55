package domain

import (
	"github.com/lynlab/luppiter/internal/errors"
)

// Certificate errors.
var (
	// ErrCertificateNotFound indicates no certificate exists for the UUID.
	ErrCertificateNotFound = errors.Wrap(errors.ErrNotFound, "certificate not found")

	// ErrInvalidTransition indicates a state change that would move the certificate backwards.
	ErrInvalidTransition = errors.Wrap(errors.ErrConflict, "invalid certificate state transition")

	// ErrProvisionConflict indicates a provision revision was already taken.
	ErrProvisionConflict = errors.Wrap(errors.ErrConflict, "certificate provision revision already exists")

	// ErrProvisionNotFound indicates the certificate has no provision yet.
	ErrProvisionNotFound = errors.Wrap(errors.ErrNotFound, "certificate provision not found")

	// ErrCertificateNotOwned indicates the certificate belongs to another member.
	ErrCertificateNotOwned = errors.Wrap(errors.ErrUnauthorized, "invalid_uuid")

	// ErrInvalidChallenge indicates a challenge record without content.
	ErrInvalidChallenge = errors.Wrap(errors.ErrInvalidInput, "challenge record content is required")
)

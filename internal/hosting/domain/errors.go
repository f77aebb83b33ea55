package domain

import (
	"github.com/lynlab/luppiter/internal/errors"
)

// Hosting errors.
var (
	// ErrInstanceNotFound indicates no instance exists for the UUID.
	ErrInstanceNotFound = errors.Wrap(errors.ErrNotFound, "hosting instance not found")

	// ErrInstanceNotOwned indicates the instance is missing or belongs to another member.
	ErrInstanceNotOwned = errors.Wrap(errors.ErrUnauthorized, "invalid_uuid")

	// ErrDuplicatedInstance indicates the instance name is taken.
	ErrDuplicatedInstance = errors.Wrap(errors.ErrConflict, "duplicated_entry")

	// ErrInvalidCertificate indicates the certificate is unknown, not the member's or does not
	// cover the requested domain.
	ErrInvalidCertificate = errors.Wrap(errors.ErrInvalidInput, "invalid_certificate")

	// ErrBackendNotFound indicates the instance has no backend yet.
	ErrBackendNotFound = errors.Wrap(errors.ErrNotFound, "hosting backend not found")

	// ErrInvalidBackend indicates an unknown backend type, a missing variant or a bucket the
	// member does not own.
	ErrInvalidBackend = errors.Wrap(errors.ErrInvalidInput, "invalid_backend")
)

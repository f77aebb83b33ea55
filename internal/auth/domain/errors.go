package domain

import (
	"github.com/lynlab/luppiter/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrMemberNotFound indicates no member exists for the identity.
	ErrMemberNotFound = errors.Wrap(errors.ErrNotFound, "member not found")

	// ErrAPIKeyNotFound indicates an API key with the given value was not found.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrPermissionNotFound indicates the permission string is not in the catalog.
	ErrPermissionNotFound = errors.Wrap(errors.ErrNotFound, "permission not found")

	// ErrInvalidCredential covers a missing or unresolvable credential.
	ErrInvalidCredential = errors.Wrap(errors.ErrUnauthorized, "invalid credential")

	// ErrPermissionDenied indicates the credential lacks the requested permission.
	ErrPermissionDenied = errors.Wrap(errors.ErrUnauthorized, "permission denied")
)

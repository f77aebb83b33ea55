// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/pem"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/lynlab/luppiter/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// domainRegex accepts host names and a leading "*." wildcard label.
	domainRegex = regexp.MustCompile(`^(\*\.)?([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,63}$`)

	// bucketNameRegex follows S3-like naming: lowercase letters, digits and dashes.
	bucketNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{1,61}[a-z0-9]$`)

	// permissionRegex matches one or more "::" separated segments.
	permissionRegex = regexp.MustCompile(`^[A-Za-z*]+(::[A-Za-z*]+)*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// DomainName validates a fully qualified domain name, optionally wildcarded.
var DomainName = validation.NewStringRuleWithError(
	func(s string) bool {
		return len(s) <= 253 && domainRegex.MatchString(s)
	},
	validation.NewError("validation_domain_name", "must be a valid domain name"),
)

// BucketName validates a storage bucket name.
var BucketName = validation.NewStringRuleWithError(
	func(s string) bool {
		return bucketNameRegex.MatchString(s)
	},
	validation.NewError("validation_bucket_name", "must be 3-63 lowercase letters, digits or dashes"),
)

// PermissionKey validates the shape of a permission string such as "Storage::Read".
var PermissionKey = validation.NewStringRuleWithError(
	func(s string) bool {
		return permissionRegex.MatchString(s)
	},
	validation.NewError("validation_permission_key", "must be a '::' separated permission"),
)

// PEM validates that a byte slice holds at least one PEM block.
var PEM = validation.By(func(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return validation.NewError("validation_pem_type", "must be a byte slice")
	}
	if len(b) == 0 {
		return nil // Let Required handle empty values
	}
	if block, _ := pem.Decode(b); block == nil {
		return validation.NewError("validation_pem", "must be PEM encoded")
	}
	return nil
})

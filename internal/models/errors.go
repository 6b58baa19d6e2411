package models

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// status codes; stores map driver-level failures onto them with %w.
var (
	// ErrInvalidCredentials means the identity backend rejected an
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrBackendUnavailable means a remote collaborator could not be
	// reached at all.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound means the requested row does not exist. Reads that
	// treat absence as a valid empty result never return it.
	ErrNotFound = errors.New("not found")
)

// ValidationError represents an error due to invalid or malformed input.
// Supports errors.As.
type ValidationError struct {
	msg string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a new ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

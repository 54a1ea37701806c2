package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrUnauthorized is returned when an operation requires a caller
	// identity and none was supplied.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUserRejected is returned when the wallet user or its security
	// policy declined a transaction. A simulated retry may be offered.
	ErrUserRejected = errors.New("rejected by wallet")
	// ErrConfiguration is returned when a required upstream is not
	// configured.
	ErrConfiguration = errors.New("service not configured")
)

// ValidationError represents a validation error with a field name.
// Payload, when set, is the offending input echoed back to the caller.
type ValidationError struct {
	Field   string
	Message string
	Payload any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) match validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

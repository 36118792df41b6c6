// Package shared provides shared domain types and utilities.
package shared

import (
	"errors"
	"fmt"
)

// Domain errors. Each sentinel marks one category of run failure; the
// CLI maps every category to a distinct exit code.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication rejected")
	ErrNotFound       = errors.New("not found")
	ErrNetwork        = errors.New("network failure")
	ErrTimeout        = errors.New("deadline exceeded")
	ErrDataFormat     = errors.New("malformed data")
	ErrCanceled       = errors.New("canceled")
)

// DomainError represents a domain-specific error.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNetwork checks if the error is a transport-level error.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsTimeout checks if the error is a deadline error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsDataFormat checks if the error is a data format error.
func IsDataFormat(err error) bool {
	return errors.Is(err, ErrDataFormat)
}

// IsCanceled checks if the error is a cancellation error.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

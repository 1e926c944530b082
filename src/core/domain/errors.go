// Package domain contains the jokes domain model: entities, validation rules
// and the error taxonomy shared by every layer.
// This package has no dependencies outside the standard library.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when submitted data is malformed or unsupported.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when an identity is required but absent.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the identity does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a unique resource already exists.
	ErrConflict = errors.New("conflict")
)

// DomainError wraps a base error with a human-readable message.
// Message is what end users see; Base selects the status code.
type DomainError struct {
	Base    error
	Message string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Base.Error(), e.Message)
	}
	return e.Base.Error()
}

// Unwrap returns the base error for errors.Is/As support.
func (e *DomainError) Unwrap() error {
	return e.Base
}

// NewNotFoundError creates a not found error carrying a user-facing message.
func NewNotFoundError(message string) *DomainError {
	return &DomainError{Base: ErrNotFound, Message: message}
}

// NewBadRequestError creates an invalid input error not tied to a single field.
func NewBadRequestError(message string) *DomainError {
	return &DomainError{Base: ErrInvalidInput, Message: message}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *DomainError {
	return &DomainError{Base: ErrConflict, Message: message}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Base: ErrForbidden, Message: message}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Base: ErrUnauthorized, Message: message}
}

// Message returns the user-facing message of err, falling back to err.Error().
func Message(err error) string {
	var de *DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is an invalid input error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnauthorized checks if an error is unauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

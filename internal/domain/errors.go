// Package domain contains the types and errors shared by the application layer.
// Domain errors describe what went wrong, NOT which HTTP status to send.
// Adapters map them to transport responses.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as writing a reserved key.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates input validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates a required component is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrIllegalState indicates request-scoped state was accessed while no
	// request context is bound to the current execution unit.
	ErrIllegalState = errors.New("illegal state")
)

// IllegalStateError reports which request context accessor was called outside
// the scope of a dispatched request.
type IllegalStateError struct {
	Accessor string
}

// Error implements the error interface.
func (e *IllegalStateError) Error() string {
	if e.Accessor != "" {
		return fmt.Sprintf("request context accessed outside request scope: %s", e.Accessor)
	}

	return "request context accessed outside request scope"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *IllegalStateError) Unwrap() error {
	return ErrIllegalState
}

// NewIllegalStateError creates an illegal state error for the named accessor.
func NewIllegalStateError(accessor string) error {
	return &IllegalStateError{Accessor: accessor}
}

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity string
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Component string
	Reason    string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s unavailable: %s", e.Component, e.Reason)
	}

	return e.Component + " unavailable"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(component, reason string) error {
	return &UnavailableError{Component: component, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsIllegalState checks if an error reports access outside a request scope.
func IsIllegalState(err error) bool {
	return errors.Is(err, ErrIllegalState)
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrValidation        = errors.New("validation error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrHasDependents     = errors.New("has dependent records")
	ErrTransientStore    = errors.New("transient store failure")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// InvalidReferenceError reports a caller-supplied foreign key that does not
// resolve to an existing row. It carries the field name so transports can
// attribute the failure instead of surfacing an opaque constraint violation.
type InvalidReferenceError struct {
	Field string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid reference: %s does not resolve to an existing row", e.Field)
}

func (e *InvalidReferenceError) Unwrap() error { return ErrValidation }

// NewInvalidReference creates an InvalidReferenceError for the given field.
func NewInvalidReference(field string) *InvalidReferenceError {
	return &InvalidReferenceError{Field: field}
}

// DuplicateSlotError reports two guardians competing for the same
// relationship slot on one child.
type DuplicateSlotError struct {
	Slot RelationshipSlot
}

func (e *DuplicateSlotError) Error() string {
	return fmt.Sprintf("duplicate guardian slot: %s", e.Slot)
}

func (e *DuplicateSlotError) Unwrap() error { return ErrValidation }

// BlockedError reports a lifecycle operation refused because dependent rows
// still reference the target entity.
type BlockedError struct {
	EntityType EntityType
	Reason     string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s blocked: %s", e.EntityType, e.Reason)
}

func (e *BlockedError) Unwrap() error { return ErrHasDependents }

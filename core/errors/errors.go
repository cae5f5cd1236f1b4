// Package errors provides standardized error types and helpers for the stannote codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates an annotation or attribute was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists indicates an item with the same identifier already exists
	ErrAlreadyExists = errors.New("already exists")
	// ErrReservedLabel indicates an attempt to use a reserved label
	ErrReservedLabel = errors.New("reserved label")
	// ErrTypeMismatch indicates a serialized record does not match the expected type
	ErrTypeMismatch = errors.New("type mismatch")
)

// NotFoundError represents a failed identifier lookup with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "annotation", "attribute", "document")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Unwrap exposes both the sentinel and the underlying cause, so the error
// stays classifiable as not-found even when it wraps another error.
func (e *NotFoundError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNotFound, e.Err}
	}
	return []error{ErrNotFound}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Unwrap exposes both the sentinel and the underlying cause, so the error
// stays classifiable as a validation failure even when it wraps another
// error.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// DuplicateError represents an insertion rejected because the identifier is
// already present in the target container
type DuplicateError struct {
	Resource string // Type of resource (e.g., "annotation", "attribute")
	ID       string // Identifier that is already present
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with uid %s already exists", e.Resource, e.ID)
}

func (e *DuplicateError) Unwrap() error {
	return ErrAlreadyExists
}

// ReservedLabelError represents an insertion rejected because the label is
// reserved by the owning document
type ReservedLabelError struct {
	Label string // The reserved label
}

func (e *ReservedLabelError) Error() string {
	return fmt.Sprintf("cannot add annotation with reserved label %q", e.Label)
}

func (e *ReservedLabelError) Unwrap() error {
	return ErrReservedLabel
}

// TypeMismatchError represents a serialized record whose discriminator does
// not match the type it is being decoded into
type TypeMismatchError struct {
	Want string // Expected discriminator
	Got  string // Discriminator found in the record
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("record has class name %q, expected %q", e.Got, e.Want)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// Helper functions for checking error types

// IsNotFound returns true if the error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput returns true if the error is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAlreadyExists returns true if the error is or wraps ErrAlreadyExists
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsReservedLabel returns true if the error is or wraps ErrReservedLabel
func IsReservedLabel(err error) bool {
	return errors.Is(err, ErrReservedLabel)
}

// IsTypeMismatch returns true if the error is or wraps ErrTypeMismatch
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

// NewValidation creates a ValidationError with just a message.
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// NewValidationf creates a ValidationError with a formatted message.
func NewValidationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

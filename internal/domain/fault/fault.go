// Package fault defines the error taxonomy shared by the stores and the
// application layer: validation failures (caller's malformed input),
// reference failures (dangling foreign keys) and storage failures
// (underlying persistence errors, possibly transient).
package fault

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing required input.
// It is always the caller's fault and is never retried.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ReferenceError reports an operation that named a person or activity
// that does not exist.
type ReferenceError struct {
	Message string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return e.Message
}

// Referencef builds a ReferenceError with a formatted message.
func Referencef(format string, args ...any) error {
	return &ReferenceError{Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps an underlying persistence failure. It is surfaced to
// the caller without retry; Unwrap exposes the driver error for inspection.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the wrapped driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError for the given operation.
// Returns nil when err is nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsReference reports whether err is (or wraps) a ReferenceError.
func IsReference(err error) bool {
	var r *ReferenceError
	return errors.As(err, &r)
}

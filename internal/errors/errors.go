// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store not initialized")
	ErrInvalidState     = errors.New("invalid trade state")
)

// SerializationError reports a stored value that could not be decoded: a
// malformed timestamp, an unknown enum tag, or a corrupt factor mapping.
type SerializationError struct {
	Entity string
	Column string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error [%s.%s]: %v", e.Entity, e.Column, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// NewSerializationError creates a new SerializationError.
func NewSerializationError(entity, column string, err error) *SerializationError {
	return &SerializationError{
		Entity: entity,
		Column: column,
		Err:    err,
	}
}

// ConstraintError reports a write that violated a storage constraint, such
// as an update addressed to an identifier with no row behind it.
type ConstraintError struct {
	Entity string
	ID     int64
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation [%s %d]: %s", e.Entity, e.ID, e.Reason)
}

// NewConstraintError creates a new ConstraintError.
func NewConstraintError(entity string, id int64, reason string) *ConstraintError {
	return &ConstraintError{
		Entity: entity,
		ID:     id,
		Reason: reason,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

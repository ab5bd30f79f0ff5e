package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found, locally or on a peer.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness rule was violated.
	ErrDuplicate = errors.New("duplicate resource")
	// ErrInvalidTransition indicates an illegal order status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// NotFoundError carries the kind and identifier of the missing entity.
type NotFoundError struct {
	Kind  string
	Field string
	Value interface{}
}

// NotFound builds a NotFoundError for the given entity kind and identifier.
func NotFound(kind, field string, value interface{}) *NotFoundError {
	return &NotFoundError{Kind: kind, Field: field, Value: value}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: '%v'", e.Kind, e.Field, e.Value)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateError carries the kind and offending field of a uniqueness violation.
type DuplicateError struct {
	Kind    string
	Field   string
	Value   interface{}
	Message string
}

// Duplicate builds a DuplicateError for a unique-field violation.
func Duplicate(kind, field string, value interface{}) *DuplicateError {
	return &DuplicateError{Kind: kind, Field: field, Value: value}
}

// DuplicateWithMessage builds a DuplicateError with a fixed message.
func DuplicateWithMessage(kind, message string) *DuplicateError {
	return &DuplicateError{Kind: kind, Message: message}
}

func (e *DuplicateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists with %s: '%v'", e.Kind, e.Field, e.Value)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// ValidationError maps field names to human-readable messages for
// structurally invalid input.
type ValidationError map[string]string

func (e ValidationError) Error() string { return "invalid input data" }

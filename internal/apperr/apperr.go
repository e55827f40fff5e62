// Package apperr defines the error kinds surfaced by the ledger core.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers deciding how to respond.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindStorage    Kind = "STORAGE_ERROR"
)

// Sentinels for errors.Is checks. Matching is by kind only.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrStorage    = &Error{Kind: KindStorage}
)

// Error is the structured error returned by the service layer.
type Error struct {
	Kind    Kind   // Machine-readable kind
	Field   string // Offending input field, validation errors only
	Message string // Human-readable message, safe to show for validation and not-found
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Validation reports malformed caller input on a named field.
func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Field:   field,
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

// NotFound reports a missing entity by id.
func NotFound(entity string, id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %d not found", entity, id),
	}
}

// Storage wraps a persistence failure for the named operation.
func Storage(op string, cause error) *Error {
	return &Error{
		Kind:    KindStorage,
		Message: op,
		Cause:   cause,
	}
}

// KindOf returns the kind of err, or KindStorage for errors not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

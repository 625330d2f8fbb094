// Package apperr defines the error taxonomy carried from the service layer
// to the HTTP boundary. Services return *Error values; handlers and the
// Fiber error handler match them with errors.As or KindOf and never invent
// status codes of their own.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the boundary.
type Kind int

const (
	// KindInternal is the fallback for store, mailer, and other downstream
	// failures. It is the zero value on purpose: an unclassified error is
	// treated as internal.
	KindInternal Kind = iota
	// KindValidation marks malformed or missing input.
	KindValidation
	// KindAuth marks bad credentials or a missing/invalid/expired session.
	KindAuth
	// KindForbidden marks a role or secret mismatch.
	KindForbidden
	// KindNotFound marks entity absence.
	KindNotFound
	// KindConflict marks a uniqueness or concurrent-update violation.
	KindConflict
)

// Error is a classified failure with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// Validation builds a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Auth builds a KindAuth error.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Forbidden builds a KindForbidden error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps a downstream failure with a caller-facing message.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message of err, or a generic one when
// err carries no *Error. Internal causes are never leaked to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

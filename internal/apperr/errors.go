// Package apperr defines the error kinds surfaced to API clients and their
// mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for clients.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
	KindInvalidTransition
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindInvalidTransition:
		return "invalid_transition"
	default:
		return "internal"
	}
}

// Error carries a Kind, a client-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind, e.g. errors.Is(err, apperr.Forbidden("")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func Unauthenticated(msg string) *Error { return newError(KindUnauthenticated, msg, nil) }
func Forbidden(msg string) *Error       { return newError(KindForbidden, msg, nil) }
func NotFound(msg string) *Error        { return newError(KindNotFound, msg, nil) }
func Conflict(msg string) *Error        { return newError(KindConflict, msg, nil) }
func Validation(msg string) *Error      { return newError(KindValidation, msg, nil) }
func InvalidTransition(msg string) *Error {
	return newError(KindInvalidTransition, msg, nil)
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, cause error) *Error {
	return newError(kind, msg, cause)
}

// Internal wraps an unexpected failure. The cause is logged, never returned to clients.
func Internal(msg string, cause error) *Error {
	return newError(KindInternal, msg, cause)
}

// KindOf reports the kind of err; errors that carry no kind are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps a kind onto the status code returned to clients.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidTransition:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

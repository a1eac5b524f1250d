// Package apperr provides coded domain errors shared by the service, pipeline,
// and HTTP layers.
//
// Services return typed errors; handlers map Code to an HTTP status. Storage
// failures carry their cause for server-side logging but are genericized
// before they reach a client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library helpers so callers need a single errors import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Code is a machine-readable error class.
type Code string

const (
	CodeValidation      Code = "VALIDATION"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeStorage         Code = "STORAGE"
	CodeInternal        Code = "INTERNAL"
)

// HTTPStatus returns the response status for an error class.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status for this error.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// Sentinels for errors.Is checks.
var (
	ErrValidation      = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated, Message: "authentication required"}
	ErrForbidden       = &Error{Code: CodeForbidden, Message: "access denied"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict        = &Error{Code: CodeConflict, Message: "conflict"}
	ErrStorage         = &Error{Code: CodeStorage, Message: "storage failure"}
)

// Validation returns a user-fixable input error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationFields returns a validation error carrying per-field reasons.
func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: fields}
}

// Unauthenticated means no usable credentials were presented. Callers render
// "log in" rather than "access denied".
func Unauthenticated(msg string) *Error {
	if msg == "" {
		msg = "authentication required"
	}
	return &Error{Code: CodeUnauthenticated, Message: msg}
}

// Forbidden means credentials were presented but do not grant the operation.
func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "access denied"
	}
	return &Error{Code: CodeForbidden, Message: msg}
}

// NotFound reports a missing row by table and id.
func NotFound(table string, id int64) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %d not found", table, id)}
}

// NotFoundMsg reports a missing resource with a free-form message.
func NotFoundMsg(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Conflict reports a uniqueness or state conflict.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Storage wraps an infrastructure failure. The message shown to clients is
// generic; cause is preserved for logs.
func Storage(cause error) *Error {
	return &Error{Code: CodeStorage, Message: "service temporarily unavailable, retry shortly", cause: cause}
}

// Internal wraps an unexpected failure with a genericized message.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: cause}
}

// IsDomain reports whether err is (or wraps) a coded domain error.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// FromStore classifies an arbitrary store error: domain errors pass through,
// anything else becomes a storage error.
func FromStore(err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	return Storage(err)
}

// Package errors provides coded domain errors for the bookmark store.
//
// Store getters report absence with the comma-ok idiom; mutators return
// one of the errors below so callers can branch with errors.Is:
//
//	if errors.Is(err, errors.ErrInvalidHierarchy) {
//	    // reparenting would create a cycle
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeMalformedLocation Code = "MALFORMED_LOCATION"
	CodeInvalidHierarchy  Code = "INVALID_HIERARCHY"
	CodeValidation        Code = "VALIDATION"
	CodePersistence       Code = "PERSISTENCE"
	CodeInternal          Code = "INTERNAL"
)

// HTTPStatus maps a code to the status used by the tool surface.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMalformedLocation, CodeValidation:
		return http.StatusBadRequest
	case CodeInvalidHierarchy:
		return http.StatusConflict
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

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrMalformedLocation = &Error{Code: CodeMalformedLocation, Message: "malformed location"}
	ErrInvalidHierarchy  = &Error{Code: CodeInvalidHierarchy, Message: "invalid hierarchy"}
	ErrValidation        = &Error{Code: CodeValidation, Message: "validation error"}
	ErrPersistence       = &Error{Code: CodePersistence, Message: "persistence failure"}
	ErrInternal          = &Error{Code: CodeInternal, Message: "internal error"}
)

// NotFound creates a not found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// MalformedLocation creates a location grammar error.
func MalformedLocation(format string, args ...any) *Error {
	return &Error{Code: CodeMalformedLocation, Message: fmt.Sprintf(format, args...)}
}

// InvalidHierarchy creates a parent/child integrity error.
func InvalidHierarchy(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidHierarchy, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with per-field details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Persistence wraps a storage error.
func Persistence(msg string, err error) *Error {
	return &Error{Code: CodePersistence, Message: msg, cause: err}
}

// Internal wraps an unexpected error.
func Internal(msg string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: err}
}

// CodeOf extracts the code of err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

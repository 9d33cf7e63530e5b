// Package errors provides structured error types for jengatower.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can react
// to the category of a failure without string matching:
//   - INVALID_*: input validation failures (manifest text, repository refs)
//   - *_NOT_FOUND: the dependency list could not be obtained
//   - NETWORK_ERROR, CANCELLED: transport and lifecycle failures
//   - INTERNAL_ERROR: everything else
//
// Only failures to obtain the dependency list are terminal for an analysis.
// Per-package advisory lookup failures are recovered where they happen and
// never surface as an *Error.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidManifest, "dependencies must be an object")
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch %s", url)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidRepo     Code = "INVALID_REPO"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidLayout   Code = "INVALID_LAYOUT"

	// Resource not found errors
	ErrCodeManifestNotFound Code = "MANIFEST_NOT_FOUND"

	// Transport and lifecycle errors
	ErrCodeNetwork   Code = "NETWORK_ERROR"
	ErrCodeCancelled Code = "CANCELLED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Context cancellation and deadline errors map to [ErrCodeCancelled] even when
// they are not wrapped in an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeCancelled
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidManifest, ErrCodeInvalidRepo,
		ErrCodeInvalidPackage, ErrCodeInvalidLayout:
		return http.StatusBadRequest
	case ErrCodeManifestNotFound:
		return http.StatusNotFound
	case ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Package apperr provides structured error types for the routecast application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, library, and collector
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Usage
//
//	err := apperr.New(apperr.CodeUnresolvableMap, "no path to a global frame for %s", id)
//	if apperr.Is(err, apperr.CodeUnresolvableMap) {
//	    // Fall back to local coordinates
//	}
//
//	// Wrap existing errors
//	err := apperr.Wrap(apperr.CodeNetwork, origErr, "failed to reach %s", url)
package apperr

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input and configuration errors
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Coordinate transformation errors
	CodeUnresolvableMap Code = "UNRESOLVABLE_MAP"

	// Resource errors
	CodeNotFound Code = "NOT_FOUND"

	// Delivery errors
	CodeNetwork      Code = "NETWORK_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"

	// Internal errors
	CodeInternal Code = "INTERNAL_ERROR"
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
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Package errors provides structured error types for fossrepo.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - SESSION_*: Repository session problems detected before any store is used
//   - *_FAILED / *_EXHAUSTED: Resolution outcomes
//   - INTERNAL_* / INVARIANT_*: Programming errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCoordinate, "invalid coordinate: %s", s)
//	if errors.Is(err, errors.ErrCodeInvalidCoordinate) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeAttemptFailed, origErr, "primary store rejected %s", coord)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Session errors
	ErrCodeSessionInvalid Code = "SESSION_INVALID"

	// Resolution outcomes
	ErrCodeNotFound            Code = "NOT_FOUND"
	ErrCodeAttemptFailed       Code = "ATTEMPT_FAILED"
	ErrCodeResolutionExhausted Code = "RESOLUTION_EXHAUSTED"
	ErrCodeNotImplemented      Code = "NOT_IMPLEMENTED"

	// Mapping fragments
	ErrCodeMappingMalformed Code = "MAPPING_SOURCE_MALFORMED"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal           Code = "INTERNAL_ERROR"
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"
	ErrCodeUnsupported        Code = "UNSUPPORTED"
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

// Coder is implemented by errors that carry a [Code]. Besides [Error],
// the resolution engine's own error types implement it.
type Coder interface {
	ErrorCode() Code
}

// ErrorCode implements [Coder].
func (e *Error) ErrorCode() Code { return e.Code }

// Is reports whether err has the given error code.
// It walks the whole unwrap chain, so a wrapped error matches both its
// own code and the codes of its causes.
func Is(err error, code Code) bool {
	for err != nil {
		if c, ok := err.(Coder); ok && c.ErrorCode() == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
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

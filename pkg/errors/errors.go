// Package errors provides structured error types for tickplot.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the charting core, CLI and server
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// The charting core never aborts: every failing mutator returns an *Error and
// leaves its receiver unchanged. Callers branch on the code.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad index, bad range, bad chart)
//   - NOT_FOUND / DUPLICATE: membership errors on layers, layouts and groups
//   - SOLVER_FAILSAFE: the section-size solver hit its iteration cap
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidIndex, "invalid row %d", row)
//	if errors.Is(err, errors.ErrCodeInvalidIndex) {
//	    // Handle bad index
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidChart, origErr, "decode %s", path)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidIndex  Code = "INVALID_INDEX"
	ErrCodeInvalidRange  Code = "INVALID_RANGE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidChart  Code = "INVALID_CHART"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Membership errors
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeDuplicate          Code = "DUPLICATE"
	ErrCodeForeignOwner       Code = "FOREIGN_OWNER"
	ErrCodeAlreadyInitialized Code = "ALREADY_INITIALIZED"
	ErrCodeFileNotFound       Code = "FILE_NOT_FOUND"

	// Geometry errors
	ErrCodeSolverFailsafe Code = "SOLVER_FAILSAFE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Package errors provides structured error types for orthonet.
//
// Every error crossing a package boundary carries a machine-readable [Code]
// so that the CLI and the HTTP bridge can map it to an exit status or a
// response code without string matching.
//
// # Error Codes
//
//   - INVALID_*: caller supplied input the engine cannot accept
//   - DUPLICATE_NODE, UNKNOWN_NODE: graph contract violations
//   - NOT_DRAGGING, DRAG_IN_PROGRESS: drag protocol misuse
//   - ENGINE_CLOSED, INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNode, "link %d: unknown target %q", i, id)
//	if errors.Is(err, errors.ErrCodeUnknownNode) {
//	    // keep the previous layout
//	}
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
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Graph contract errors
	ErrCodeDuplicateNode Code = "DUPLICATE_NODE"
	ErrCodeUnknownNode   Code = "UNKNOWN_NODE"

	// Drag protocol errors
	ErrCodeNotDragging    Code = "NOT_DRAGGING"
	ErrCodeDragInProgress Code = "DRAG_IN_PROGRESS"

	// Lookup errors
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeEngineClosed Code = "ENGINE_CLOSED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
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
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInputError reports whether err is a caller contract violation, i.e. one
// that leaves previously published state untouched.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeDuplicateNode, ErrCodeUnknownNode:
		return true
	}
	return false
}

// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     apperr
// Description: Structured errors with classification codes and cause chains
// Author:      rdittrich
// License:     MIT
// ============================================================================

package apperr

import (
	"errors"
	"fmt"
)

// Error is a classified error. It keeps the original cause so callers can
// unwrap with the standard errors package.
type Error struct {
	code    Code
	message string
	cause   error
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and additional context.
// Returns nil if err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{code: code, message: message, cause: err}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{code: code, message: fmt.Sprintf(format, args...), cause: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the classification code.
func (e *Error) Code() Code {
	return e.code
}

// Message returns the message without the cause chain.
func (e *Error) Message() string {
	return e.message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same code. This lets
// errors.Is match against sentinel instances created with New.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.code == t.code
}

// CodeOf extracts the classification code from an error chain.
// Returns CodeUnknown for nil or unclassified errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}

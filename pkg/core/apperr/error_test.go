// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     apperr
// Description: Tests for structured error classification
// Author:      rdittrich
// License:     MIT
// ============================================================================

package apperr

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"plain", New(CodeUpload, "upload failed"), "upload failed"},
		{"wrapped", Wrap(io.ErrUnexpectedEOF, CodeUpload, "upload failed"), "upload failed: unexpected EOF"},
		{"formatted", Newf(CodeProvider, "job %s failed", "j-1"), "job j-1 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWrap_NilCause(t *testing.T) {
	if err := Wrap(nil, CodeUpload, "ignored"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := Wrapf(nil, CodeUpload, "ignored %d", 1); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"nil", nil, CodeUnknown},
		{"stdlib", errors.New("boom"), CodeUnknown},
		{"direct", New(CodeDevice, "no device"), CodeDevice},
		{"wrapped in fmt", fmt.Errorf("outer: %w", New(CodeSubmission, "no id")), CodeSubmission},
		{"double wrapped", Wrap(New(CodeProvider, "remote"), CodeUpload, "outer"), CodeUpload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.expected {
				t.Errorf("CodeOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("context: %w", Wrap(io.EOF, CodeEmptyResult, "nothing came back"))

	if !HasCode(err, CodeEmptyResult) {
		t.Error("HasCode() = false, want true")
	}
	if HasCode(err, CodeUpload) {
		t.Error("HasCode() matched the wrong code")
	}
}

func TestErrorsIs_MatchesByCode(t *testing.T) {
	sentinel := New(CodeAlreadyRecording, "already recording")
	err := fmt.Errorf("start: %w", Newf(CodeAlreadyRecording, "session %s active", "abc"))

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is() = false, want match by code")
	}
}

func TestUnwrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeProvider, "calling provider")

	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, should contain the cause", err.Error())
	}
}

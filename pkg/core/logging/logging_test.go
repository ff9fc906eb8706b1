// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     logging
// Description: Tests for component loggers
// Author:      rdittrich
// License:     MIT
// ============================================================================

package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNew_SameComponentSameLogger(t *testing.T) {
	a := New("capture")
	b := New("capture")
	if a != b {
		t.Error("New() returned different loggers for the same component")
	}
}

func TestLogger_FieldsAppearInOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	log := New("test-fields")
	log.Info("job submitted", "id", "j-42", "attempt", 2)

	out := buf.String()
	for _, want := range []string{"job submitted", "j-42", "component", "test-fields"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestToFields(t *testing.T) {
	tests := []struct {
		name  string
		input []interface{}
		want  int
	}{
		{"empty", nil, 0},
		{"pair", []interface{}{"k", "v"}, 1},
		{"two pairs", []interface{}{"a", 1, "b", 2}, 2},
		{"dangling value dropped", []interface{}{"a", 1, "b"}, 1},
		{"non-string key skipped", []interface{}{42, "v", "b", 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toFields(tt.input...); len(got) != tt.want {
				t.Errorf("toFields() produced %d fields, want %d", len(got), tt.want)
			}
		})
	}
}

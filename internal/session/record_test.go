// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     session
// Description: Tests for session records and stage transitions
// Author:      rdittrich
// License:     MIT
// ============================================================================

package session

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Stage
		to   Stage
		want bool
	}{
		{"recording to processing", StageRecording, StageProcessing, true},
		{"processing to transcribing", StageProcessing, StageTranscribing, true},
		{"transcribing to summarizing", StageTranscribing, StageSummarizing, true},
		{"summarizing to complete", StageSummarizing, StageComplete, true},
		{"skip ahead", StageRecording, StageSummarizing, true},
		{"backwards", StageSummarizing, StageTranscribing, false},
		{"same stage", StageProcessing, StageProcessing, false},
		{"any to error", StageRecording, StageError, true},
		{"complete to error", StageComplete, StageError, true},
		{"error to error", StageError, StageError, false},
		{"error retry transcribe", StageError, StageTranscribing, true},
		{"error retry summarize", StageError, StageSummarizing, true},
		{"error to complete", StageError, StageComplete, false},
		{"error to recording", StageError, StageRecording, false},
		{"complete is terminal", StageComplete, StageRecording, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNewRecord(t *testing.T) {
	before := time.Now()
	rec := NewRecord()

	if rec.ID == "" {
		t.Error("NewRecord() left ID empty")
	}
	if rec.Stage != StageRecording {
		t.Errorf("Stage = %q, want %q", rec.Stage, StageRecording)
	}
	if rec.RecordingDate.Before(before.Add(-time.Second)) {
		t.Errorf("RecordingDate = %v, not recent", rec.RecordingDate)
	}

	other := NewRecord()
	if other.ID == rec.ID {
		t.Error("two records share an ID")
	}
}

func TestRecordDisplayName(t *testing.T) {
	rec := NewRecord()
	rec.RecordingDate = time.Date(2026, 8, 20, 14, 30, 0, 0, time.Local)

	if got := rec.DisplayName(); got != "Meeting 2026-08-20 14:30" {
		t.Errorf("DisplayName() fallback = %q", got)
	}

	rec.MeetingName = "Budget Review"
	if got := rec.DisplayName(); got != "Budget Review" {
		t.Errorf("DisplayName() = %q, want Budget Review", got)
	}
}

func TestRecordClone(t *testing.T) {
	rec := NewRecord()
	rec.Transcript = "original"

	clone := rec.Clone()
	clone.Transcript = "changed"

	if rec.Transcript != "original" {
		t.Error("Clone() shares state with the original")
	}
}

// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     session
// Description: Session records and the pipeline stage state machine
// Author:      rdittrich
// License:     MIT
// ============================================================================

package session

import (
	"time"

	"github.com/google/uuid"
)

// Stage is a session's position in the recording pipeline. Stages only
// move forward on success; any stage can jump to StageError on failure.
// Error is not terminal: a manual retry re-enters Transcribing or
// Summarizing.
type Stage string

const (
	StageRecording    Stage = "recording"
	StageProcessing   Stage = "processing"
	StageTranscribing Stage = "transcribing"
	StageSummarizing  Stage = "summarizing"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// stageOrder maps the forward progression. Error is outside the order.
var stageOrder = map[Stage]int{
	StageRecording:    0,
	StageProcessing:   1,
	StageTranscribing: 2,
	StageSummarizing:  3,
	StageComplete:     4,
}

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}

// Display returns a capitalized label for user-facing output.
func (s Stage) Display() string {
	switch s {
	case StageRecording:
		return "Recording"
	case StageProcessing:
		return "Processing"
	case StageTranscribing:
		return "Transcribing"
	case StageSummarizing:
		return "Summarizing"
	case StageComplete:
		return "Complete"
	case StageError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CanTransition reports whether a stage change is legal: strictly forward
// on the success path, any stage to Error, and Error back into the two
// retryable stages.
func CanTransition(from, to Stage) bool {
	if to == StageError {
		return from != StageError
	}
	if from == StageError {
		return to == StageTranscribing || to == StageSummarizing
	}
	fromOrder, ok := stageOrder[from]
	if !ok {
		return false
	}
	toOrder, ok := stageOrder[to]
	if !ok {
		return false
	}
	return toOrder > fromOrder
}

// Record is the persisted unit of work: one end-to-end recording,
// transcription and summarization attempt.
type Record struct {
	ID                string    `json:"id"`
	RecordingDate     time.Time `json:"recording_date"`
	MeetingName       string    `json:"meeting_name,omitempty"`
	RecordingLocation string    `json:"recording_location,omitempty"`
	Transcript        string    `json:"transcript,omitempty"`
	AISummary         string    `json:"ai_summary,omitempty"`
	SavedFilePath     string    `json:"saved_file_path,omitempty"`
	Stage             Stage     `json:"stage"`
}

// NewRecord creates a record for a session that just started recording.
// The id is assigned here and never changes.
func NewRecord() *Record {
	return &Record{
		ID:            uuid.NewString(),
		RecordingDate: time.Now(),
		Stage:         StageRecording,
	}
}

// DisplayName returns the meeting name, or a date-based placeholder for
// sessions that have not been summarized yet.
func (r *Record) DisplayName() string {
	if r.MeetingName != "" {
		return r.MeetingName
	}
	return "Meeting " + r.RecordingDate.Format("2006-01-02 15:04")
}

// Clone returns a copy of the record so callers can hand out snapshots
// without sharing the orchestrator's in-flight instance.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

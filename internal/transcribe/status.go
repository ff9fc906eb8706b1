// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     transcribe
// Description: Transcription pipeline status
// Author:      rdittrich
// License:     MIT
// ============================================================================

package transcribe

import "time"

// Status represents the transcription pipeline state.
type Status int

const (
	StatusIdle Status = iota
	StatusUploading
	StatusProcessing
	StatusCompleted
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusUploading:
		return "Uploading"
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Progress is delivered on every status transition and on every poll tick.
type Progress struct {
	Status  Status
	Elapsed time.Duration // time since the job was submitted
}

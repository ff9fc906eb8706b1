// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     audio
// Description: Capture sources and recorder status
// Author:      rdittrich
// License:     MIT
// ============================================================================

package audio

import "fmt"

// Source selects which audio inputs a recording captures.
type Source int

const (
	// SourceMicrophone captures the configured microphone only
	SourceMicrophone Source = iota

	// SourceSystem captures the system loopback/monitor device only
	SourceSystem

	// SourceBoth captures both and mixes them into one file on stop
	SourceBoth
)

// String returns the source name as used on the CLI.
func (s Source) String() string {
	switch s {
	case SourceMicrophone:
		return "mic"
	case SourceSystem:
		return "system"
	case SourceBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseSource parses a CLI source name.
func ParseSource(s string) (Source, error) {
	switch s {
	case "mic", "microphone":
		return SourceMicrophone, nil
	case "system", "loopback":
		return SourceSystem, nil
	case "both", "":
		return SourceBoth, nil
	default:
		return SourceBoth, fmt.Errorf("unknown audio source %q (want mic, system or both)", s)
	}
}

// Status represents the recorder state.
type Status int

const (
	StatusIdle Status = iota
	StatusRecording
	StatusStopping
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusRecording:
		return "Recording"
	case StatusStopping:
		return "Stopping"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// StatusEvent is emitted on every recorder state transition. Path is the
// in-flight output artifact so observers always know which file is live.
type StatusEvent struct {
	Status Status
	Path   string
	Err    error
}

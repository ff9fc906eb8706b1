// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     apperr
// Description: Error code definitions for consistent error classification
// Author:      rdittrich
// License:     MIT
// ============================================================================

package apperr

// Code classifies an error for programmatic handling and reporting.
type Code string

const (
	// CodeUnknown is the fallback for unclassified errors
	CodeUnknown Code = "UNKNOWN"

	// CodeValidation - bad or missing input detected before any I/O
	CodeValidation Code = "VALIDATION"

	// CodeUpload - audio upload to the transcription provider failed
	CodeUpload Code = "UPLOAD"

	// CodeSubmission - transcription job submission failed
	CodeSubmission Code = "SUBMISSION"

	// CodeProvider - a provider reported a remote-side failure
	CodeProvider Code = "PROVIDER"

	// CodeEmptyResult - a provider returned success without usable content
	CodeEmptyResult Code = "EMPTY_RESULT"

	// CodeMalformedResponse - a provider response body could not be parsed
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"

	// CodeUnknownStatus - a transcription job reported an unrecognized status
	CodeUnknownStatus Code = "UNKNOWN_STATUS"

	// CodeAlreadyRecording - a second session was started while one is active
	CodeAlreadyRecording Code = "ALREADY_RECORDING"

	// CodeDevice - audio hardware or stream failure
	CodeDevice Code = "DEVICE"

	// CodePersistence - history store write failure
	CodePersistence Code = "PERSISTENCE"

	// CodeExport - writing the exported markdown artifact failed
	CodeExport Code = "EXPORT"

	// CodeTimeout - an operation exceeded its configured maximum wait
	CodeTimeout Code = "TIMEOUT"
)

// String returns the code as a string.
func (c Code) String() string {
	return string(c)
}

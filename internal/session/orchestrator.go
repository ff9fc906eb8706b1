// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     session
// Description: Pipeline orchestrator: recording, transcription, summary
// Author:      rdittrich
// License:     MIT
// ============================================================================

package session

import (
	"context"
	"sync"
	"time"

	"github.com/rdittrich/recap/internal/audio"
	"github.com/rdittrich/recap/internal/summarize"
	"github.com/rdittrich/recap/pkg/core/apperr"
	"github.com/rdittrich/recap/pkg/core/logging"
)

// Recorder captures audio and returns the canonical recording path on
// stop.
type Recorder interface {
	Start(source audio.Source) error
	Stop() (string, error)
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Summarizer produces a structured markdown summary from a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Store persists session records.
type Store interface {
	Add(rec *Record) error
	Update(rec *Record) error
	Get(id string) (*Record, error)
	Delete(id string) error
	List() ([]*Record, error)
}

// Exporter writes a summary to disk and returns the written path.
type Exporter interface {
	Export(title string, recordedAt time.Time, summary string) (string, error)
}

// Deps are the orchestrator's collaborators.
type Deps struct {
	Recorder    Recorder
	Transcriber Transcriber
	Summarizer  Summarizer
	Store       Store

	// Exporter may be nil when no output directory is configured; the
	// pipeline then completes without writing a markdown artifact.
	Exporter Exporter

	// Hub receives all pipeline events. Created internally when nil.
	Hub *Hub
}

// Orchestrator drives one session at a time through the pipeline:
// Recording -> Processing -> Transcribing -> Summarizing -> Complete.
// Every stage transition is persisted before the next stage starts, so a
// crash between stages leaves a correctly-staged record in the history.
// Each stage's success automatically triggers the next; the caller only
// ever starts and stops the recording.
type Orchestrator struct {
	deps Deps
	hub  *Hub
	log  *logging.Logger

	mu       sync.Mutex
	current  *Record // the single-slot guard: non-nil while a session runs
	stopping bool
	done     chan struct{}
}

// New creates an orchestrator.
func New(deps Deps) *Orchestrator {
	hub := deps.Hub
	if hub == nil {
		hub = NewHub()
	}
	return &Orchestrator{
		deps: deps,
		hub:  hub,
		log:  logging.New("session"),
	}
}

// Hub returns the event stream shared by all pipeline components.
func (o *Orchestrator) Hub() *Hub {
	return o.hub
}

// Current returns a snapshot of the active session record, or nil.
func (o *Orchestrator) Current() *Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return nil
	}
	return o.current.Clone()
}

// acquire claims the single session slot for a record.
func (o *Orchestrator) acquire(rec *Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		return apperr.Newf(apperr.CodeAlreadyRecording, "session %s is still active", o.current.ID)
	}
	o.current = rec
	o.done = make(chan struct{})
	return nil
}

// release frees the slot and signals waiters.
func (o *Orchestrator) release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = nil
	o.stopping = false
	if o.done != nil {
		close(o.done)
		o.done = nil
	}
}

// Wait returns a channel closed when the in-flight pipeline finishes.
// Returns a closed channel when nothing is running.
func (o *Orchestrator) Wait() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return o.done
}

// StartRecording creates a new session record, persists it and starts
// audio capture. Fails with AlreadyRecording while a session is active.
func (o *Orchestrator) StartRecording(source audio.Source) (*Record, error) {
	rec := NewRecord()
	if err := o.acquire(rec); err != nil {
		return nil, err
	}

	if err := o.persistNew(rec); err != nil {
		o.release()
		return nil, err
	}

	if err := o.deps.Recorder.Start(source); err != nil {
		o.failRecord(rec, err)
		o.release()
		return nil, err
	}

	o.publishStage(rec, "recording started")
	return rec.Clone(), nil
}

// StopRecording stops capture, persists the artifact location and kicks
// off the rest of the pipeline in the background. The returned record is
// a snapshot at the Processing stage; observe the Hub or Wait to follow
// the remaining progress. Stopping with no active session, or while a
// stop is already in flight, is a no-op.
func (o *Orchestrator) StopRecording(ctx context.Context) (*Record, error) {
	o.mu.Lock()
	rec := o.current
	if rec == nil || o.stopping {
		o.mu.Unlock()
		return nil, nil
	}
	o.stopping = true
	o.mu.Unlock()

	path, err := o.deps.Recorder.Stop()
	// A stop error can still carry a surviving artifact (a failed mix
	// falls back to the microphone track); keep its location either way
	// so the record stays retryable.
	if path != "" {
		rec.RecordingLocation = path
	}
	if err != nil {
		o.failRecord(rec, err)
		o.release()
		return rec.Clone(), err
	}
	if err := o.advance(rec, StageProcessing); err != nil {
		o.release()
		return rec.Clone(), err
	}

	go o.runPipeline(ctx, rec, StageTranscribing)
	return rec.Clone(), nil
}

// RetryTranscription re-runs the pipeline from the transcription stage
// for a failed record. The stored recording is transcribed again and, on
// success, the chain continues through summarization as usual.
func (o *Orchestrator) RetryTranscription(ctx context.Context, id string) (*Record, error) {
	rec, err := o.loadForRetry(id, StageTranscribing)
	if err != nil {
		return nil, err
	}
	if rec.RecordingLocation == "" {
		o.release()
		return nil, apperr.Newf(apperr.CodeValidation, "record %s has no recording to transcribe", id)
	}

	o.runPipeline(ctx, rec, StageTranscribing)
	return o.finished(id)
}

// RetrySummarization re-runs summarization for a record that already has
// a transcript.
func (o *Orchestrator) RetrySummarization(ctx context.Context, id string) (*Record, error) {
	rec, err := o.loadForRetry(id, StageSummarizing)
	if err != nil {
		return nil, err
	}
	if rec.Transcript == "" {
		o.release()
		return nil, apperr.Newf(apperr.CodeValidation, "record %s has no transcript to summarize", id)
	}

	o.runPipeline(ctx, rec, StageSummarizing)
	return o.finished(id)
}

// loadForRetry fetches a record and claims the session slot for it.
func (o *Orchestrator) loadForRetry(id string, target Stage) (*Record, error) {
	rec, err := o.deps.Store.Get(id)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodePersistence, "loading record")
	}
	if rec == nil {
		return nil, apperr.Newf(apperr.CodeValidation, "no record with id %s", id)
	}
	if !CanTransition(rec.Stage, target) {
		return nil, apperr.Newf(apperr.CodeValidation,
			"record %s is %s and cannot re-enter %s", id, rec.Stage, target)
	}
	if err := o.acquire(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// finished reloads the final state of a record after a synchronous run.
func (o *Orchestrator) finished(id string) (*Record, error) {
	rec, err := o.deps.Store.Get(id)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodePersistence, "reloading record")
	}
	return rec, nil
}

// runPipeline executes the cascade from the given stage and releases the
// session slot when it ends, successfully or not.
func (o *Orchestrator) runPipeline(ctx context.Context, rec *Record, from Stage) {
	defer o.release()

	if from == StageTranscribing {
		if err := o.advance(rec, StageTranscribing); err != nil {
			return
		}
		text, err := o.deps.Transcriber.Transcribe(ctx, rec.RecordingLocation)
		if err != nil {
			o.failRecord(rec, err)
			return
		}
		rec.Transcript = text
	}

	if err := o.advance(rec, StageSummarizing); err != nil {
		return
	}
	summary, err := o.deps.Summarizer.Summarize(ctx, rec.Transcript)
	if err != nil {
		o.failRecord(rec, err)
		return
	}

	rec.AISummary = summary
	rec.MeetingName = summarize.MeetingName(summary, rec.RecordingDate)
	o.export(rec)

	if err := o.advance(rec, StageComplete); err != nil {
		return
	}
	o.log.Info("session complete", "id", rec.ID, "name", rec.MeetingName)
}

// export writes the summary artifact. Failure is reported but never
// fails the run: the record still reaches Complete, just without a saved
// file path.
func (o *Orchestrator) export(rec *Record) {
	if o.deps.Exporter == nil {
		return
	}
	path, err := o.deps.Exporter.Export(rec.MeetingName, rec.RecordingDate, rec.AISummary)
	if err != nil {
		o.log.Warn("summary export failed", "id", rec.ID, "error", err)
		o.hub.Publish(Event{
			Type:     EventMessage,
			RecordID: rec.ID,
			Message:  "saving the summary file failed: " + err.Error(),
		})
		return
	}
	rec.SavedFilePath = path
}

// persistNew stores a freshly created record.
func (o *Orchestrator) persistNew(rec *Record) error {
	if err := o.deps.Store.Add(rec); err != nil {
		return apperr.Wrap(err, apperr.CodePersistence, "persisting new session")
	}
	o.publishStage(rec, "session created")
	return nil
}

// advance moves the record to the next stage and persists it before any
// further work happens. A persistence failure aborts the run.
func (o *Orchestrator) advance(rec *Record, to Stage) error {
	if !CanTransition(rec.Stage, to) {
		err := apperr.Newf(apperr.CodeValidation, "illegal stage transition %s -> %s", rec.Stage, to)
		o.failRecord(rec, err)
		return err
	}
	rec.Stage = to
	if err := o.deps.Store.Update(rec); err != nil {
		wrapped := apperr.Wrap(err, apperr.CodePersistence, "persisting stage "+to.String())
		o.failRecord(rec, wrapped)
		return wrapped
	}
	o.publishStage(rec, "")
	return nil
}

// failRecord marks the record as failed and persists the marker. The
// partial record stays queryable for inspection and manual retry.
func (o *Orchestrator) failRecord(rec *Record, cause error) {
	o.log.Error("session failed", "id", rec.ID, "stage", rec.Stage.String(), "error", cause)

	if rec.Stage != StageError {
		rec.Stage = StageError
		if err := o.deps.Store.Update(rec); err != nil {
			o.log.Error("persisting error marker", "id", rec.ID, "error", err)
		}
	}

	o.hub.Publish(Event{
		Type:     EventStage,
		RecordID: rec.ID,
		Stage:    StageError,
		Status:   StageError.Display(),
		Err:      cause.Error(),
	})
}

func (o *Orchestrator) publishStage(rec *Record, msg string) {
	o.hub.Publish(Event{
		Type:     EventStage,
		RecordID: rec.ID,
		Stage:    rec.Stage,
		Status:   rec.Stage.Display(),
		Message:  msg,
		Path:     rec.RecordingLocation,
	})
}

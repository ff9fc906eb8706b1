// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: Composition root wiring pipelines, store and event hub
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"os"

	"github.com/rdittrich/recap/internal/audio"
	"github.com/rdittrich/recap/internal/export"
	"github.com/rdittrich/recap/internal/history"
	"github.com/rdittrich/recap/internal/session"
	"github.com/rdittrich/recap/internal/summarize"
	"github.com/rdittrich/recap/internal/transcribe"
	"github.com/rdittrich/recap/pkg/core/config"
)

// app bundles everything a command needs after bootstrap.
type app struct {
	cfg   *config.Config
	store *history.Store
	hub   *session.Hub
	orch  *session.Orchestrator
}

// newApp builds the full pipeline. The per-pipeline status callbacks are
// bridged into the shared hub here so that the pipeline packages stay
// independent of the session package.
func newApp(cfg *config.Config) (*app, error) {
	if err := os.MkdirAll(cfg.RecordingsDir(), 0o755); err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, err
	}

	hub := session.NewHub()

	recorder := audio.NewRecorder(audio.CaptureConfig{
		SampleRate:     cfg.Audio.SampleRate,
		InputDevice:    cfg.Audio.InputDevice,
		LoopbackDevice: cfg.Audio.LoopbackDevice,
		ScratchDir:     cfg.RecordingsDir(),
		OnStatus: func(ev audio.StatusEvent) {
			hubEv := session.Event{
				Type:   session.EventCapture,
				Status: ev.Status.String(),
				Path:   ev.Path,
			}
			if ev.Err != nil {
				hubEv.Err = ev.Err.Error()
			}
			hub.Publish(hubEv)
		},
		OnLevel: func(level float64) {
			hub.Publish(session.Event{Type: session.EventLevel, Level: level})
		},
	})

	transcriber := transcribe.New(transcribe.Config{
		BaseURL:      cfg.Transcription.BaseURL,
		APIKey:       cfg.Transcription.APIKey,
		PollInterval: cfg.Transcription.PollInterval.Duration,
		MaxWait:      cfg.Transcription.MaxWait.Duration,
		OnProgress: func(p transcribe.Progress) {
			hub.Publish(session.Event{
				Type:    session.EventTranscription,
				Status:  p.Status.String(),
				Elapsed: p.Elapsed,
			})
		},
	})

	summarizer := summarize.New(summarize.Config{
		BaseURL:     cfg.Summarization.BaseURL,
		APIKey:      cfg.Summarization.APIKey,
		Model:       cfg.Summarization.Model,
		Temperature: cfg.Summarization.Temperature,
		MaxTokens:   cfg.Summarization.MaxTokens,
		Timeout:     cfg.Summarization.Timeout.Duration,
		OnStatus: func(s summarize.Status) {
			hub.Publish(session.Event{
				Type:   session.EventSummarization,
				Status: s.String(),
			})
		},
	})

	var exporter session.Exporter
	if cfg.General.OutputDir != "" {
		w, err := export.NewWriter(cfg.General.OutputDir)
		if err != nil {
			store.Close()
			return nil, err
		}
		exporter = w
	}

	orch := session.New(session.Deps{
		Recorder:    recorder,
		Transcriber: transcriber,
		Summarizer:  summarizer,
		Store:       store,
		Exporter:    exporter,
		Hub:         hub,
	})

	return &app{cfg: cfg, store: store, hub: hub, orch: orch}, nil
}

func (a *app) close() {
	a.hub.Close()
	a.store.Close()
}

// openStore is the lighter bootstrap for commands that only read or
// modify history and never touch audio or providers.
func openStore(cfg *config.Config) (*history.Store, error) {
	if err := os.MkdirAll(cfg.General.DataDir, 0o755); err != nil {
		return nil, err
	}
	return history.Open(cfg.HistoryPath())
}

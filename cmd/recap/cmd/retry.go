// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: CLI commands to re-run failed pipeline stages
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rdittrich/recap/internal/session"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <id>",
	Short: "Re-run transcription for a failed session",
	Long: `Re-runs the pipeline from the transcription stage. The stored
recording is uploaded and transcribed again and, on success, a fresh
summary is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetryTranscribe,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <id>",
	Short: "Re-run summarization for a failed session",
	Long: `Re-runs summarization over the stored transcript. Use this when
transcription succeeded but the summary step failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrySummarize,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(summarizeCmd)
}

func runRetryTranscribe(cmd *cobra.Command, args []string) error {
	return runRetry(args[0], func(ctx context.Context, a *app, id string) (*session.Record, error) {
		return a.orch.RetryTranscription(ctx, id)
	})
}

func runRetrySummarize(cmd *cobra.Command, args []string) error {
	return runRetry(args[0], func(ctx context.Context, a *app, id string) (*session.Record, error) {
		return a.orch.RetrySummarization(ctx, id)
	})
}

func runRetry(id string, retry func(context.Context, *app, string) (*session.Record, error)) error {
	cfg := loadConfig()
	a, err := newApp(cfg)
	if err != nil {
		printError("initializing", err)
		return err
	}
	defer a.close()

	events, unsubscribe := a.hub.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var lastStage session.Stage
		for ev := range events {
			if ev.Type == session.EventStage && ev.Stage != lastStage {
				lastStage = ev.Stage
				fmt.Printf("  %s\n", ev.Stage.Display())
			}
		}
	}()

	rec, err := retry(context.Background(), a, id)
	unsubscribe()
	<-done
	if err != nil {
		printError("retrying", err)
		return err
	}

	printOutcome(rec)
	if rec.Stage == session.StageError {
		return fmt.Errorf("session %s failed again", rec.ID)
	}
	return nil
}

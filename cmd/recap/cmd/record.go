// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: CLI command to record and process a meeting
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rdittrich/recap/internal/audio"
	"github.com/rdittrich/recap/internal/server"
	"github.com/rdittrich/recap/internal/session"
	"github.com/rdittrich/recap/internal/tui"
)

var (
	recSource string
	recNoTUI  bool
	recListen string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a meeting and run the full pipeline",
	Long: `Records audio until stopped, then transcribes the recording and
generates a markdown summary. The session is stored in the history and,
when an output directory is configured, the summary is saved as a
markdown file.

Audio sources:
  mic      - microphone only
  system   - system output only (requires a loopback/monitor device)
  both     - microphone and system output, mixed into one track

Examples:
  recap record                     # both sources, interactive view
  recap record --source mic        # microphone only
  recap record --no-tui            # plain output, stop with Enter
  recap record --listen :8787      # expose the live event feed`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVarP(&recSource, "source", "s", "both",
		"audio source: mic, system or both")
	recordCmd.Flags().BoolVar(&recNoTUI, "no-tui", false,
		"disable the interactive view")
	recordCmd.Flags().StringVar(&recListen, "listen", "",
		"serve the live event feed on this address (overrides config)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	source, err := audio.ParseSource(recSource)
	if err != nil {
		printError("invalid source", err)
		return err
	}

	cfg := loadConfig()
	a, err := newApp(cfg)
	if err != nil {
		printError("initializing", err)
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listen := recListen
	if listen == "" {
		listen = cfg.Server.Listen
	}
	if listen != "" {
		feed := server.NewEventServer(a.hub)
		go func() {
			if err := feed.ListenAndServe(ctx, listen); err != nil {
				printError("event feed", err)
			}
		}()
	}

	// Subscribe before starting so no stage event is missed.
	events, unsubscribe := a.hub.Subscribe()
	defer unsubscribe()

	rec, err := a.orch.StartRecording(source)
	if err != nil {
		printError("starting recording", err)
		return err
	}

	if recNoTUI {
		err = runRecordPlain(ctx, a, events)
	} else {
		err = runRecordTUI(ctx, a, events)
	}
	if err != nil {
		return err
	}

	final, gerr := a.store.Get(rec.ID)
	if gerr != nil || final == nil {
		return gerr
	}
	printOutcome(final)
	if final.Stage == session.StageError {
		return fmt.Errorf("session %s failed", final.ID)
	}
	return nil
}

func runRecordTUI(ctx context.Context, a *app, events <-chan session.Event) error {
	model := tui.New(events, func() error {
		_, err := a.orch.StopRecording(ctx)
		return err
	})
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		printError("running view", err)
		return err
	}

	// The view may have been quit while capture was still live; make
	// sure the recorder is released before waiting on the pipeline.
	if cur := a.orch.Current(); cur != nil && cur.Stage == session.StageRecording {
		if _, err := a.orch.StopRecording(ctx); err != nil {
			printError("stopping recording", err)
		}
	}

	<-a.orch.Wait()
	return nil
}

// runRecordPlain waits for Enter or SIGINT to stop, then follows the
// pipeline on plain stdout.
func runRecordPlain(ctx context.Context, a *app, events <-chan session.Event) error {
	fmt.Println("Recording... press Enter to stop.")

	stopped := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(stopped)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case <-stopped:
	case <-sig:
	}

	if _, err := a.orch.StopRecording(ctx); err != nil {
		printError("stopping recording", err)
		return err
	}

	done := a.orch.Wait()
	var lastStage session.Stage
	for {
		select {
		case ev := <-events:
			if ev.Type == session.EventStage && ev.Stage != lastStage {
				lastStage = ev.Stage
				fmt.Printf("  %s\n", ev.Stage.Display())
			}
		case <-done:
			return nil
		}
	}
}

func printOutcome(rec *session.Record) {
	fmt.Println()
	switch rec.Stage {
	case session.StageComplete:
		fmt.Printf("Done: %s\n", rec.DisplayName())
		if rec.SavedFilePath != "" {
			fmt.Printf("Summary saved to %s\n", rec.SavedFilePath)
		}
		fmt.Printf("Session id: %s\n", rec.ID)
	case session.StageError:
		fmt.Printf("Session failed at some stage; the partial result is kept.\n")
		fmt.Printf("Inspect it with:  recap show %s\n", rec.ID)
		fmt.Printf("Retry with:       recap transcribe %s  or  recap summarize %s\n", rec.ID, rec.ID)
	default:
		fmt.Printf("Session %s is still %s\n", rec.ID, rec.Stage.Display())
	}
}

// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: CLI command to display a stored session
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	showTranscript bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session's summary and metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVarP(&showTranscript, "transcript", "t", false,
		"print the full transcript instead of the summary")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := openStore(cfg)
	if err != nil {
		printError("opening history", err)
		return err
	}
	defer store.Close()

	rec, err := store.Get(args[0])
	if err != nil {
		printError("reading session", err)
		return err
	}
	if rec == nil {
		fmt.Printf("No session with id %s\n", args[0])
		return nil
	}

	fmt.Printf("%s\n", rec.DisplayName())
	fmt.Printf("  id:        %s\n", rec.ID)
	fmt.Printf("  recorded:  %s\n", rec.RecordingDate.Format("2006-01-02 15:04"))
	fmt.Printf("  stage:     %s\n", rec.Stage.Display())
	if rec.RecordingLocation != "" {
		fmt.Printf("  audio:     %s\n", rec.RecordingLocation)
	}
	if rec.SavedFilePath != "" {
		fmt.Printf("  exported:  %s\n", rec.SavedFilePath)
	}
	fmt.Println()

	if showTranscript {
		if rec.Transcript == "" {
			fmt.Println("No transcript available.")
			return nil
		}
		fmt.Println(rec.Transcript)
		return nil
	}

	if rec.AISummary == "" {
		fmt.Println("No summary available.")
		return nil
	}
	fmt.Println(rec.AISummary)
	return nil
}

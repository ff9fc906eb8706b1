// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: CLI command to export a stored summary as markdown
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rdittrich/recap/internal/export"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a session's summary as a markdown file",
	Long: `Writes the stored summary to a markdown file named after the
recording date and meeting name. Existing files are never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "",
		"output directory (default: configured output_dir, else current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
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
	if rec.AISummary == "" {
		return fmt.Errorf("session %s has no summary to export", rec.ID)
	}

	dir := exportDir
	if dir == "" {
		dir = cfg.General.OutputDir
	}
	if dir == "" {
		dir = "."
	}

	w, err := export.NewWriter(dir)
	if err != nil {
		printError("preparing output directory", err)
		return err
	}

	path, err := w.Export(rec.MeetingName, rec.RecordingDate, rec.AISummary)
	if err != nil {
		printError("exporting summary", err)
		return err
	}

	rec.SavedFilePath = path
	if err := store.Update(rec); err != nil {
		printError("updating session", err)
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

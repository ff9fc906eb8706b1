// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: CLI commands to browse and prune the session history
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions, newest first",
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session from the history",
	Long: `Deletes the history entry. Recording files and exported
summaries on disk are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := openStore(cfg)
	if err != nil {
		printError("opening history", err)
		return err
	}
	defer store.Close()

	recs, err := store.List()
	if err != nil {
		printError("listing sessions", err)
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSTAGE\tNAME")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.RecordingDate.Format("2006-01-02 15:04"),
			rec.Stage.Display(),
			rec.DisplayName())
	}
	return w.Flush()
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := openStore(cfg)
	if err != nil {
		printError("opening history", err)
		return err
	}
	defer store.Close()

	id := args[0]
	rec, err := store.Get(id)
	if err != nil {
		printError("reading session", err)
		return err
	}
	if rec == nil {
		fmt.Printf("No session with id %s\n", id)
		return nil
	}

	if err := store.Delete(id); err != nil {
		printError("deleting session", err)
		return err
	}
	fmt.Printf("Deleted %s (%s)\n", id, rec.DisplayName())
	return nil
}

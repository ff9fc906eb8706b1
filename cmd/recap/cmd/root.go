// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: Root command and shared CLI state
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rdittrich/recap/pkg/core/config"
	"github.com/rdittrich/recap/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "recap",
	Short: "recap - record meetings, transcribe them, get AI summaries",
	Long: `recap records meeting audio from the microphone and/or system
output, sends the recording to a transcription provider and turns the
transcript into a structured markdown summary.

Typical flow:
  recap record            # record, then transcribe and summarize
  recap list              # browse past sessions
  recap show <id>         # read a transcript and summary
  recap export <id>       # re-export a summary as markdown`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./recap.toml or ~/.config/recap/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig resolves the effective configuration and applies the CLI
// log level overrides.
func loadConfig() *config.Config {
	var cfg *config.Config
	if cfgFile != "" {
		cfg, _ = config.Load(cfgFile)
	} else {
		cfg, _ = config.LoadDefault()
	}

	if verbose {
		logging.SetLevel("debug")
	} else if cfg.General.LogLevel != "" {
		logging.SetLevel(cfg.General.LogLevel)
	}
	return cfg
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}

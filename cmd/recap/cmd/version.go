// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: CLI command to print the version
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rdittrich/recap/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the recap version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

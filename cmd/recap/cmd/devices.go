// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     cmd
// Description: CLI command to list available audio input devices
// Author:      rdittrich
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rdittrich/recap/internal/audio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio input devices",
	Long: `Lists every input-capable audio device. Use the names with the
audio.input_device and audio.loopback_device config keys to pick a
specific microphone or a system loopback/monitor source.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	loadConfig()

	devices, err := audio.ListInputDevices()
	if err != nil {
		printError("querying devices", err)
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No input devices found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHANNELS\tSAMPLE RATE\t")
	for _, d := range devices {
		marker := ""
		if d.IsDefault {
			marker = "(default)"
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f Hz\t%s\n",
			d.Name, d.MaxInputChannels, d.DefaultSampleRate, marker)
	}
	return w.Flush()
}

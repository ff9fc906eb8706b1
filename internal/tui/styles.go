// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     tui
// Description: Shared lipgloss styles for the recording view
// Author:      rdittrich
// License:     MIT
// ============================================================================

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorOK      = lipgloss.Color("#10B981")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorFg      = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(1, 2)

	StageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	StageDoneStyle = lipgloss.NewStyle().
			Foreground(colorOK).
			Bold(true)

	StageErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	RecIndicatorStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	LevelBarStyle = lipgloss.NewStyle().
			Foreground(colorOK)

	LevelPeakStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	MessageStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)

// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     tui
// Description: Tests for the recording view's key handling
// Author:      rdittrich
// License:     MIT
// ============================================================================

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rdittrich/recap/internal/session"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// runCmd executes a returned command so tests can observe its message.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestStopKeysInvokeCallback(t *testing.T) {
	for _, key := range []string{"s", "enter"} {
		t.Run(key, func(t *testing.T) {
			stopped := false
			m := New(make(chan session.Event), func() error {
				stopped = true
				return nil
			})

			updated, cmd := m.Update(keyMsg(key))
			runCmd(cmd)

			if !stopped {
				t.Fatalf("%q did not invoke the stop callback", key)
			}
			if !updated.(Model).stopping {
				t.Error("model not marked stopping")
			}
		})
	}
}

func TestQuitDuringRecordingStillStops(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			stopped := false
			m := New(make(chan session.Event), func() error {
				stopped = true
				return nil
			})

			updated, cmd := m.Update(keyMsg(key))
			msg := runCmd(cmd)

			if !stopped {
				t.Fatalf("%q quit without stopping the recorder", key)
			}
			if _, ok := msg.(tea.QuitMsg); !ok {
				t.Errorf("command produced %T, want tea.QuitMsg", msg)
			}
			if !updated.(Model).finished {
				t.Error("model not marked finished")
			}
		})
	}
}

func TestQuitAfterRecordingSkipsCallback(t *testing.T) {
	stopped := false
	m := New(make(chan session.Event), func() error {
		stopped = true
		return nil
	})
	m.stage = session.StageSummarizing

	_, cmd := m.Update(keyMsg("q"))
	msg := runCmd(cmd)

	if stopped {
		t.Error("stop callback invoked after capture had already ended")
	}
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("command produced %T, want tea.QuitMsg", msg)
	}
}

func TestStopKeyIgnoredOutsideRecording(t *testing.T) {
	stopped := false
	m := New(make(chan session.Event), func() error {
		stopped = true
		return nil
	})
	m.stage = session.StageTranscribing

	_, cmd := m.Update(keyMsg("s"))
	runCmd(cmd)

	if stopped {
		t.Error("stop callback invoked outside the recording stage")
	}
}

func TestTerminalStageEventQuits(t *testing.T) {
	m := New(make(chan session.Event), func() error { return nil })

	updated, cmd := m.Update(eventMsg(session.Event{
		Type:  session.EventStage,
		Stage: session.StageComplete,
	}))
	msg := runCmd(cmd)

	if !updated.(Model).finished {
		t.Error("model not finished after terminal stage")
	}
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("command produced %T, want tea.QuitMsg", msg)
	}
}

// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     tui
// Description: Live Bubbletea view for an active recording session
// Author:      rdittrich
// License:     MIT
// ============================================================================

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rdittrich/recap/internal/session"
)

const levelBarWidth = 30

// eventMsg wraps a session event for the Bubbletea update loop.
type eventMsg session.Event

// feedClosedMsg signals that the event stream ended.
type feedClosedMsg struct{}

// stopFailedMsg reports an error from the stop callback.
type stopFailedMsg struct{ err error }

// tickMsg drives the elapsed-time display once per second.
type tickMsg time.Time

// StopFunc is called when the user requests the recording to stop.
type StopFunc func() error

// Model is the Bubbletea model for the live recording view.
type Model struct {
	events <-chan session.Event
	stop   StopFunc

	spinner  spinner.Model
	width    int
	started  time.Time
	stage    session.Stage
	status   string
	level    float64
	peak     float64
	message  string
	errText  string
	saved    string
	stopping bool
	finished bool
}

// New creates the recording view. Events come from a hub subscription;
// stop is invoked once when the user presses s or enter.
func New(events <-chan session.Event, stop StopFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return Model{
		events:  events,
		stop:    stop,
		spinner: sp,
		started: time.Now(),
		stage:   session.StageRecording,
		status:  session.StageRecording.Display(),
	}
}

// Init starts the spinner, the clock and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForEvent(),
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent returns a command that blocks on the next hub event.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return feedClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.finished {
			return m, nil
		}
		return m, tick()

	case eventMsg:
		return m.handleEvent(session.Event(msg))

	case feedClosedMsg:
		m.finished = true
		return m, tea.Quit

	case stopFailedMsg:
		m.errText = msg.err.Error()
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		if m.stage == session.StageRecording && !m.stopping {
			m.stopping = true
			stop := m.stop
			return m, func() tea.Msg {
				if err := stop(); err != nil {
					return stopFailedMsg{err: err}
				}
				return nil
			}
		}
		return m, nil

	case "q", "ctrl+c":
		m.finished = true
		// Quitting while capture is live must still stop the recorder,
		// otherwise the microphone stays open after the view is gone.
		if m.stage == session.StageRecording && !m.stopping {
			m.stopping = true
			stop := m.stop
			return m, func() tea.Msg {
				stop()
				return tea.QuitMsg{}
			}
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleEvent(ev session.Event) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case session.EventStage:
		m.stage = ev.Stage
		m.status = ev.Stage.Display()
		if ev.Err != "" {
			m.errText = ev.Err
		}
		if ev.Stage == session.StageComplete || ev.Stage == session.StageError {
			m.finished = true
			return m, tea.Quit
		}

	case session.EventLevel:
		m.level = ev.Level
		if ev.Level > m.peak {
			m.peak = ev.Level
		}

	case session.EventCapture:
		if ev.Path != "" {
			m.saved = ev.Path
		}
		if ev.Err != "" {
			m.errText = ev.Err
		}

	case session.EventTranscription, session.EventSummarization:
		if ev.Status != "" {
			m.status = ev.Status
		}
		if ev.Elapsed > 0 {
			m.status = fmt.Sprintf("%s (%s)", m.status, ev.Elapsed.Round(time.Second))
		}

	case session.EventMessage:
		if ev.Err != "" {
			m.errText = ev.Err
		} else {
			m.message = ev.Message
		}
	}

	return m, m.waitForEvent()
}

// View renders the recording view.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("recap"))
	b.WriteString("\n")

	elapsed := time.Since(m.started).Round(time.Second)

	switch {
	case m.errText != "":
		b.WriteString(StageErrorStyle.Render("✗ " + m.status))
		b.WriteString("\n")
		b.WriteString(MessageStyle.Render(m.errText))
	case m.stage == session.StageComplete:
		b.WriteString(StageDoneStyle.Render("✓ " + m.status))
	case m.stage == session.StageRecording:
		b.WriteString(RecIndicatorStyle.Render("● REC "))
		b.WriteString(StageStyle.Render(elapsed.String()))
		b.WriteString("\n\n")
		b.WriteString(m.renderLevel())
	default:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(StageStyle.Render(m.status))
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(MessageStyle.Render(m.message))
	}

	help := "s/enter stop · q quit"
	if m.stage != session.StageRecording {
		help = "q quit"
	}

	return BoxStyle.Render(b.String()) + "\n" + HelpStyle.Render(help) + "\n"
}

// renderLevel draws a simple horizontal meter with a peak marker.
func (m Model) renderLevel() string {
	filled := int(m.level * levelBarWidth)
	if filled > levelBarWidth {
		filled = levelBarWidth
	}
	peakPos := int(m.peak * levelBarWidth)
	if peakPos >= levelBarWidth {
		peakPos = levelBarWidth - 1
	}

	var bar strings.Builder
	for i := 0; i < levelBarWidth; i++ {
		switch {
		case i < filled:
			bar.WriteString(LevelBarStyle.Render("█"))
		case i == peakPos && m.peak > 0:
			bar.WriteString(LevelPeakStyle.Render("┃"))
		default:
			bar.WriteString(MessageStyle.Render("░"))
		}
	}
	return bar.String()
}

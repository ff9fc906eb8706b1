// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     session
// Description: Tests for the pipeline event hub
// Author:      rdittrich
// License:     MIT
// ============================================================================

package session

import (
	"testing"
	"time"
)

func collectEvents(t *testing.T, ch <-chan Event, n int) []Event {
	t.Helper()
	var evs []Event
	timeout := time.After(2 * time.Second)
	for len(evs) < n {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d of %d events", len(evs), n)
			}
			evs = append(evs, ev)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(evs), n)
		}
	}
	return evs
}

func TestHubDeliversInPublishOrder(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	defer cancel()

	stages := []Stage{StageRecording, StageProcessing, StageTranscribing, StageSummarizing, StageComplete}
	for _, st := range stages {
		hub.Publish(Event{Type: EventStage, Stage: st})
	}

	evs := collectEvents(t, ch, len(stages))
	for i, ev := range evs {
		if ev.Stage != stages[i] {
			t.Errorf("event %d stage = %q, want %q", i, ev.Stage, stages[i])
		}
		if ev.Time.IsZero() {
			t.Errorf("event %d missing timestamp", i)
		}
	}
}

func TestHubFansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	a, cancelA := hub.Subscribe()
	defer cancelA()
	b, cancelB := hub.Subscribe()
	defer cancelB()

	hub.Publish(Event{Type: EventMessage, Message: "hello"})

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		evs := collectEvents(t, ch, 1)
		if evs[0].Message != "hello" {
			t.Errorf("subscriber %s got %q", name, evs[0].Message)
		}
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}

	// Publishing after cancel must not panic or block.
	hub.Publish(Event{Type: EventMessage, Message: "late"})
}

func TestHubCloseClosesSubscribers(t *testing.T) {
	hub := NewHub()
	ch, _ := hub.Subscribe()

	hub.Close()
	hub.Close() // idempotent

	select {
	case _, ok := <-ch:
		if ok {
			// A buffered event may arrive first; drain until closed.
			for range ch {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber channel not closed after Close()")
	}
}

func TestHubSlowSubscriberDropsOldest(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer without reading.
	total := subscriberBuffer * 2
	for i := 0; i < total; i++ {
		hub.Publish(Event{Type: EventLevel, Level: float64(i)})
		// Give the dispatcher room so the hub queue itself never sheds.
		if i%16 == 0 {
			time.Sleep(time.Millisecond)
		}
	}

	// Whatever survived, the newest event must be among it and order is
	// still ascending.
	deadline := time.After(2 * time.Second)
	last := -1.0
	for {
		select {
		case ev := <-ch:
			if ev.Level <= last {
				t.Fatalf("out of order: %v after %v", ev.Level, last)
			}
			last = ev.Level
			if ev.Level == float64(total-1) {
				return
			}
		case <-deadline:
			t.Fatalf("never saw the newest event, last = %v", last)
		}
	}
}

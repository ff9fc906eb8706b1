// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     session
// Description: Ordered status event stream for pipeline observers
// Author:      rdittrich
// License:     MIT
// ============================================================================

package session

import (
	"sync"
	"time"
)

// EventType identifies which part of the pipeline produced an event.
type EventType string

const (
	// EventStage - the session record moved to a new stage
	EventStage EventType = "stage"

	// EventCapture - recorder status change
	EventCapture EventType = "capture"

	// EventTranscription - transcription pipeline status change or poll tick
	EventTranscription EventType = "transcription"

	// EventSummarization - summarization pipeline status change
	EventSummarization EventType = "summarization"

	// EventLevel - live audio level sample
	EventLevel EventType = "level"

	// EventMessage - informational message (e.g. non-fatal export failure)
	EventMessage EventType = "message"
)

// Event is one observable pipeline notification. Events are delivered to
// every subscriber in publish order; a later event always reflects
// equal-or-greater pipeline progress than an earlier one.
type Event struct {
	Type     EventType     `json:"type"`
	RecordID string        `json:"record_id,omitempty"`
	Stage    Stage         `json:"stage,omitempty"`
	Status   string        `json:"status,omitempty"`
	Message  string        `json:"message,omitempty"`
	Path     string        `json:"path,omitempty"`
	Level    float64       `json:"level,omitempty"`
	Elapsed  time.Duration `json:"elapsed,omitempty"`
	Err      string        `json:"error,omitempty"`
	Time     time.Time     `json:"time"`
}

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing the oldest events; level
// samples are the only high-rate producer and are safe to drop.
const subscriberBuffer = 256

// Hub fans pipeline events out to subscribers. A single dispatch
// goroutine drains the publish queue, which makes delivery order explicit
// instead of depending on subscriber callback timing.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	in     chan Event
	done   chan struct{}
	once   sync.Once
}

// NewHub creates a hub and starts its dispatch loop.
func NewHub() *Hub {
	h := &Hub{
		subs: make(map[int]chan Event),
		in:   make(chan Event, subscriberBuffer),
		done: make(chan struct{}),
	}
	go h.dispatch()
	return h
}

// Subscribe registers an observer. The returned cancel function must be
// called when the observer is done.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish enqueues an event for delivery. Never blocks the pipeline: if
// the hub's queue is full the event is dropped.
func (h *Hub) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	select {
	case h.in <- ev:
	case <-h.done:
	default:
		// Queue full; shedding here keeps capture callbacks non-blocking.
	}
}

// Close stops dispatching and closes all subscriber channels.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.done)
	})
}

func (h *Hub) dispatch() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, sub := range h.subs {
				delete(h.subs, id)
				close(sub)
			}
			h.mu.Unlock()
			return
		case ev := <-h.in:
			h.mu.Lock()
			for _, sub := range h.subs {
				select {
				case sub <- ev:
				default:
					// Slow subscriber: drop the oldest buffered event to
					// make room so recent state wins.
					select {
					case <-sub:
					default:
					}
					select {
					case sub <- ev:
					default:
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

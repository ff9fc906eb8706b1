// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     server
// Description: Tests for the WebSocket event feed
// Author:      rdittrich
// License:     MIT
// ============================================================================

package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rdittrich/recap/internal/session"
)

func dialFeed(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestEventServerStreamsHubEvents(t *testing.T) {
	hub := session.NewHub()
	defer hub.Close()

	ts := httptest.NewServer(NewEventServer(hub).Handler())
	defer ts.Close()

	conn := dialFeed(t, ts)

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)

	hub.Publish(session.Event{
		Type:     session.EventStage,
		RecordID: "rec-1",
		Stage:    session.StageTranscribing,
		Status:   "Transcribing",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev session.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if ev.Type != session.EventStage || ev.RecordID != "rec-1" || ev.Stage != session.StageTranscribing {
		t.Errorf("event = %+v", ev)
	}
}

func TestEventServerMultipleClients(t *testing.T) {
	hub := session.NewHub()
	defer hub.Close()

	ts := httptest.NewServer(NewEventServer(hub).Handler())
	defer ts.Close()

	a := dialFeed(t, ts)
	b := dialFeed(t, ts)
	time.Sleep(50 * time.Millisecond)

	hub.Publish(session.Event{Type: session.EventMessage, Message: "broadcast"})

	for name, conn := range map[string]*websocket.Conn{"a": a, "b": b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev session.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("client %s read error = %v", name, err)
		}
		if ev.Message != "broadcast" {
			t.Errorf("client %s got %q", name, ev.Message)
		}
	}
}

func TestEventServerSurvivesClientDisconnect(t *testing.T) {
	hub := session.NewHub()
	defer hub.Close()

	ts := httptest.NewServer(NewEventServer(hub).Handler())
	defer ts.Close()

	gone := dialFeed(t, ts)
	gone.Close()
	time.Sleep(50 * time.Millisecond)

	// Publishing after a disconnect must not wedge the hub for others.
	stay := dialFeed(t, ts)
	time.Sleep(50 * time.Millisecond)
	hub.Publish(session.Event{Type: session.EventMessage, Message: "still here"})

	stay.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev session.Event
	if err := stay.ReadJSON(&ev); err != nil {
		t.Fatalf("surviving client read error = %v", err)
	}
	if ev.Message != "still here" {
		t.Errorf("got %q", ev.Message)
	}
}

// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     server
// Description: WebSocket feed of live pipeline events
// Author:      rdittrich
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rdittrich/recap/internal/session"
	"github.com/rdittrich/recap/pkg/core/logging"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local tooling feed; browsers on other origins are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventServer exposes the session hub as a WebSocket endpoint so external
// tooling (status bars, dashboards) can follow a recording live.
type EventServer struct {
	hub *session.Hub
	log *logging.Logger
	srv *http.Server
}

// NewEventServer creates a server feeding events from hub.
func NewEventServer(hub *session.Hub) *EventServer {
	return &EventServer{
		hub: hub,
		log: logging.New("server"),
	}
}

// Handler returns the HTTP handler serving the /events endpoint.
func (s *EventServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	return mux
}

// ListenAndServe serves the event feed on addr until the context ends.
func (s *EventServer) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("event feed listening", "addr", addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleEvents upgrades the connection and streams hub events as JSON
// until the client disconnects. A client that cannot keep up is dropped.
func (s *EventServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	events, cancel := s.hub.Subscribe()
	defer cancel()

	s.log.Debug("event subscriber connected", "remote", r.RemoteAddr)

	// The feed is write-only; this read loop only notices disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				s.log.Debug("dropping event subscriber", "remote", r.RemoteAddr, "error", err)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

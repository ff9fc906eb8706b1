// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     summarize
// Description: Tests for the summarization client
// Author:      rdittrich
// License:     MIT
// ============================================================================

package summarize

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rdittrich/recap/pkg/core/apperr"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, APIKey: "sk-test", Model: "test-model"})
}

func TestSummarize_Success(t *testing.T) {
	var gotAuth string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"# Weekly Sync\n\n## TL;DR\nShort."}}]}`)
	})

	summary, err := client.Summarize(context.Background(), "we talked about things")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(summary, "# Weekly Sync") {
		t.Errorf("summary = %q", summary)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
	if client.Status() != StatusIdle {
		t.Errorf("status after success = %v, want Idle", client.Status())
	}
}

func TestSummarize_EmptyContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices":[]}`},
		{"empty content", `{"choices":[{"message":{"content":""}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			_, err := client.Summarize(context.Background(), "transcript")
			if !apperr.HasCode(err, apperr.CodeEmptyResult) {
				t.Errorf("code = %v, want CodeEmptyResult", apperr.CodeOf(err))
			}
		})
	}
}

func TestSummarize_MalformedBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `this is not json`)
	})
	_, err := client.Summarize(context.Background(), "transcript")
	if !apperr.HasCode(err, apperr.CodeMalformedResponse) {
		t.Errorf("code = %v, want CodeMalformedResponse", apperr.CodeOf(err))
	}
	if client.Status() != StatusError {
		t.Errorf("status after failure = %v, want Error", client.Status())
	}
}

func TestSummarize_HTTPFailure(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	_, err := client.Summarize(context.Background(), "transcript")
	if !apperr.HasCode(err, apperr.CodeProvider) {
		t.Errorf("code = %v, want CodeProvider", apperr.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q missing provider payload", err)
	}
}

func TestSummarize_Validation(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		client := New(Config{BaseURL: "http://unused"})
		_, err := client.Summarize(context.Background(), "transcript")
		if !apperr.HasCode(err, apperr.CodeValidation) {
			t.Errorf("code = %v, want CodeValidation", apperr.CodeOf(err))
		}
	})
	t.Run("empty transcript", func(t *testing.T) {
		client := New(Config{BaseURL: "http://unused", APIKey: "k"})
		_, err := client.Summarize(context.Background(), "")
		if !apperr.HasCode(err, apperr.CodeValidation) {
			t.Errorf("code = %v, want CodeValidation", apperr.CodeOf(err))
		}
	})
}

func TestMeetingName(t *testing.T) {
	recordedAt := time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		summary  string
		expected string
	}{
		{
			"first top-level heading",
			"# Weekly Sync\n## TL;DR\nStuff happened.",
			"Weekly Sync",
		},
		{
			"skips subheadings",
			"## TL;DR\nIntro\n# Budget Review\nMore.",
			"Budget Review",
		},
		{
			"no top-level heading",
			"Just some prose.\n## TL;DR\nMore prose.",
			"Meeting 2025-11-03 14:30",
		},
		{
			"empty summary",
			"",
			"Meeting 2025-11-03 14:30",
		},
		{
			"heading with extra whitespace",
			"  # Q1 Planning  \n",
			"Q1 Planning",
		},
		{
			"bare hash is not a name",
			"#\n# Real Title",
			"Real Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeetingName(tt.summary, recordedAt); got != tt.expected {
				t.Errorf("MeetingName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

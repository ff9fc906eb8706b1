// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     summarize
// Description: LLM chat-completion client for meeting summaries
// Author:      rdittrich
// License:     MIT
// ============================================================================

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rdittrich/recap/pkg/core/apperr"
	"github.com/rdittrich/recap/pkg/core/logging"
)

// systemPrompt is the fixed summarization instruction. The orchestrator
// derives the meeting name from the first top-level heading of the reply,
// so the requested output format is part of the contract, not cosmetics.
const systemPrompt = `You are a meeting assistant. Summarize the meeting transcript the user provides.

Respond in markdown with exactly this structure:

# <A short, descriptive meeting name>

## TL;DR
<2-3 sentences summarizing the meeting>

## Next Steps
<bulleted list of agreed next steps>

## Todos
<bulleted list of individual todos, with owners where mentioned>

Do not add any text before the first heading.`

// Status represents the summarization pipeline state.
type Status int

const (
	StatusIdle Status = iota
	StatusGenerating
	StatusCompleted
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusGenerating:
		return "Generating"
	case StatusCompleted:
		return "Completed"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Config holds summarization client configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client

	// OnStatus receives every status transition.
	OnStatus func(Status)
}

// Client generates structured markdown summaries from transcripts via a
// chat-completion endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  *logging.Logger

	mu     sync.Mutex
	status Status
}

// New creates a summarization client.
func New(cfg Config) *Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		cfg:  cfg,
		http: httpClient,
		log:  logging.New("summarize"),
	}
}

// Status returns the current pipeline status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
	if c.cfg.OnStatus != nil {
		c.cfg.OnStatus(s)
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Summarize sends the transcript with the fixed instruction template and
// returns the structured markdown summary.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", apperr.New(apperr.CodeValidation, "summarization API key is not configured")
	}
	if transcript == "" {
		return "", apperr.New(apperr.CodeValidation, "transcript is empty")
	}

	c.setStatus(StatusGenerating)

	summary, err := c.complete(ctx, transcript)
	if err != nil {
		c.setStatus(StatusError)
		return "", err
	}

	c.setStatus(StatusCompleted)
	c.setStatus(StatusIdle)
	return summary, nil
}

func (c *Client) complete(ctx context.Context, transcript string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Here is the meeting transcript:\n\n" + transcript},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeProvider, "encoding completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeProvider, "building completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeProvider, "calling summarization provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", apperr.Newf(apperr.CodeProvider, "summarization failed: HTTP %d: %s", resp.StatusCode, payload)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperr.Wrap(err, apperr.CodeMalformedResponse, "parsing completion response")
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", apperr.New(apperr.CodeEmptyResult, "provider returned no summary content")
	}

	c.log.Debug("summary generated", "model", c.cfg.Model, "bytes", len(parsed.Choices[0].Message.Content))
	return parsed.Choices[0].Message.Content, nil
}

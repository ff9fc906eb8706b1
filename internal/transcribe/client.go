// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     transcribe
// Description: Speech-to-text provider client (upload, submit, poll)
// Author:      rdittrich
// License:     MIT
// ============================================================================

package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rdittrich/recap/pkg/core/apperr"
	"github.com/rdittrich/recap/pkg/core/logging"
)

// DefaultPollInterval is the delay between job status polls.
const DefaultPollInterval = 3 * time.Second

// Config holds transcription client configuration.
type Config struct {
	BaseURL string
	APIKey  string

	// PollInterval between job status requests; defaults to 3s.
	PollInterval time.Duration

	// MaxWait bounds the total poll duration. 0 means wait until the
	// provider reaches a terminal state (cancellation still applies via
	// the context).
	MaxWait time.Duration

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client

	// OnProgress receives every status transition and poll tick.
	OnProgress func(Progress)
}

// Client runs the three-step transcription protocol: upload the audio
// bytes, submit a transcription job, poll it to a terminal state. No step
// retries internally; a failed run surfaces its classified error and the
// caller decides whether to start over.
type Client struct {
	cfg  Config
	http *http.Client
	log  *logging.Logger

	mu     sync.Mutex
	status Status
}

// New creates a transcription client.
func New(cfg Config) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		cfg:  cfg,
		http: httpClient,
		log:  logging.New("transcribe"),
	}
}

// Status returns the current pipeline status. It is Idle after a
// successful run and stays Error after a failed one until the next call to
// Transcribe.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) setStatus(s Status, elapsed time.Duration) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
	if c.cfg.OnProgress != nil {
		c.cfg.OnProgress(Progress{Status: s, Elapsed: elapsed})
	}
}

// Transcribe uploads the audio file, submits a job and polls until the
// provider reports a terminal state. Returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", apperr.New(apperr.CodeValidation, "transcription API key is not configured")
	}

	c.setStatus(StatusUploading, 0)

	audioURL, err := c.upload(ctx, audioPath)
	if err != nil {
		c.setStatus(StatusError, 0)
		return "", err
	}

	jobID, err := c.submit(ctx, audioURL)
	if err != nil {
		c.setStatus(StatusError, 0)
		return "", err
	}
	c.log.Info("transcription job submitted", "id", jobID)

	text, err := c.poll(ctx, jobID)
	if err != nil {
		c.setStatus(StatusError, 0)
		return "", err
	}

	c.setStatus(StatusCompleted, 0)
	c.setStatus(StatusIdle, 0)
	return text, nil
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// upload streams the audio file to the provider's upload endpoint and
// returns the opaque upload reference.
func (c *Client) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeUpload, "opening audio file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeUpload, "reading audio file")
	}
	if info.Size() == 0 {
		return "", apperr.Newf(apperr.CodeUpload, "audio file %s is empty", audioPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/upload", f)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeUpload, "building upload request")
	}
	req.Header.Set("authorization", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = info.Size()

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeUpload, "uploading audio")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperr.Newf(apperr.CodeUpload, "upload failed: %s", httpError(resp))
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperr.Wrap(err, apperr.CodeUpload, "parsing upload response")
	}
	if parsed.UploadURL == "" {
		return "", apperr.New(apperr.CodeUpload, "upload response contained no upload_url")
	}
	return parsed.UploadURL, nil
}

type submitRequest struct {
	AudioURL string `json:"audio_url"`
}

type submitResponse struct {
	ID string `json:"id"`
}

// submit creates the transcription job for an uploaded file.
func (c *Client) submit(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(submitRequest{AudioURL: audioURL})
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeSubmission, "encoding job request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeSubmission, "building job request")
	}
	req.Header.Set("authorization", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeSubmission, "submitting transcription job")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperr.Newf(apperr.CodeSubmission, "job submission failed: %s", httpError(resp))
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperr.Wrap(err, apperr.CodeSubmission, "parsing job response")
	}
	if parsed.ID == "" {
		return "", apperr.New(apperr.CodeSubmission, "job response contained no id")
	}
	return parsed.ID, nil
}

type jobResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// poll fetches the job status every PollInterval until the provider
// reports completed or error. The context cancels both the requests and
// the wait between them; MaxWait, when set, bounds the total duration.
func (c *Client) poll(ctx context.Context, jobID string) (string, error) {
	started := time.Now()

	var deadline <-chan time.Time
	if c.cfg.MaxWait > 0 {
		t := time.NewTimer(c.cfg.MaxWait)
		defer t.Stop()
		deadline = t.C
	}

	for {
		job, err := c.fetchJob(ctx, jobID)
		if err != nil {
			return "", err
		}

		elapsed := time.Since(started)

		switch job.Status {
		case "completed":
			if job.Text == "" {
				return "", apperr.New(apperr.CodeEmptyResult, "provider returned an empty transcript")
			}
			return job.Text, nil
		case "error":
			return "", apperr.Newf(apperr.CodeProvider, "transcription failed: %s", job.Error)
		case "queued", "processing":
			c.setStatus(StatusProcessing, elapsed)
		default:
			return "", apperr.Newf(apperr.CodeUnknownStatus, "provider reported unknown job status %q", job.Status)
		}

		select {
		case <-ctx.Done():
			return "", apperr.Wrap(ctx.Err(), apperr.CodeProvider, "transcription cancelled")
		case <-deadline:
			return "", apperr.Newf(apperr.CodeTimeout, "transcription job %s did not finish within %s", jobID, c.cfg.MaxWait)
		case <-time.After(c.cfg.PollInterval):
		}
	}
}

func (c *Client) fetchJob(ctx context.Context, jobID string) (*jobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/transcript/"+jobID, nil)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "building status request")
	}
	req.Header.Set("authorization", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "fetching job status")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Newf(apperr.CodeProvider, "status request failed: %s", httpError(resp))
	}

	var parsed jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeMalformedResponse, "parsing job status")
	}
	return &parsed, nil
}

// httpError summarizes a non-success response for error messages.
func httpError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if len(body) == 0 {
		return fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, body)
}

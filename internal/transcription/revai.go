package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// RevAIConfig holds configuration for the Rev.ai asynchronous API.
type RevAIConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.rev.ai/speechtotext/v1"
	// HTTPClient is optional and defaults to a client with a 2 minute timeout.
	HTTPClient *http.Client
}

// RevAI submits audio to Rev.ai and tracks the resulting job.
type RevAI struct {
	cfg        RevAIConfig
	httpClient *http.Client
}

type revJob struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Failure       string `json:"failure,omitempty"`
	FailureDetail string `json:"failure_detail,omitempty"`
}

type revOptions struct {
	Language string `json:"language,omitempty"`
}

func NewRevAI(cfg RevAIConfig) *RevAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.rev.ai/speechtotext/v1"
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 2 * time.Minute}
	}
	return &RevAI{cfg: cfg, httpClient: hc}
}

func (r *RevAI) Name() string { return "revai" }

// Submit uploads the audio as a local file job.
func (r *RevAI) Submit(ctx context.Context, audio Audio, language string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("media", audio.Filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(audio.Data); err != nil {
		return "", fmt.Errorf("copy audio data: %w", err)
	}

	opts, err := json.Marshal(revOptions{Language: language})
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	if err := mw.WriteField("options", string(opts)); err != nil {
		return "", fmt.Errorf("write options: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	var job revJob
	if err := r.do(ctx, http.MethodPost, "/jobs", mw.FormDataContentType(), "application/json", &body, &job); err != nil {
		return "", err
	}
	if job.ID == "" {
		return "", fmt.Errorf("revai: job response without id")
	}
	return job.ID, nil
}

func (r *RevAI) Status(ctx context.Context, jobID string) (JobStatus, error) {
	var job revJob
	if err := r.do(ctx, http.MethodGet, "/jobs/"+jobID, "", "application/json", nil, &job); err != nil {
		return JobStatus{}, err
	}
	js := JobStatus{Status: ParseStatus(job.Status)}
	if js.Status == StatusFailed {
		js.Detail = job.failureReason()
	}
	return js, nil
}

// failureReason prefers the human readable detail over the failure code.
func (j revJob) failureReason() string {
	switch {
	case j.FailureDetail != "" && j.Failure != "":
		return j.Failure + ": " + j.FailureDetail
	case j.FailureDetail != "":
		return j.FailureDetail
	}
	return j.Failure
}

// Transcript fetches the plain-text transcript of a transcribed job.
func (r *RevAI) Transcript(ctx context.Context, jobID string) (string, error) {
	var text string
	if err := r.do(ctx, http.MethodGet, "/jobs/"+jobID+"/transcript", "", "text/plain", nil, &text); err != nil {
		return "", err
	}
	return text, nil
}

// do executes one API call. A *string target receives the raw body,
// anything else is decoded as JSON.
func (r *RevAI) do(ctx context.Context, method, path, contentType, accept string, body io.Reader, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revai request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{Provider: r.Name(), Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if s, ok := v.(*string); ok {
		*s = string(respBody)
		return nil
	}
	if err := json.Unmarshal(respBody, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

package transcription

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// WhisperConfig holds configuration for the OpenAI Whisper backend.
type WhisperConfig struct {
	APIKey  string
	BaseURL string // optional, for OpenAI-compatible servers such as whisper.cpp
	Model   string // default: "whisper-1"
}

// Whisper adapts the synchronous Whisper API to the submit/poll contract.
// Submit transcribes immediately and parks the result until Transcript
// hands it out.
type Whisper struct {
	client *openai.Client
	model  string

	mu      sync.Mutex
	results map[string]string
}

func NewWhisper(cfg WhisperConfig) *Whisper {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &Whisper{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		results: make(map[string]string),
	}
}

func (w *Whisper) Name() string { return "openai-whisper" }

func (w *Whisper) Submit(ctx context.Context, audio Audio, language string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audio.Filename,
		Reader:   bytes.NewReader(audio.Data),
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	id := uuid.NewString()
	w.mu.Lock()
	w.results[id] = resp.Text
	w.mu.Unlock()
	return id, nil
}

func (w *Whisper) Status(_ context.Context, jobID string) (JobStatus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.results[jobID]; !ok {
		return JobStatus{}, fmt.Errorf("whisper: unknown job %s", jobID)
	}
	return JobStatus{Status: StatusTranscribed}, nil
}

func (w *Whisper) Transcript(_ context.Context, jobID string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	text, ok := w.results[jobID]
	if !ok {
		return "", fmt.Errorf("whisper: unknown job %s", jobID)
	}
	delete(w.results, jobID)
	return text, nil
}

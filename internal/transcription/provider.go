package transcription

import (
	"context"
	"fmt"
)

// Status is the lifecycle state of a transcription job on the provider side.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in_progress"
	StatusTranscribed Status = "transcribed"
	StatusFailed      Status = "failed"
	StatusUnknown     Status = "unknown"
)

// ParseStatus maps a provider status string onto a Status. Strings the
// service does not recognise map to StatusUnknown.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusTranscribed, StatusFailed:
		return Status(s)
	}
	return StatusUnknown
}

// Terminal reports whether no further transition can follow s.
func (s Status) Terminal() bool {
	return s == StatusTranscribed || s == StatusFailed
}

// rank orders statuses along pending -> in_progress -> terminal.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusTranscribed, StatusFailed:
		return 2
	}
	return -1
}

// Precedes reports whether moving from s to next keeps the job monotonic.
func (s Status) Precedes(next Status) bool {
	return next.rank() >= s.rank() && !s.Terminal()
}

// JobStatus is one status report for a job. Detail carries the provider's
// failure reason when Status is StatusFailed.
type JobStatus struct {
	Status Status
	Detail string
}

// Audio is an uploaded recording handed to a provider.
type Audio struct {
	Data     []byte
	Filename string
}

// Provider is the interface for asynchronous speech-to-text backends.
type Provider interface {
	Submit(ctx context.Context, audio Audio, language string) (string, error)
	Status(ctx context.Context, jobID string) (JobStatus, error)
	Transcript(ctx context.Context, jobID string) (string, error)
	Name() string
}

// APIError is returned when a provider answers with a non-2xx status.
type APIError struct {
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status=%d: %s", e.Provider, e.Status, e.Message)
}

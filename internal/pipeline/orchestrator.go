package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RishijManna/SpeechToText-translation/internal/metrics"
	"github.com/RishijManna/SpeechToText-translation/internal/transcription"
)

var (
	ErrSubmissionFailed    = errors.New("submission failed")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrPollingTimeout      = errors.New("polling timed out")
)

// Config bounds the polling loop. Zero MaxAttempts or Timeout disables
// that bound; PollInterval must be positive.
type Config struct {
	PollInterval time.Duration
	MaxAttempts  int
	Timeout      time.Duration
}

// Job is the request-owned view of one provider job.
type Job struct {
	ID       string
	Language string
	Status   transcription.Status
	Polls    int
}

// advance moves the job forward and reports whether next was accepted.
func (j *Job) advance(next transcription.Status) bool {
	if !j.Status.Precedes(next) {
		return false
	}
	j.Status = next
	return true
}

// Orchestrator drives a single transcription job from submission to a
// terminal status.
type Orchestrator struct {
	provider transcription.Provider
	cfg      Config
	metrics  *metrics.Metrics
}

func NewOrchestrator(provider transcription.Provider, cfg Config, m *metrics.Metrics) *Orchestrator {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Orchestrator{provider: provider, cfg: cfg, metrics: m}
}

// Provider names the transcription backend in use.
func (o *Orchestrator) Provider() string { return o.provider.Name() }

// Run submits the audio and blocks until the job is transcribed, fails,
// exceeds its polling budget or ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, audio transcription.Audio, language string) (string, error) {
	start := time.Now()
	text, err := o.run(ctx, audio, language)
	o.metrics.ObserveJob(o.provider.Name(), outcome(err), time.Since(start))
	return text, err
}

func (o *Orchestrator) run(ctx context.Context, audio transcription.Audio, language string) (string, error) {
	log := slog.With("provider", o.provider.Name(), "language", language)

	if len(audio.Data) == 0 {
		return "", fmt.Errorf("%w: empty audio", ErrSubmissionFailed)
	}

	id, err := o.provider.Submit(ctx, audio, language)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Error("submit transcription job", "stage", "submit", "error", err)
		return "", fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	job := &Job{ID: id, Language: language, Status: transcription.StatusPending}
	log = log.With("job_id", id)
	log.Info("transcription job submitted", "stage", "submit", "filename", audio.Filename, "bytes", len(audio.Data))

	pollCtx := ctx
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	if err := o.poll(pollCtx, job, log); err != nil {
		switch {
		case ctx.Err() != nil:
			log.Warn("transcription abandoned", "stage", "poll", "polls", job.Polls, "error", ctx.Err())
			return "", ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			log.Error("transcription polling deadline exceeded", "stage", "poll", "polls", job.Polls, "timeout", o.cfg.Timeout)
			return "", fmt.Errorf("%w: job %s not finished after %s", ErrPollingTimeout, job.ID, o.cfg.Timeout)
		}
		log.Error("transcription did not complete", "stage", "poll", "polls", job.Polls, "error", err)
		return "", err
	}

	text, err := o.provider.Transcript(ctx, job.ID)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Error("fetch transcript", "stage", "transcript", "error", err)
		return "", fmt.Errorf("%w: fetch transcript for job %s: %w", ErrTranscriptionFailed, job.ID, err)
	}

	log.Info("transcription complete", "stage", "transcript", "polls", job.Polls, "chars", len(text))
	return text, nil
}

// poll queries the job until it reaches a terminal status.
func (o *Orchestrator) poll(ctx context.Context, job *Job, log *slog.Logger) error {
	for {
		job.Polls++
		o.metrics.ObservePoll()

		report, err := o.provider.Status(ctx, job.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: poll job %s: %w", ErrTranscriptionFailed, job.ID, err)
		}

		status := report.Status
		if status == transcription.StatusUnknown {
			return fmt.Errorf("%w: job %s reported an unknown status", ErrTranscriptionFailed, job.ID)
		}
		if !job.advance(status) {
			log.Warn("ignoring status regression", "stage", "poll", "current", job.Status, "reported", status)
		}

		switch job.Status {
		case transcription.StatusTranscribed:
			return nil
		case transcription.StatusFailed:
			if report.Detail != "" {
				return fmt.Errorf("%w: job %s: %s", ErrTranscriptionFailed, job.ID, report.Detail)
			}
			return fmt.Errorf("%w: job %s reported failure", ErrTranscriptionFailed, job.ID)
		}

		if o.cfg.MaxAttempts > 0 && job.Polls >= o.cfg.MaxAttempts {
			return fmt.Errorf("%w: job %s still %s after %d polls", ErrPollingTimeout, job.ID, job.Status, job.Polls)
		}

		log.Debug("transcription pending", "stage", "poll", "status", job.Status, "polls", job.Polls)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.cfg.PollInterval):
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "transcribed"
	case errors.Is(err, ErrSubmissionFailed):
		return "submission_failed"
	case errors.Is(err, ErrPollingTimeout):
		return "timeout"
	case errors.Is(err, ErrTranscriptionFailed):
		return "failed"
	default:
		return "canceled"
	}
}

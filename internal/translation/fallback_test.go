package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
)

// stubTranslator returns a fixed result and counts calls.
type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Name() string { return "stub" }

func (s *stubTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	s.calls++
	return s.out, s.err
}

// levelRecorder is a slog.Handler that keeps the level of every record.
type levelRecorder struct {
	mu     sync.Mutex
	levels []slog.Level
}

func (h *levelRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *levelRecorder) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.levels = append(h.levels, r.Level)
	return nil
}

func (h *levelRecorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *levelRecorder) WithGroup(string) slog.Handler      { return h }

func captureLogs(t *testing.T) *levelRecorder {
	t.Helper()
	h := &levelRecorder{}
	prev := slog.Default()
	slog.SetDefault(slog.New(h))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return h
}

func TestFallbackTranslate(t *testing.T) {
	tests := []struct {
		name   string
		out    string
		err    error
		want   string
		levels []slog.Level
	}{
		{name: "provider output verbatim", out: "bonjour le monde", want: "bonjour le monde"},
		{name: "not found", err: ErrNotFound, want: Unavailable, levels: []slog.Level{slog.LevelWarn}},
		{name: "wrapped not found", err: fmt.Errorf("google: %w", ErrNotFound), want: Unavailable, levels: []slog.Level{slog.LevelWarn}},
		{name: "network failure", err: errors.New("dial tcp: connection refused"), want: Unavailable, levels: []slog.Level{slog.LevelError}},
		{name: "quota", err: &APIError{Provider: "google", Status: 429, Message: "too many requests"}, want: Unavailable, levels: []slog.Level{slog.LevelError}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			stub := &stubTranslator{out: tt.out, err: tt.err}
			f := NewFallback(stub, nil)

			got := f.Translate(context.Background(), "hello world", "en", "fr")
			if got != tt.want {
				t.Fatalf("Translate() = %q, want %q", got, tt.want)
			}
			if stub.calls != 1 {
				t.Fatalf("provider calls = %d, want exactly 1", stub.calls)
			}
			if len(logs.levels) != len(tt.levels) {
				t.Fatalf("logged levels = %v, want %v", logs.levels, tt.levels)
			}
			for i, lvl := range tt.levels {
				if logs.levels[i] != lvl {
					t.Errorf("log %d level = %v, want %v", i, logs.levels[i], lvl)
				}
			}
		})
	}
}

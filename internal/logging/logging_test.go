package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/RishijManna/SpeechToText-translation/internal/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(config.LogConfig{Level: tt.level}, &bytes.Buffer{})
			if !logger.Enabled(context.Background(), tt.want) {
				t.Errorf("level %s not enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-4) {
				t.Errorf("level below %s should be disabled", tt.want)
			}
		})
	}
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New(config.LogConfig{Format: "json"}, &buf).Info("job submitted", "job_id", "abc")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json output not decodable: %v (%s)", err, buf.String())
	}
	if entry["job_id"] != "abc" {
		t.Errorf("entry = %v", entry)
	}

	buf.Reset()
	New(config.LogConfig{Format: "text"}, &buf).Info("job submitted", "job_id", "abc")
	if !strings.Contains(buf.String(), "job_id=abc") {
		t.Errorf("text output = %q", buf.String())
	}
}

package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWhisperSubmitThenCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language = %q, want en", got)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer srv.Close()

	w := NewWhisper(WhisperConfig{APIKey: "k", BaseURL: srv.URL})
	ctx := context.Background()

	id, err := w.Submit(ctx, Audio{Data: []byte("RIFF"), Filename: "hello.wav"}, "en")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	status, err := w.Status(ctx, id)
	if err != nil || status.Status != StatusTranscribed {
		t.Fatalf("Status() = %s, %v; want transcribed", status.Status, err)
	}

	text, err := w.Transcript(ctx, id)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if text != "hello world" {
		t.Fatalf("transcript = %q", text)
	}

	if _, err := w.Transcript(ctx, id); err == nil {
		t.Fatal("expected error collecting the same job twice")
	}
}

package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRevAISubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/jobs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		file, header, err := r.FormFile("media")
		if err != nil {
			t.Errorf("media part: %v", err)
			return
		}
		data, _ := io.ReadAll(file)
		if string(data) != "RIFF" || header.Filename != "hello.wav" {
			t.Errorf("media = %q (%s)", data, header.Filename)
			return
		}
		var opts revOptions
		if err := json.Unmarshal([]byte(r.FormValue("options")), &opts); err != nil {
			t.Errorf("options: %v", err)
			return
		}
		if opts.Language != "en" {
			t.Errorf("language = %q, want en", opts.Language)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"job-42","status":"in_progress"}`))
	}))
	defer srv.Close()

	client := NewRevAI(RevAIConfig{APIKey: "secret", BaseURL: srv.URL})
	id, err := client.Submit(context.Background(), Audio{Data: []byte("RIFF"), Filename: "hello.wav"}, "en")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if id != "job-42" {
		t.Fatalf("job id = %q, want job-42", id)
	}
}

func TestRevAIStatusFailureDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail only", `{"id":"j1","status":"failed","failure_detail":"Media file is not a valid audio file"}`, "Media file is not a valid audio file"},
		{"code and detail", `{"id":"j1","status":"failed","failure":"invalid_media","failure_detail":"unsupported codec"}`, "invalid_media: unsupported codec"},
		{"code only", `{"id":"j1","status":"failed","failure":"download_failure"}`, "download_failure"},
		{"in progress ignores failure fields", `{"id":"j1","status":"in_progress","failure":"stale"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			status, err := NewRevAI(RevAIConfig{APIKey: "k", BaseURL: srv.URL}).Status(context.Background(), "j1")
			if err != nil {
				t.Fatalf("Status() error = %v", err)
			}
			if status.Detail != tt.want {
				t.Errorf("detail = %q, want %q", status.Detail, tt.want)
			}
		})
	}
}

func TestRevAIStatusAndTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs/job-1":
			w.Write([]byte(`{"id":"job-1","status":"transcribed"}`))
		case "/jobs/job-2":
			w.Write([]byte(`{"id":"job-2","status":"paused"}`))
		case "/jobs/job-1/transcript":
			if r.Header.Get("Accept") != "text/plain" {
				t.Errorf("accept = %q", r.Header.Get("Accept"))
				return
			}
			w.Write([]byte("hello world"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewRevAI(RevAIConfig{APIKey: "k", BaseURL: srv.URL + "/"})
	ctx := context.Background()

	status, err := client.Status(ctx, "job-1")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Status != StatusTranscribed {
		t.Fatalf("status = %s, want transcribed", status.Status)
	}

	status, err = client.Status(ctx, "job-2")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Status != StatusUnknown {
		t.Fatalf("status = %s, want unknown", status.Status)
	}

	text, err := client.Transcript(ctx, "job-1")
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if text != "hello world" {
		t.Fatalf("transcript = %q", text)
	}
}

func TestRevAIErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"title":"Authorization has been denied for this request"}`))
	}))
	defer srv.Close()

	client := NewRevAI(RevAIConfig{APIKey: "bad", BaseURL: srv.URL})
	_, err := client.Submit(context.Background(), Audio{Data: []byte("x"), Filename: "a.wav"}, "en")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", apiErr.Status)
	}
}

func TestStatusOrdering(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusPending, true},
		{StatusInProgress, StatusTranscribed, true},
		{StatusInProgress, StatusFailed, true},
		{StatusInProgress, StatusPending, false},
		{StatusTranscribed, StatusInProgress, false},
		{StatusFailed, StatusTranscribed, false},
	}
	for _, tt := range tests {
		if got := tt.from.Precedes(tt.to); got != tt.want {
			t.Errorf("%s.Precedes(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaTranslate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		want    string
		wantErr error
	}{
		{"translated", http.StatusOK, " hola mundo\n", "hola mundo", nil},
		{"empty reply", http.StatusOK, "", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					t.Errorf("path = %s, want /api/chat", r.URL.Path)
				}
				var req ollamaChatReq
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
					return
				}
				if req.Stream || req.Model != "llama3" || len(req.Messages) != 2 || req.Messages[1].Content != "hello world" {
					t.Errorf("request = %+v", req)
				}
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(ollamaChatResp{Message: ollamaMessage{Role: "assistant", Content: tt.content}})
			}))
			defer srv.Close()

			got, err := NewOllama(srv.URL+"/", "").Translate(context.Background(), "hello world", "en", "es")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Translate() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Translate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOllamaServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL, "llama3").Translate(context.Background(), "hello", "en", "es")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("error = %v, want APIError with status 500", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("server errors must not be reported as not found")
	}
}

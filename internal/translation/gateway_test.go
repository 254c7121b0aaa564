package translation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"

	"github.com/RishijManna/SpeechToText-translation/internal/config"
)

func TestGatewayUsesSecondaryOnFailure(t *testing.T) {
	primary := &stubTranslator{err: ErrNotFound}
	secondary := &stubTranslator{out: "hola"}
	g := NewGateway(primary, secondary)

	got, err := g.Translate(context.Background(), "hello", "en", "es")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "hola" {
		t.Fatalf("Translate() = %q, want hola", got)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestGatewayPrimaryOnly(t *testing.T) {
	primary := &stubTranslator{err: errors.New("boom")}
	g := NewGateway(primary, nil)

	if _, err := g.Translate(context.Background(), "hello", "en", "es"); err == nil {
		t.Fatal("expected primary error to propagate")
	}
	if g.Name() != "stub" {
		t.Fatalf("Name() = %q", g.Name())
	}
}

func TestNewGatewayFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TranslationConfig
		want    string
		wantErr bool
	}{
		{name: "google", cfg: config.TranslationConfig{Backend: "google"}, want: "google"},
		{name: "google with openai fallback", cfg: config.TranslationConfig{Backend: "google", FallbackBackend: "openai", OpenAIKey: "k"}, want: "google+openai"},
		{name: "openai without key", cfg: config.TranslationConfig{Backend: "openai"}, wantErr: true},
		{name: "anthropic", cfg: config.TranslationConfig{Backend: "anthropic", AnthropicKey: "k"}, want: "anthropic"},
		{name: "ollama behind anthropic", cfg: config.TranslationConfig{Backend: "anthropic", AnthropicKey: "k", FallbackBackend: "ollama"}, want: "anthropic+ollama"},
		{name: "unknown", cfg: config.TranslationConfig{Backend: "babelfish"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGatewayFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGatewayFromConfig() error = %v", err)
			}
			if g.Name() != tt.want {
				t.Fatalf("Name() = %q, want %q", g.Name(), tt.want)
			}
		})
	}
}

func TestOpenAITranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":" bonjour le monde\n"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":10,"completion_tokens":4,"total_tokens":14}}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("k")
	cfg.BaseURL = srv.URL
	p := NewOpenAIWithConfig(cfg, "")

	got, err := p.Translate(context.Background(), "hello world", "en", "fr")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "bonjour le monde" {
		t.Fatalf("Translate() = %q", got)
	}
}

func TestAnthropicEmptyReplyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-haiku-20240307",
			"content":[{"type":"text","text":"  "}],"stop_reason":"end_turn","stop_sequence":null,
			"usage":{"input_tokens":12,"output_tokens":1}}`))
	}))
	defer srv.Close()

	p := NewAnthropic("k", "", option.WithBaseURL(srv.URL))
	_, err := p.Translate(context.Background(), "hello", "en", "xx")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Translate() error = %v, want ErrNotFound", err)
	}
}

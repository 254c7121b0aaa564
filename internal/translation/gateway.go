package translation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RishijManna/SpeechToText-translation/internal/config"
)

// Gateway routes to a primary translator and, when configured, retries
// once on a secondary one.
type Gateway struct {
	primary   Translator
	secondary Translator
}

func NewGateway(primary, secondary Translator) *Gateway {
	return &Gateway{primary: primary, secondary: secondary}
}

// NewGatewayFromConfig builds the translators named by cfg.
func NewGatewayFromConfig(cfg config.TranslationConfig) (*Gateway, error) {
	primary, err := NewTranslator(cfg.Backend, cfg)
	if err != nil {
		return nil, err
	}

	var secondary Translator
	if cfg.FallbackBackend != "" && cfg.FallbackBackend != cfg.Backend {
		secondary, err = NewTranslator(cfg.FallbackBackend, cfg)
		if err != nil {
			return nil, fmt.Errorf("fallback translator: %w", err)
		}
	}
	return NewGateway(primary, secondary), nil
}

// NewTranslator constructs a single named translator.
func NewTranslator(name string, cfg config.TranslationConfig) (Translator, error) {
	switch name {
	case "google":
		return NewGoogle(cfg.GoogleURL), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("translator %q requires OPENAI_API_KEY", name)
		}
		return NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("translator %q requires ANTHROPIC_API_KEY", name)
		}
		return NewAnthropic(cfg.AnthropicKey, cfg.AnthropicModel), nil
	case "ollama":
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel), nil
	}
	return nil, fmt.Errorf("unknown translator %q", name)
}

func (g *Gateway) Name() string {
	if g.secondary == nil {
		return g.primary.Name()
	}
	return g.primary.Name() + "+" + g.secondary.Name()
}

func (g *Gateway) Translate(ctx context.Context, text, source, target string) (string, error) {
	out, err := g.primary.Translate(ctx, text, source, target)
	if err == nil || g.secondary == nil || ctx.Err() != nil {
		return out, err
	}

	slog.Warn("primary translator failed, trying alternative translation method",
		"primary", g.primary.Name(),
		"fallback", g.secondary.Name(),
		"error", err,
	)
	return g.secondary.Translate(ctx, text, source, target)
}

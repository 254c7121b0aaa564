package translation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/RishijManna/SpeechToText-translation/internal/metrics"
)

// Unavailable is returned in place of a translation when the provider
// could not produce one.
const Unavailable = "Translation not available"

// Fallback turns every translation failure into the Unavailable value so
// a transcript is never lost because translation failed.
type Fallback struct {
	translator Translator
	metrics    *metrics.Metrics
}

func NewFallback(t Translator, m *metrics.Metrics) *Fallback {
	return &Fallback{translator: t, metrics: m}
}

// Translate calls the provider once and never fails.
func (f *Fallback) Translate(ctx context.Context, text, source, target string) string {
	out, err := f.translator.Translate(ctx, text, source, target)
	switch {
	case err == nil:
		f.metrics.ObserveTranslation("ok")
		return out
	case errors.Is(err, ErrNotFound):
		f.metrics.ObserveTranslation("not_found")
		slog.Warn("translation not found",
			"stage", "translate",
			"provider", f.translator.Name(),
			"source", source,
			"target", target,
			"chars", len(text),
		)
	default:
		f.metrics.ObserveTranslation("error")
		slog.Error("translation failed",
			"stage", "translate",
			"provider", f.translator.Name(),
			"source", source,
			"target", target,
			"error", err,
		)
	}
	return Unavailable
}

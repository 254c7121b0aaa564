package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/RishijManna/SpeechToText-translation/internal/cache"
	"github.com/RishijManna/SpeechToText-translation/internal/metrics"
)

// Store is the subset of cache.Cache the translator needs.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Cached is a read-through cache in front of a Translator. Only successful
// translations are stored.
type Cached struct {
	next    Translator
	store   Store
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCached(next Translator, store Store, ttl time.Duration, m *metrics.Metrics) *Cached {
	return &Cached{next: next, store: store, ttl: ttl, metrics: m}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := cacheKey(text, source, target)

	var hit string
	err := c.store.Get(ctx, key, &hit)
	switch {
	case err == nil:
		c.metrics.ObserveCache(true)
		return hit, nil
	case !errors.Is(err, cache.ErrMiss):
		slog.Warn("translation cache read failed", "error", err)
	}
	c.metrics.ObserveCache(false)

	out, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, out, c.ttl); err != nil {
		slog.Warn("translation cache write failed", "error", err)
	}
	return out, nil
}

func cacheKey(text, source, target string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(target))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "translation:" + hex.EncodeToString(h.Sum(nil))
}

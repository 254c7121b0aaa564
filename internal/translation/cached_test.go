package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RishijManna/SpeechToText-translation/internal/cache"
)

// memStore is an in-memory Store.
type memStore struct {
	data   map[string]string
	getErr error
	sets   int
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return cache.ErrMiss
	}
	*(dest.(*string)) = v
	return nil
}

func (m *memStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	m.data[key] = value.(string)
	return nil
}

func TestCachedServesRepeatFromStore(t *testing.T) {
	stub := &stubTranslator{out: "hola"}
	store := newMemStore()
	c := NewCached(stub, store, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Translate(ctx, "hello", "en", "es")
		if err != nil || got != "hola" {
			t.Fatalf("Translate() = %q, %v", got, err)
		}
	}
	if stub.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", stub.calls)
	}

	if _, err := c.Translate(ctx, "hello", "en", "fr"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("different target must miss the cache, calls = %d", stub.calls)
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	stub := &stubTranslator{err: ErrNotFound}
	store := newMemStore()
	c := NewCached(stub, store, time.Hour, nil)

	if _, err := c.Translate(context.Background(), "hello", "en", "xx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Translate() error = %v, want ErrNotFound", err)
	}
	if store.sets != 0 {
		t.Fatalf("sets = %d, want 0", store.sets)
	}
}

func TestCachedSurvivesBrokenStore(t *testing.T) {
	stub := &stubTranslator{out: "hola"}
	store := newMemStore()
	store.getErr = errors.New("redis: connection refused")
	c := NewCached(stub, store, time.Hour, nil)

	got, err := c.Translate(context.Background(), "hello", "en", "es")
	if err != nil || got != "hola" {
		t.Fatalf("Translate() = %q, %v", got, err)
	}
}

package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/RishijManna/SpeechToText-translation/internal/queue"
	"github.com/RishijManna/SpeechToText-translation/internal/storage"
)

// PurgeWorker deletes uploaded artifacts whose retention has expired.
type PurgeWorker struct {
	storage storage.Storage
}

func NewPurgeWorker(store storage.Storage) *PurgeWorker {
	return &PurgeWorker{storage: store}
}

func (w *PurgeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.ArtifactPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Key == "" {
		return fmt.Errorf("empty artifact key: %w", asynq.SkipRetry)
	}

	if err := w.storage.Delete(ctx, payload.Key); err != nil {
		return fmt.Errorf("purge artifact %s: %w", payload.Key, err)
	}

	slog.Info("purged artifact", "key", payload.Key)
	return nil
}

// NewServeMux routes every task type the worker process handles.
func NewServeMux(store storage.Storage) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeArtifactPurge, asynq.HandlerFunc(NewPurgeWorker(store).ProcessTask))
	return mux
}

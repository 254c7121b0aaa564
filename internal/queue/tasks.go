package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeArtifactPurge = "artifact:purge"

type ArtifactPurgePayload struct {
	Key string `json:"key"`
}

func NewArtifactPurgeTask(key string) (*asynq.Task, error) {
	if key == "" {
		return nil, fmt.Errorf("artifact key is required")
	}
	data, err := json.Marshal(ArtifactPurgePayload{Key: key})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TypeArtifactPurge, data), nil
}

package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/RishijManna/SpeechToText-translation/internal/config"
)

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueArtifactPurge schedules deletion of a stored artifact once the
// retention window has passed.
func (c *Client) EnqueueArtifactPurge(ctx context.Context, key string, after time.Duration) error {
	task, err := NewArtifactPurgeTask(key)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessIn(after),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
		asynq.Queue("low"),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeArtifactPurge, err)
	}
	return nil
}

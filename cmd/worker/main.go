package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/RishijManna/SpeechToText-translation/internal/config"
	"github.com/RishijManna/SpeechToText-translation/internal/logging"
	"github.com/RishijManna/SpeechToText-translation/internal/queue"
	"github.com/RishijManna/SpeechToText-translation/internal/queue/workers"
	"github.com/RishijManna/SpeechToText-translation/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg.Log, os.Stdout))

	store, err := storage.New(cfg.Storage)
	if err != nil {
		slog.Error("failed to create artifact storage", "error", err)
		os.Exit(1)
	}

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
			Logger: slogAdapter{slog.Default()},
		},
	)

	slog.Info("starting worker", "concurrency", 4, "storage", cfg.Storage.Backend)
	if err := srv.Run(workers.NewServeMux(store)); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}

// slogAdapter routes asynq's internal logging through slog.
type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Debug(args ...interface{}) { a.l.Debug(fmt.Sprint(args...), "component", "asynq") }
func (a slogAdapter) Info(args ...interface{})  { a.l.Info(fmt.Sprint(args...), "component", "asynq") }
func (a slogAdapter) Warn(args ...interface{})  { a.l.Warn(fmt.Sprint(args...), "component", "asynq") }
func (a slogAdapter) Error(args ...interface{}) { a.l.Error(fmt.Sprint(args...), "component", "asynq") }
func (a slogAdapter) Fatal(args ...interface{}) {
	a.l.Error(fmt.Sprint(args...), "component", "asynq")
	os.Exit(1)
}

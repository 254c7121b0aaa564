package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/RishijManna/SpeechToText-translation/internal/account"
	"github.com/RishijManna/SpeechToText-translation/internal/api"
	"github.com/RishijManna/SpeechToText-translation/internal/auth"
	"github.com/RishijManna/SpeechToText-translation/internal/cache"
	"github.com/RishijManna/SpeechToText-translation/internal/config"
	"github.com/RishijManna/SpeechToText-translation/internal/database"
	"github.com/RishijManna/SpeechToText-translation/internal/history"
	"github.com/RishijManna/SpeechToText-translation/internal/logging"
	"github.com/RishijManna/SpeechToText-translation/internal/metrics"
	"github.com/RishijManna/SpeechToText-translation/internal/pipeline"
	"github.com/RishijManna/SpeechToText-translation/internal/queue"
	"github.com/RishijManna/SpeechToText-translation/internal/storage"
	"github.com/RishijManna/SpeechToText-translation/internal/transcription"
	"github.com/RishijManna/SpeechToText-translation/internal/translation"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg.Log, os.Stdout))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	deps := api.Deps{Metrics: m, Gatherer: reg}

	// Database connection (optional unless auth is enabled)
	if cfg.Database.URL != "" {
		db, err := database.NewPool(ctx, cfg.Database)
		switch {
		case err != nil && cfg.Auth.Enabled:
			slog.Error("database unavailable and auth is enabled", "error", err)
			os.Exit(1)
		case err != nil:
			slog.Warn("database unavailable, running without accounts or history", "error", err)
		default:
			defer db.Close()
			if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
				slog.Error("migrations failed", "error", err)
				os.Exit(1)
			}
			runs := history.NewService(db)
			deps.DB = db
			deps.Accounts = account.NewService(db)
			deps.Recorder = runs
			deps.History = runs
		}
	}

	// Redis connection (optional)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	redisUp := rdb.Ping(ctx).Err() == nil
	if redisUp {
		deps.Redis = rdb
	} else {
		slog.Warn("redis unavailable, running without translation cache, session revocation or purge queue")
	}

	provider, err := newTranscriptionProvider(cfg.STT)
	if err != nil {
		slog.Error("failed to create transcription provider", "error", err)
		os.Exit(1)
	}
	deps.Transcriber = pipeline.NewOrchestrator(provider, pipeline.Config{
		PollInterval: cfg.Polling.Interval,
		MaxAttempts:  cfg.Polling.MaxAttempts,
		Timeout:      cfg.Polling.Timeout,
	}, m)

	gateway, err := translation.NewGatewayFromConfig(cfg.Translation)
	if err != nil {
		slog.Error("failed to create translator", "error", err)
		os.Exit(1)
	}
	var translator translation.Translator = gateway
	if redisUp && cfg.Translation.CacheTTL > 0 {
		translator = translation.NewCached(gateway, cache.NewCache(rdb, "speech:"), cfg.Translation.CacheTTL, m)
	}
	deps.Translator = translation.NewFallback(translator, m)

	deps.Storage, err = storage.New(cfg.Storage)
	if err != nil {
		slog.Error("failed to create artifact storage", "error", err)
		os.Exit(1)
	}

	if redisUp && cfg.Storage.Retention > 0 {
		qc := queue.NewClient(cfg.Redis)
		defer qc.Close()
		deps.Purger = qc
	}

	if cfg.Auth.SessionSecret != "" {
		var revoker auth.Revoker
		if redisUp {
			revoker = cache.NewCache(rdb, "speech:session:")
		}
		deps.Sessions = auth.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.Auth.CookieName, revoker)
	}

	router := api.NewRouter(cfg, deps)
	handler := router.Setup()
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		// no WriteTimeout: transcription requests block until the job finishes
		// and are bounded by POLL_TIMEOUT instead
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		slog.Info("starting API server",
			"addr", cfg.Addr(),
			"stt_backend", provider.Name(),
			"translator", gateway.Name(),
			"storage", cfg.Storage.Backend,
			"auth_enabled", cfg.Auth.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func newTranscriptionProvider(cfg config.STTConfig) (transcription.Provider, error) {
	switch cfg.Backend {
	case "revai":
		return transcription.NewRevAI(transcription.RevAIConfig{
			APIKey:  cfg.RevAIKey,
			BaseURL: cfg.RevAIURL,
		}), nil
	case "whisper":
		return transcription.NewWhisper(transcription.WhisperConfig{
			APIKey: cfg.OpenAIKey,
			Model:  cfg.OpenAIModel,
		}), nil
	}
	return nil, fmt.Errorf("unknown STT backend %q", cfg.Backend)
}


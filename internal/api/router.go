package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/RishijManna/SpeechToText-translation/internal/api/handlers"
	"github.com/RishijManna/SpeechToText-translation/internal/api/middleware"
	"github.com/RishijManna/SpeechToText-translation/internal/auth"
	"github.com/RishijManna/SpeechToText-translation/internal/config"
	"github.com/RishijManna/SpeechToText-translation/internal/metrics"
	"github.com/RishijManna/SpeechToText-translation/internal/storage"
)

// Deps are the collaborators the HTTP surface is assembled from. Optional
// fields left nil disable the routes or features that need them.
type Deps struct {
	Transcriber handlers.Transcriber
	Translator  handlers.Translator
	Storage     storage.Storage

	Sessions *auth.Sessions
	Accounts handlers.Accounts
	Recorder handlers.RunRecorder
	History  handlers.HistoryLister
	Purger   handlers.PurgeScheduler

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

type Router struct {
	mux  *chi.Mux
	cfg  *config.Config
	deps Deps

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRouter(cfg *config.Config, deps Deps) *Router {
	return &Router{
		mux:  chi.NewRouter(),
		cfg:  cfg,
		deps: deps,
		stop: make(chan struct{}),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(rt.deps.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))

	rl := middleware.NewRateLimiter(rt.cfg.RateLimit.RPS, rt.cfg.RateLimit.Burst)
	go rl.Cleanup(rt.stop)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	checks := map[string]handlers.Pinger{}
	if rt.deps.DB != nil {
		checks["database"] = rt.deps.DB
	}
	if rt.deps.Redis != nil {
		checks["redis"] = redisPinger{rt.deps.Redis}
	}
	health := handlers.NewHealthHandler(checks)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	if rt.deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rt.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	speech := handlers.NewSpeechHandler(rt.deps.Transcriber, rt.deps.Translator, rt.deps.Storage, handlers.SpeechOptions{
		Recorder:       rt.deps.Recorder,
		Purger:         rt.deps.Purger,
		Retention:      rt.cfg.Storage.Retention,
		MaxUploadBytes: rt.cfg.Server.MaxUploadBytes,
	})

	// Pipeline routes, gated when auth is enabled
	r.Group(func(r chi.Router) {
		if rt.cfg.Auth.Enabled && rt.deps.Sessions != nil {
			r.Use(rt.deps.Sessions.Require)
		}
		r.Post("/upload", speech.Upload)
		r.Post("/translate_audio", speech.TranslateAudio)
		r.Post("/translate_text", speech.TranslateText)
	})

	// Account routes need a user store
	if rt.deps.Accounts != nil && rt.deps.Sessions != nil {
		authH := handlers.NewAuthHandler(rt.deps.Accounts, rt.deps.Sessions)
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.With(rt.deps.Sessions.Require).Get("/me", authH.Me)

		if rt.deps.History != nil {
			historyH := handlers.NewHistoryHandler(rt.deps.History)
			r.With(rt.deps.Sessions.Require).Get("/history", historyH.List)
		}
	}

	return r
}

// Close stops background work started by Setup.
func (rt *Router) Close() {
	rt.stopOnce.Do(func() { close(rt.stop) })
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

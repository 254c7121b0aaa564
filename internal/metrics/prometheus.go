package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus collectors for the speech pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Transcription pipeline
	TranscriptionJobs     *prometheus.CounterVec
	TranscriptionPolls    prometheus.Counter
	TranscriptionDuration prometheus.Histogram

	// Translation
	TranslationRequests *prometheus.CounterVec
	TranslationCache    *prometheus.CounterVec

	// HTTP API
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TranscriptionJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "speech_transcription_jobs_total",
			Help: "Transcription jobs by provider and outcome",
		}, []string{"provider", "outcome"}),
		TranscriptionPolls: factory.NewCounter(prometheus.CounterOpts{
			Name: "speech_transcription_polls_total",
			Help: "Status queries issued against the transcription provider",
		}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "speech_transcription_duration_seconds",
			Help:    "Time from submission to terminal job status",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		}),

		TranslationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "speech_translation_requests_total",
			Help: "Translation attempts by outcome (ok, not_found, error)",
		}, []string{"outcome"}),
		TranslationCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "speech_translation_cache_total",
			Help: "Translation cache lookups by result (hit, miss)",
		}, []string{"result"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "speech_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "speech_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) ObserveJob(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TranscriptionJobs.WithLabelValues(provider, outcome).Inc()
	m.TranscriptionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePoll() {
	if m == nil {
		return
	}
	m.TranscriptionPolls.Inc()
}

func (m *Metrics) ObserveTranslation(outcome string) {
	if m == nil {
		return
	}
	m.TranslationRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.TranslationCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	STT         STTConfig
	Polling     PollingConfig
	Translation TranslationConfig
	Storage     StorageConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	MaxUploadBytes int64
	CORSOrigins    []string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Enabled       bool
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
}

type STTConfig struct {
	Backend     string // "revai" or "whisper"
	RevAIKey    string
	RevAIURL    string
	OpenAIKey   string
	OpenAIModel string
}

// PollingConfig bounds the transcription polling loop.
type PollingConfig struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

type TranslationConfig struct {
	Backend         string // "google", "openai", "anthropic" or "ollama"
	FallbackBackend string
	GoogleURL       string
	OpenAIKey       string
	OpenAIModel     string
	AnthropicKey    string
	AnthropicModel  string
	OllamaURL       string
	OllamaModel     string
	CacheTTL        time.Duration
}

type StorageConfig struct {
	Backend     string // "local" or "supabase"
	UploadDir   string
	SupabaseURL string
	SupabaseKey string
	Bucket      string
	Retention   time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 5000)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	authEnabled, err := getEnvBool("AUTH_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_ENABLED: %w", err)
	}

	sessionTTL, err := getEnvDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	pollInterval, err := getEnvDuration("POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}

	pollAttempts, err := getEnvInt("POLL_MAX_ATTEMPTS", 360)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_MAX_ATTEMPTS: %w", err)
	}

	pollTimeout, err := getEnvDuration("POLL_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_TIMEOUT: %w", err)
	}

	cacheTTL, err := getEnvDuration("TRANSLATION_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSLATION_CACHE_TTL: %w", err)
	}

	retention, err := getEnvDuration("ARTIFACT_RETENTION", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid ARTIFACT_RETENTION: %w", err)
	}

	rps, err := getEnvFloat("RATE_LIMIT_RPS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	burst, err := getEnvInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			MaxUploadBytes: int64(maxUpload),
			CORSOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			Enabled:       authEnabled,
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    sessionTTL,
			CookieName:    getEnv("SESSION_COOKIE", "session"),
		},
		STT: STTConfig{
			Backend:     getEnv("STT_BACKEND", "revai"),
			RevAIKey:    getEnv("REVAI_API_KEY", ""),
			RevAIURL:    getEnv("REVAI_BASE_URL", "https://api.rev.ai/speechtotext/v1"),
			OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel: getEnv("STT_OPENAI_MODEL", "whisper-1"),
		},
		Polling: PollingConfig{
			Interval:    pollInterval,
			MaxAttempts: pollAttempts,
			Timeout:     pollTimeout,
		},
		Translation: TranslationConfig{
			Backend:         getEnv("TRANSLATE_BACKEND", "google"),
			FallbackBackend: getEnv("TRANSLATE_FALLBACK_BACKEND", ""),
			GoogleURL:       getEnv("GOOGLE_TRANSLATE_URL", "https://translate.googleapis.com/translate_a/single"),
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("TRANSLATE_OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("TRANSLATE_ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:     getEnv("TRANSLATE_OLLAMA_MODEL", "llama3"),
			CacheTTL:        cacheTTL,
		},
		Storage: StorageConfig{
			Backend:     getEnv("STORAGE_BACKEND", "local"),
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			SupabaseKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:      getEnv("STORAGE_BUCKET", "uploads"),
			Retention:   retention,
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate reports settings the configured backends cannot run without.
func (c *Config) Validate() error {
	var missing []string
	switch c.STT.Backend {
	case "revai":
		if c.STT.RevAIKey == "" {
			missing = append(missing, "REVAI_API_KEY")
		}
	case "whisper":
		if c.STT.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown STT_BACKEND %q", c.STT.Backend)
	}
	if c.Auth.Enabled && c.Auth.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	// Accounts live in postgres; without it nobody could log in to pass the gate.
	if c.Auth.Enabled && c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Storage.Backend == "supabase" && (c.Storage.SupabaseURL == "" || c.Storage.SupabaseKey == "") {
		missing = append(missing, "SUPABASE_URL", "SUPABASE_SERVICE_KEY")
	}
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port           int           `env:"PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"120s"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Question answering
	QAProvider string `env:"QA_PROVIDER" envDefault:"huggingface"` // "huggingface", "openai", "anthropic" or "extractive"
	QAModel    string `env:"QA_MODEL"`

	// Summarization
	SummaryProvider      string `env:"SUMMARY_PROVIDER" envDefault:"huggingface"`
	SummaryModel         string `env:"SUMMARY_MODEL"`
	SummaryEarlyStopping bool   `env:"SUMMARY_EARLY_STOPPING" envDefault:"true"`

	ModelTimeout time.Duration `env:"MODEL_TIMEOUT" envDefault:"60s"`

	// Provider credentials
	HFAPIURL        string        `env:"HF_API_URL" envDefault:"https://router.huggingface.co/hf-inference/models"`
	HFAPIToken      string        `env:"HF_API_TOKEN"`
	HFRetries       int           `env:"HF_RETRIES" envDefault:"3"`
	HFRetryBackoff  time.Duration `env:"HF_RETRY_BACKOFF" envDefault:"2s"`
	OpenAIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL"`
	AnthropicKey    string        `env:"ANTHROPIC_API_KEY"`
	AnthropicMaxTok int64         `env:"ANTHROPIC_MAX_TOKENS" envDefault:"1024"`

	// Embeddings back the extractive provider
	EmbeddingProvider string `env:"EMBEDDING_PROVIDER" envDefault:"local"` // "local" or "openai"
	EmbeddingModel    string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// Session state
	SessionProvider string        `env:"SESSION_PROVIDER" envDefault:"memory"` // "memory" or "redis"
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SessionCookie   string        `env:"SESSION_COOKIE" envDefault:"nlpm_session"`
}

// Default model identifiers per provider, used when QA_MODEL / SUMMARY_MODEL are unset.
var (
	DefaultQAModels = map[string]string{
		"huggingface": "deepset/roberta-base-squad2",
		"openai":      "gpt-4o-mini",
		"anthropic":   "claude-haiku-4-5-20251001",
		"extractive":  "sentence-similarity",
	}
	DefaultSummaryModels = map[string]string{
		"huggingface": "facebook/bart-large-cnn",
		"openai":      "gpt-4o-mini",
		"anthropic":   "claude-haiku-4-5-20251001",
		"extractive":  "centroid",
	}
)

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	if cfg.QAModel == "" {
		cfg.QAModel = DefaultQAModels[cfg.QAProvider]
	}
	if cfg.SummaryModel == "" {
		cfg.SummaryModel = DefaultSummaryModels[cfg.SummaryProvider]
	}
	return cfg
}

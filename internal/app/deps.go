package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"nlp-master/internal/config"
	"nlp-master/internal/embeddings"
	"nlp-master/internal/gallery"
	"nlp-master/internal/llm"
	"nlp-master/internal/logger"
	"nlp-master/internal/metrics"
	"nlp-master/internal/registry"
	"nlp-master/internal/session"
	"nlp-master/internal/web"
	"nlp-master/internal/workflow"
)

// Deps bundles the runtime dependencies of the web service.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Workflow *workflow.Service
	Sessions session.Store
	Cookies  session.Cookies
	Gallery  *gallery.Gallery
	Pages    *web.Renderer
	Metrics  *metrics.Metrics

	QAModels      *registry.Registry[llm.QuestionAnswerer]
	SummaryModels *registry.Registry[llm.Summarizer]
}

// LoadedModels lists the model handles initialized so far.
func (d Deps) LoadedModels() []string {
	return append(d.QAModels.Loaded(), d.SummaryModels.Loaded()...)
}

// Build loads an optional .env file, the config and all shared components.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	return BuildWith(cfg, log)
}

// BuildWith wires components from an explicit config. Model handles are not
// created here; the registries initialize them on first use.
func BuildWith(cfg config.Config, log *slog.Logger) (Deps, error) {
	if err := checkProvider("QA_PROVIDER", cfg.QAProvider, cfg); err != nil {
		return Deps{}, err
	}
	if err := checkProvider("SUMMARY_PROVIDER", cfg.SummaryProvider, cfg); err != nil {
		return Deps{}, err
	}

	g, err := gallery.Load()
	if err != nil {
		return Deps{}, fmt.Errorf("failed to load gallery: %w", err)
	}
	pages, err := web.NewRenderer()
	if err != nil {
		return Deps{}, fmt.Errorf("failed to load templates: %w", err)
	}
	sessions, err := buildSessions(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize sessions: %w", err)
	}

	m := metrics.New()
	qaModels := registry.New[llm.QuestionAnswerer]()
	summaryModels := registry.New[llm.Summarizer]()
	svc := workflow.New(log, workflow.Options{
		QA: workflow.Model[llm.QuestionAnswerer]{
			Provider: cfg.QAProvider,
			Name:     cfg.QAModel,
			Registry: qaModels,
			Load:     qaLoader(cfg, log),
		},
		Summarizer: workflow.Model[llm.Summarizer]{
			Provider: cfg.SummaryProvider,
			Name:     cfg.SummaryModel,
			Registry: summaryModels,
			Load:     summaryLoader(cfg, log),
		},
		EarlyStopping: cfg.SummaryEarlyStopping,
		Metrics:       m,
	})

	return Deps{
		Config:        cfg,
		Log:           log,
		Workflow:      svc,
		Sessions:      sessions,
		Cookies:       session.Cookies{Name: cfg.SessionCookie, TTL: cfg.SessionTTL},
		Gallery:       g,
		Pages:         pages,
		Metrics:       m,
		QAModels:      qaModels,
		SummaryModels: summaryModels,
	}, nil
}

func checkProvider(key, provider string, cfg config.Config) error {
	switch provider {
	case "huggingface":
		return nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when %s=openai", key)
		}
		return nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when %s=anthropic", key)
		}
		return nil
	case "extractive":
		if cfg.EmbeddingProvider == "openai" && cfg.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when EMBEDDING_PROVIDER=openai")
		}
		return nil
	default:
		return fmt.Errorf("invalid %s: %s (valid options: huggingface, openai, anthropic, extractive)", key, provider)
	}
}

func qaLoader(cfg config.Config, log *slog.Logger) registry.Loader[llm.QuestionAnswerer] {
	return func(_ context.Context, id string) (llm.QuestionAnswerer, error) {
		log.Info("initializing QA model", "id", id)
		switch cfg.QAProvider {
		case "huggingface":
			qa, err := llm.NewHuggingFaceQA(cfg.HFAPIURL, cfg.HFAPIToken, cfg.QAModel, cfg.ModelTimeout)
			if err != nil {
				return nil, err
			}
			return qa.WithRetry(cfg.HFRetries, cfg.HFRetryBackoff), nil
		case "openai":
			return llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, openai.ChatModel(cfg.QAModel), cfg.ModelTimeout)
		case "anthropic":
			return llm.NewAnthropicClient(cfg.AnthropicKey, cfg.QAModel, cfg.AnthropicMaxTok, cfg.ModelTimeout)
		case "extractive":
			embedder, err := buildEmbedder(cfg, log)
			if err != nil {
				return nil, err
			}
			return llm.NewExtractiveQA(embedder), nil
		default:
			return nil, fmt.Errorf("invalid QA_PROVIDER: %s", cfg.QAProvider)
		}
	}
}

func summaryLoader(cfg config.Config, log *slog.Logger) registry.Loader[llm.Summarizer] {
	return func(_ context.Context, id string) (llm.Summarizer, error) {
		log.Info("initializing summarization model", "id", id)
		switch cfg.SummaryProvider {
		case "huggingface":
			s, err := llm.NewHuggingFaceSummarizer(cfg.HFAPIURL, cfg.HFAPIToken, cfg.SummaryModel, cfg.ModelTimeout)
			if err != nil {
				return nil, err
			}
			return s.WithRetry(cfg.HFRetries, cfg.HFRetryBackoff), nil
		case "openai":
			return llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, openai.ChatModel(cfg.SummaryModel), cfg.ModelTimeout)
		case "anthropic":
			return llm.NewAnthropicClient(cfg.AnthropicKey, cfg.SummaryModel, cfg.AnthropicMaxTok, cfg.ModelTimeout)
		case "extractive":
			embedder, err := buildEmbedder(cfg, log)
			if err != nil {
				return nil, err
			}
			return llm.NewExtractiveSummarizer(embedder), nil
		default:
			return nil, fmt.Errorf("invalid SUMMARY_PROVIDER: %s", cfg.SummaryProvider)
		}
	}
}

func buildEmbedder(cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "openai":
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, cfg.OpenAIBaseURL, openai.EmbeddingModel(cfg.EmbeddingModel))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		log.Info("using OpenAI embedder", "model", cfg.EmbeddingModel)
		return embedder, nil
	case "local", "":
		log.Info("using local hashing embedder")
		return embeddings.NewHashingEmbedder(0), nil
	default:
		return nil, fmt.Errorf("invalid EMBEDDING_PROVIDER: %s (valid options: local, openai)", cfg.EmbeddingProvider)
	}
}

func buildSessions(cfg config.Config, log *slog.Logger) (session.Store, error) {
	switch cfg.SessionProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when SESSION_PROVIDER=redis")
		}
		store, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		if err != nil {
			// Sessions only hold form input; keep serving from memory.
			log.Warn("redis unavailable, falling back to in-memory sessions", "addr", cfg.RedisAddr, "err", err)
			return session.NewMemoryStore(cfg.SessionTTL), nil
		}
		log.Info("using Redis session store", "addr", cfg.RedisAddr)
		return store, nil
	case "memory", "":
		log.Info("using in-memory session store")
		return session.NewMemoryStore(cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("invalid SESSION_PROVIDER: %s (valid options: memory, redis)", cfg.SessionProvider)
	}
}

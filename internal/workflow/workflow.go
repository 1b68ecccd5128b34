package workflow

import (
	"context"
	"log/slog"
	"time"

	"nlp-master/internal/llm"
	"nlp-master/internal/registry"
)

// Outcome labels reported to the Recorder.
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation_error"
	OutcomeService    = "service_error"
)

// Recorder observes collaborator calls. metrics.Metrics implements it.
type Recorder interface {
	ObserveCall(workflow, provider, outcome string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCall(string, string, string, time.Duration) {}

// Model names a collaborator handle and how to initialize it on first use.
type Model[T any] struct {
	Provider string
	Name     string
	Registry *registry.Registry[T]
	Load     registry.Loader[T]
}

// ID is the registry key, "provider:name".
func (m Model[T]) ID() string {
	return m.Provider + ":" + m.Name
}

func (m Model[T]) handle(ctx context.Context) (T, error) {
	return m.Registry.Get(ctx, m.ID(), m.Load)
}

// Options configures a Service.
type Options struct {
	QA            Model[llm.QuestionAnswerer]
	Summarizer    Model[llm.Summarizer]
	EarlyStopping bool
	Metrics       Recorder
}

// Service orchestrates one synchronous collaborator call per user action.
type Service struct {
	log           *slog.Logger
	qa            Model[llm.QuestionAnswerer]
	summarizer    Model[llm.Summarizer]
	earlyStopping bool
	metrics       Recorder
}

func New(log *slog.Logger, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	if opts.QA.Registry == nil {
		opts.QA.Registry = registry.New[llm.QuestionAnswerer]()
	}
	if opts.Summarizer.Registry == nil {
		opts.Summarizer.Registry = registry.New[llm.Summarizer]()
	}
	if opts.Metrics == nil {
		opts.Metrics = nopRecorder{}
	}
	return &Service{
		log:           log,
		qa:            opts.QA,
		summarizer:    opts.Summarizer,
		earlyStopping: opts.EarlyStopping,
		metrics:       opts.Metrics,
	}
}

// Models reports the configured model ids, for the page sidebar and health checks.
func (s *Service) Models() (qa, summarizer string) {
	return s.qa.ID(), s.summarizer.ID()
}

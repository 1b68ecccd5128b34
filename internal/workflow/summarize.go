package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nlp-master/internal/chunker"
	"nlp-master/internal/llm"
)

const summaryInputHint = "Please enter some text to summarize."

// SummarizationRequest carries the slider values unmodified to the service.
type SummarizationRequest struct {
	Text      string
	MinLength int
	MaxLength int
	BeamCount int
}

// Stats compares word counts of the original and the summary.
type Stats struct {
	OriginalWords         int
	SummaryWords          int
	CompressionPercentage float64
}

// SummaryOutcome is the generated summary with its statistics.
type SummaryOutcome struct {
	Summary            string
	Stats              Stats
	CompressionDisplay string
}

// Summarize validates req, calls the summarization service once and computes Stats.
func (s *Service) Summarize(ctx context.Context, req SummarizationRequest) (SummaryOutcome, error) {
	if strings.TrimSpace(req.Text) == "" {
		s.metrics.ObserveCall("summarize", s.summarizer.Provider, OutcomeValidation, 0)
		return SummaryOutcome{}, &ValidationError{Field: "text", Message: MissingInput, Hint: summaryInputHint}
	}

	opts := llm.SummaryOptions{
		MinLength:     req.MinLength,
		MaxLength:     req.MaxLength,
		NumBeams:      req.BeamCount,
		EarlyStopping: s.earlyStopping,
	}
	start := time.Now()
	summary, err := call("summarize", func() (string, error) {
		sum, err := s.summarizer.handle(ctx)
		if err != nil {
			return "", err
		}
		return sum.Summarize(ctx, req.Text, opts)
	})
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.ObserveCall("summarize", s.summarizer.Provider, OutcomeService, elapsed)
		s.log.Error("summarization failed", "model", s.summarizer.ID(), "duration", elapsed, "err", err)
		return SummaryOutcome{}, err
	}

	stats := ComputeStats(req.Text, summary)
	s.metrics.ObserveCall("summarize", s.summarizer.Provider, OutcomeOK, elapsed)
	s.log.Info("summary generated",
		"model", s.summarizer.ID(),
		"duration", elapsed,
		"original_words", stats.OriginalWords,
		"summary_words", stats.SummaryWords,
	)
	return SummaryOutcome{
		Summary:            summary,
		Stats:              stats,
		CompressionDisplay: FormatCompression(stats.CompressionPercentage),
	}, nil
}

// ComputeStats counts whitespace-delimited words in both texts.
func ComputeStats(original, summary string) Stats {
	orig := chunker.WordCount(original)
	summ := chunker.WordCount(summary)
	return Stats{
		OriginalWords:         orig,
		SummaryWords:          summ,
		CompressionPercentage: Compression(orig, summ),
	}
}

// Compression is (orig - summ) / orig * 100, or 0 when orig is 0.
// A summary longer than the original yields a negative value.
func Compression(orig, summ int) float64 {
	if orig <= 0 {
		return 0
	}
	return float64(orig-summ) / float64(orig) * 100
}

// FormatCompression renders a compression percentage with one decimal.
func FormatCompression(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

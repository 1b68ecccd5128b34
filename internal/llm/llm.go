package llm

import "context"

// Answer is an extracted answer span. Start and End are byte offsets into
// the context, or -1 when the provider could not locate the span.
type Answer struct {
	Text  string
	Score float64
	Start int
	End   int
}

// SummaryOptions are generation parameters passed to the summarization model.
type SummaryOptions struct {
	MinLength     int
	MaxLength     int
	NumBeams      int
	EarlyStopping bool
}

// QuestionAnswerer finds the answer to a question inside a context.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question, context string) (Answer, error)
}

// Summarizer condenses text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error)
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}

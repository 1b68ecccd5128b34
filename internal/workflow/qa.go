package workflow

import (
	"context"
	"strconv"
	"strings"
	"time"

	"nlp-master/internal/llm"
)

// Verdict classifies an answer against the confidence threshold.
type Verdict string

const (
	VerdictAccepted      Verdict = "accepted"
	VerdictLowConfidence Verdict = "low_confidence"
)

const (
	lowConfidenceHint = "Try rephrasing your question for better results."
	qaInputHint       = "Please enter both context and question."
)

// QARequest is one question against one context.
type QARequest struct {
	Context             string
	Question            string
	ConfidenceThreshold float64
}

// QAOutcome is the classified answer. Low confidence answers are still returned.
type QAOutcome struct {
	Answer     llm.Answer
	Verdict    Verdict
	Confidence string
	Hint       string
}

// Answer validates req, calls the QA service once and classifies the result.
func (s *Service) Answer(ctx context.Context, req QARequest) (QAOutcome, error) {
	if strings.TrimSpace(req.Context) == "" {
		s.metrics.ObserveCall("qa", s.qa.Provider, OutcomeValidation, 0)
		return QAOutcome{}, &ValidationError{Field: "context", Message: MissingInput, Hint: qaInputHint}
	}
	if strings.TrimSpace(req.Question) == "" {
		s.metrics.ObserveCall("qa", s.qa.Provider, OutcomeValidation, 0)
		return QAOutcome{}, &ValidationError{Field: "question", Message: MissingInput, Hint: qaInputHint}
	}

	start := time.Now()
	ans, err := call("qa", func() (llm.Answer, error) {
		qa, err := s.qa.handle(ctx)
		if err != nil {
			return llm.Answer{}, err
		}
		return qa.Answer(ctx, req.Question, req.Context)
	})
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.ObserveCall("qa", s.qa.Provider, OutcomeService, elapsed)
		s.log.Error("qa failed", "model", s.qa.ID(), "duration", elapsed, "err", err)
		return QAOutcome{}, err
	}

	out := QAOutcome{
		Answer:     ans,
		Verdict:    Classify(ans.Score, req.ConfidenceThreshold),
		Confidence: FormatConfidence(ans.Score),
	}
	if out.Verdict == VerdictLowConfidence {
		out.Hint = lowConfidenceHint
	}
	s.metrics.ObserveCall("qa", s.qa.Provider, OutcomeOK, elapsed)
	s.log.Info("qa answered",
		"model", s.qa.ID(),
		"duration", elapsed,
		"score", ans.Score,
		"verdict", out.Verdict,
	)
	return out, nil
}

// Classify accepts a score strictly greater than threshold.
func Classify(score, threshold float64) Verdict {
	if score > threshold {
		return VerdictAccepted
	}
	return VerdictLowConfidence
}

// FormatConfidence renders score as a percentage with up to two decimals,
// trailing zeros trimmed: 0.92 -> "92%", 0.9234 -> "92.34%".
func FormatConfidence(score float64) string {
	s := strconv.FormatFloat(score*100, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "%"
}

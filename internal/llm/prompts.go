package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	qaSystemPrompt = "You are an extractive question answering model. " +
		"Answer with the shortest span copied verbatim from the context. " +
		`Reply with JSON only: {"answer": "<span>", "score": <confidence between 0 and 1>}. ` +
		`If the context does not contain the answer, reply {"answer": "", "score": 0}.`

	summarySystemPrompt = "You are an abstractive summarization model. " +
		"Write a single fluent paragraph that preserves the key facts of the text. " +
		"Do not add information that is not in the text."
)

func qaUserPrompt(question, contextText string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)
}

func summaryUserPrompt(text string, opts SummaryOptions) string {
	return fmt.Sprintf("Summarize the following text in %d to %d words.\n\n%s", opts.MinLength, opts.MaxLength, text)
}

// parseAnswer reads the JSON reply of a chat model and locates the span in
// the context. Replies wrapped in prose or code fences are tolerated.
func parseAnswer(reply, contextText string) (Answer, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return Answer{}, fmt.Errorf("model reply is not JSON: %q", truncate(reply, 120))
	}
	var payload struct {
		Answer string  `json:"answer"`
		Score  float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &payload); err != nil {
		return Answer{}, fmt.Errorf("decode model reply: %w", err)
	}
	text := strings.TrimSpace(payload.Answer)
	from, to := locateSpan(contextText, text)
	return Answer{Text: text, Score: clampScore(payload.Score), Start: from, End: to}, nil
}

// locateSpan returns the byte offsets of span in text, falling back to a
// case-insensitive match. Returns -1, -1 when absent.
func locateSpan(text, span string) (int, int) {
	if span == "" {
		return -1, -1
	}
	if i := strings.Index(text, span); i >= 0 {
		return i, i + len(span)
	}
	// ToLower can change byte lengths outside ASCII; only trust equal lengths.
	lower := strings.ToLower(text)
	if len(lower) == len(text) {
		if i := strings.Index(lower, strings.ToLower(span)); i >= 0 {
			return i, i + len(span)
		}
	}
	return -1, -1
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nlp-master/internal/retry"
)

const defaultHFBaseURL = "https://router.huggingface.co/hf-inference/models"

// hfClient posts JSON payloads to the Hugging Face Inference API.
type hfClient struct {
	baseURL string
	token   string
	model   string
	http    *http.Client

	attempts int
	backoff  time.Duration
}

func newHFClient(baseURL, token, model string, timeout time.Duration) (*hfClient, error) {
	if model == "" {
		return nil, fmt.Errorf("model required")
	}
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	if timeout <= 0 {
		timeout = defaultChatTimeout
	}
	return &hfClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		model:    model,
		http:     &http.Client{Timeout: timeout},
		attempts: 1,
	}, nil
}

// post retries while the endpoint answers 503 (model loading) or 429.
func (c *hfClient) post(ctx context.Context, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return retry.Do(ctx, c.attempts, c.backoff, func(attempt int) error {
		return c.send(ctx, body, out)
	})
}

func (c *hfClient) send(ctx context.Context, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+c.model, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := fmt.Errorf("huggingface %s: %s", c.model, hfErrorMessage(resp.StatusCode, respBody))
		if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
			return retry.Retryable(err)
		}
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("huggingface %s: decode response: %w", c.model, err)
	}
	return nil
}

// hfErrorMessage extracts {"error": "..."} or {"error": ["..."]} bodies.
func hfErrorMessage(status int, body []byte) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		var msg string
		if json.Unmarshal(payload.Error, &msg) == nil && msg != "" {
			return msg
		}
		var msgs []string
		if json.Unmarshal(payload.Error, &msgs) == nil && len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return truncate(text, 200)
	}
	return http.StatusText(status)
}

// HuggingFaceQA answers questions with an extractive QA model.
type HuggingFaceQA struct {
	c *hfClient
}

// NewHuggingFaceQA returns a QA adapter for model, e.g. deepset/roberta-base-squad2.
func NewHuggingFaceQA(baseURL, token, model string, timeout time.Duration) (*HuggingFaceQA, error) {
	c, err := newHFClient(baseURL, token, model, timeout)
	if err != nil {
		return nil, err
	}
	return &HuggingFaceQA{c: c}, nil
}

// WithRetry makes up to attempts requests while the model is loading.
func (q *HuggingFaceQA) WithRetry(attempts int, backoff time.Duration) *HuggingFaceQA {
	q.c.attempts, q.c.backoff = attempts, backoff
	return q
}

type hfAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

func (q *HuggingFaceQA) Answer(ctx context.Context, question, contextText string) (Answer, error) {
	payload := map[string]any{
		"inputs": map[string]string{
			"question": question,
			"context":  contextText,
		},
	}
	var raw json.RawMessage
	if err := q.c.post(ctx, payload, &raw); err != nil {
		return Answer{}, err
	}

	// top_k > 1 deployments return a ranked list.
	var best hfAnswer
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []hfAnswer
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return Answer{}, fmt.Errorf("huggingface %s: decode answers: %w", q.c.model, err)
		}
		if len(list) == 0 {
			return Answer{}, fmt.Errorf("huggingface %s: no answers returned", q.c.model)
		}
		best = list[0]
	} else if err := json.Unmarshal(trimmed, &best); err != nil {
		return Answer{}, fmt.Errorf("huggingface %s: decode answer: %w", q.c.model, err)
	}

	return Answer{
		Text:  strings.TrimSpace(best.Answer),
		Score: clampScore(best.Score),
		Start: best.Start,
		End:   best.End,
	}, nil
}

// HuggingFaceSummarizer summarizes with a seq2seq model.
type HuggingFaceSummarizer struct {
	c *hfClient
}

// NewHuggingFaceSummarizer returns a summarization adapter for model, e.g. facebook/bart-large-cnn.
func NewHuggingFaceSummarizer(baseURL, token, model string, timeout time.Duration) (*HuggingFaceSummarizer, error) {
	c, err := newHFClient(baseURL, token, model, timeout)
	if err != nil {
		return nil, err
	}
	return &HuggingFaceSummarizer{c: c}, nil
}

func (s *HuggingFaceSummarizer) WithRetry(attempts int, backoff time.Duration) *HuggingFaceSummarizer {
	s.c.attempts, s.c.backoff = attempts, backoff
	return s
}

func (s *HuggingFaceSummarizer) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"min_length":     opts.MinLength,
			"max_length":     opts.MaxLength,
			"num_beams":      opts.NumBeams,
			"early_stopping": opts.EarlyStopping,
		},
	}
	var out []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := s.c.post(ctx, payload, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("huggingface %s: no summary returned", s.c.model)
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

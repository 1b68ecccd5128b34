package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	model     anthropic.Model
	client    *anthropic.Client
	maxTokens int64
	timeout   time.Duration
}

// NewAnthropicClient builds a client with defaults against api.anthropic.com.
func NewAnthropicClient(apiKey, model string, maxTokens int64, timeout time.Duration) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = "claude-haiku-4-5-20251001"
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	if timeout <= 0 {
		timeout = defaultChatTimeout
	}
	cli := anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0))
	return &AnthropicClient{
		model:     anthropic.Model(model),
		client:    &cli,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

func (c *AnthropicClient) Answer(ctx context.Context, question, contextText string) (Answer, error) {
	reply, err := c.complete(ctx, qaSystemPrompt, qaUserPrompt(question, contextText), 0)
	if err != nil {
		return Answer{}, err
	}
	return parseAnswer(reply, contextText)
}

// Summarize ignores NumBeams: the Messages API samples a single completion.
func (c *AnthropicClient) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	reply, err := c.complete(ctx, summarySystemPrompt, summaryUserPrompt(text, opts), defaultChatTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (c *AnthropicClient) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil anthropic client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	msg, err := c.client.Messages.New(reqCtx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("anthropic: no text content returned")
	}
	return out.String(), nil
}

package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockQuestionAnswerer is a mock implementation of QuestionAnswerer using testify/mock.
type MockQuestionAnswerer struct {
	mock.Mock
}

func (m *MockQuestionAnswerer) Answer(ctx context.Context, question, context string) (Answer, error) {
	args := m.Called(ctx, question, context)
	return args.Get(0).(Answer), args.Error(1)
}

// MockSummarizer is a mock implementation of Summarizer using testify/mock.
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	args := m.Called(ctx, text, opts)
	return args.String(0), args.Error(1)
}

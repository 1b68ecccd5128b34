package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
	}

	for _, tt := range tests {
		result := ExponentialBackoff(tt.attempt, base)
		if result != tt.expected {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, result, tt.expected)
		}
	}
}

func TestDo(t *testing.T) {
	loading := errors.New("model is currently loading")
	badInput := errors.New("context is required")

	tests := []struct {
		name      string
		attempts  int
		results   []error
		wantCalls int
		wantErr   error
	}{
		{
			name:      "succeeds first time",
			attempts:  3,
			results:   []error{nil},
			wantCalls: 1,
		},
		{
			name:      "retries transient failure",
			attempts:  3,
			results:   []error{Retryable(loading), nil},
			wantCalls: 2,
		},
		{
			name:      "permanent failure is not retried",
			attempts:  3,
			results:   []error{badInput},
			wantCalls: 1,
			wantErr:   badInput,
		},
		{
			name:      "gives up after attempts",
			attempts:  2,
			results:   []error{Retryable(loading), Retryable(loading), nil},
			wantCalls: 2,
			wantErr:   loading,
		},
		{
			name:      "zero attempts still calls once",
			attempts:  0,
			results:   []error{Retryable(loading)},
			wantCalls: 1,
			wantErr:   loading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), tt.attempts, time.Millisecond, func(int) error {
				err := tt.results[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, calls)
			}
			if err != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, 5, time.Hour, func(int) error {
		calls++
		cancel()
		return Retryable(errors.New("busy"))
	})
	if calls != 1 {
		t.Errorf("expected a single call before cancellation, got %d", calls)
	}
	if err == nil || err.Error() != "busy" {
		t.Errorf("expected last error, got %v", err)
	}
}

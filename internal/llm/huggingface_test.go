package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHuggingFaceQA(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantText  string
		wantScore float64
		wantErr   string
	}{
		{
			name:      "single answer object",
			status:    http.StatusOK,
			body:      `{"score":0.92,"start":31,"end":44,"answer":"Paris, France"}`,
			wantText:  "Paris, France",
			wantScore: 0.92,
		},
		{
			name:      "ranked list takes first",
			status:    http.StatusOK,
			body:      `[{"score":0.7,"start":0,"end":5,"answer":"Paris"},{"score":0.1,"start":0,"end":6,"answer":"France"}]`,
			wantText:  "Paris",
			wantScore: 0.7,
		},
		{
			name:    "model loading error string",
			status:  http.StatusServiceUnavailable,
			body:    `{"error":"Model deepset/roberta-base-squad2 is currently loading","estimated_time":20.0}`,
			wantErr: "is currently loading",
		},
		{
			name:    "error list",
			status:  http.StatusBadRequest,
			body:    `{"error":["context is required"]}`,
			wantErr: "context is required",
		},
		{
			name:    "empty list",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: "no answers returned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/deepset/roberta-base-squad2" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer hf_test" {
					t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
				}
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			qa, err := NewHuggingFaceQA(srv.URL, "hf_test", "deepset/roberta-base-squad2", time.Second)
			if err != nil {
				t.Fatalf("unexpected constructor error: %v", err)
			}
			ans, err := qa.Answer(context.Background(), "Where is the Eiffel Tower located?", "The Eiffel Tower is located in Paris, France.")

			if got["inputs"]["question"] != "Where is the Eiffel Tower located?" || got["inputs"]["context"] == "" {
				t.Errorf("unexpected payload %v", got)
			}
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ans.Text != tt.wantText || ans.Score != tt.wantScore {
				t.Errorf("got %+v, want text %q score %v", ans, tt.wantText, tt.wantScore)
			}
		})
	}
}

func TestHuggingFaceRetriesWhileModelLoads(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{name: "no retry by default", attempts: 0, wantCalls: 1, wantErr: true},
		{name: "recovers once loaded", attempts: 3, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if calls < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte(`{"error":"Model facebook/bart-large-cnn is currently loading","estimated_time":20.0}`))
					return
				}
				_, _ = w.Write([]byte(`[{"summary_text":"A short summary."}]`))
			}))
			defer srv.Close()

			s, err := NewHuggingFaceSummarizer(srv.URL, "", "facebook/bart-large-cnn", time.Second)
			if err != nil {
				t.Fatalf("unexpected constructor error: %v", err)
			}
			if tt.attempts > 0 {
				s = s.WithRetry(tt.attempts, time.Millisecond)
			}
			out, err := s.Summarize(context.Background(), "text", SummaryOptions{MinLength: 10, MaxLength: 50, NumBeams: 1})

			if calls != tt.wantCalls {
				t.Errorf("expected %d requests, got %d", tt.wantCalls, calls)
			}
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "currently loading") {
					t.Errorf("expected loading error, got %v", err)
				}
				return
			}
			if err != nil || out != "A short summary." {
				t.Errorf("got %q, %v", out, err)
			}
		})
	}
}

func TestHuggingFaceDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"context is required"}`))
	}))
	defer srv.Close()

	qa, err := NewHuggingFaceQA(srv.URL, "", "deepset/roberta-base-squad2", time.Second)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	if _, err := qa.WithRetry(3, time.Millisecond).Answer(context.Background(), "q", ""); err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("expected a single request, got %d", calls)
	}
}

func TestHuggingFaceSummarizerPassesParameters(t *testing.T) {
	var payload struct {
		Inputs     string         `json:"inputs"`
		Parameters map[string]any `json:"parameters"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("expected no auth header without token")
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(`[{"summary_text":" AI is intelligence demonstrated by machines. "}]`))
	}))
	defer srv.Close()

	s, err := NewHuggingFaceSummarizer(srv.URL+"/", "", "facebook/bart-large-cnn", time.Second)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	out, err := s.Summarize(context.Background(), "long text", SummaryOptions{MinLength: 50, MaxLength: 150, NumBeams: 4, EarlyStopping: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "AI is intelligence demonstrated by machines." {
		t.Errorf("unexpected summary %q", out)
	}
	if payload.Inputs != "long text" {
		t.Errorf("unexpected inputs %q", payload.Inputs)
	}
	want := map[string]any{"min_length": 50.0, "max_length": 150.0, "num_beams": 4.0, "early_stopping": true}
	for k, v := range want {
		if payload.Parameters[k] != v {
			t.Errorf("parameter %s: got %v, want %v", k, payload.Parameters[k], v)
		}
	}
}

func TestNewHuggingFaceRequiresModel(t *testing.T) {
	if _, err := NewHuggingFaceQA("", "", "", 0); err == nil {
		t.Error("expected error for empty model")
	}
	if _, err := NewHuggingFaceSummarizer("", "", "", 0); err == nil {
		t.Error("expected error for empty model")
	}
}

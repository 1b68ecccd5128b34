package embeddings

import (
	"context"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector
		expected float32
	}{
		{
			name:     "identical vectors",
			a:        Vector{1, 0, 0},
			b:        Vector{1, 0, 0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        Vector{1, 0},
			b:        Vector{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        Vector{1, 0},
			b:        Vector{-1, 0},
			expected: -1.0,
		},
		{
			name:     "empty vectors",
			a:        Vector{},
			b:        Vector{},
			expected: 0.0,
		},
		{
			name:     "different length vectors",
			a:        Vector{1, 2},
			b:        Vector{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "zero vector",
			a:        Vector{0, 0},
			b:        Vector{1, 1},
			expected: 0.0,
		},
		{
			name:     "normalized vectors 45 degrees",
			a:        Vector{1, 0},
			b:        Vector{0.707, 0.707},
			expected: 0.707,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(result-tt.expected)) > 0.01 {
				t.Errorf("got %f, want %f", result, tt.expected)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid([]Vector{{1, 0}, {0, 1}, {1, 2, 3}})
	if len(got) != 2 || got[0] != 0.5 || got[1] != 0.5 {
		t.Errorf("unexpected centroid %v", got)
	}
	if Centroid(nil) != nil {
		t.Error("expected nil centroid for no vectors")
	}
}

func TestTermsDropsStopwords(t *testing.T) {
	got := Terms("Where is the Eiffel Tower located?")
	want := []string{"eiffel", "tower", "located"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHashingEmbedderRanksOverlap(t *testing.T) {
	e := NewHashingEmbedder(0)
	ctx := context.Background()

	question, _ := e.Embed(ctx, "Where is the Eiffel Tower located?")
	vectors, err := e.EmbedBatch(ctx, []string{
		"The Eiffel Tower is located in Paris, France.",
		"It was built in 1889.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(question) != defaultHashingDims {
		t.Fatalf("expected %d dims, got %d", defaultHashingDims, len(question))
	}

	related := CosineSimilarity(question, vectors[0])
	unrelated := CosineSimilarity(question, vectors[1])
	if related <= unrelated {
		t.Errorf("expected overlapping sentence to score higher: %f <= %f", related, unrelated)
	}
}

func TestHashingEmbedderDeterministic(t *testing.T) {
	e := NewHashingEmbedder(64)
	a, _ := e.Embed(context.Background(), "Python was created by Guido van Rossum")
	b, _ := e.Embed(context.Background(), "Python was created by Guido van Rossum")
	if CosineSimilarity(a, b) < 0.999 {
		t.Error("expected identical text to produce identical vectors")
	}
}

package chunker

import (
	"strings"
	"testing"
)

func TestChunkTextOverlap(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	chunks := ChunkText(text, Options{MaxTokens: 4, Overlap: 1})
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Text == chunks[1].Text {
		t.Fatal("expected overlap but not identical chunks")
	}
	if chunks[0].TokenCount != 4 {
		t.Fatalf("expected token count 4, got %d", chunks[0].TokenCount)
	}
	if chunks[1].Text != "four five six seven" {
		t.Errorf("expected second window to start at the overlap word, got %q", chunks[1].Text)
	}
}

func TestChunkTextOffsets(t *testing.T) {
	text := "  alpha\tbeta   gamma\n delta "
	chunks := ChunkText(text, Options{MaxTokens: 2})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if text[c.Start:c.End] != c.Text {
			t.Errorf("chunk %d: offsets [%d:%d] do not match text %q", c.Index, c.Start, c.End, c.Text)
		}
	}
	if chunks[0].Text != "alpha\tbeta" {
		t.Errorf("expected original spacing to be preserved, got %q", chunks[0].Text)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunks := ChunkText("", Options{MaxTokens: 10})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty input, got %d", len(chunks))
	}
}

func TestChunkTextNoOverlap(t *testing.T) {
	text := "one two three four five six"
	chunks := ChunkText(text, Options{MaxTokens: 3, Overlap: 0})

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].TokenCount != 3 || chunks[1].TokenCount != 3 {
		t.Errorf("expected 3 tokens per chunk, got %d and %d", chunks[0].TokenCount, chunks[1].TokenCount)
	}
}

func TestChunkTextDefaults(t *testing.T) {
	text := "word " + strings.Repeat("test ", 500)
	chunks := ChunkText(text, Options{})

	if len(chunks) == 0 {
		t.Error("expected chunks with default options")
	}
	for _, chunk := range chunks {
		if chunk.TokenCount > 400 {
			t.Errorf("chunk exceeded default max tokens (400): got %d", chunk.TokenCount)
		}
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminal punctuation",
			text: "The Eiffel Tower is located in Paris, France. It was built in 1889! Is it famous?",
			want: []string{
				"The Eiffel Tower is located in Paris, France.",
				"It was built in 1889!",
				"Is it famous?",
			},
		},
		{
			name: "abbreviation without trailing space stays joined",
			text: "Search engines (e.g., Google) are AI applications.",
			want: []string{"Search engines (e.g., Google) are AI applications."},
		},
		{
			name: "blank line separates paragraphs",
			text: "First paragraph without a period\n\n  Second paragraph.",
			want: []string{"First paragraph without a period", "Second paragraph."},
		},
		{
			name: "decimal numbers",
			text: "It covers 5.5 million square kilometers.",
			want: []string{"It covers 5.5 million square kilometers."},
		},
		{
			name: "whitespace only",
			text: " \n\t ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := Sentences(tt.text)
			if len(spans) != len(tt.want) {
				t.Fatalf("expected %d sentences, got %d: %+v", len(tt.want), len(spans), spans)
			}
			for i, s := range spans {
				if s.Text != tt.want[i] {
					t.Errorf("sentence %d: got %q, want %q", i, s.Text, tt.want[i])
				}
				if tt.text[s.Start:s.End] != s.Text {
					t.Errorf("sentence %d: offsets [%d:%d] do not match", i, s.Start, s.End)
				}
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one  two\tthree\nfour", 4},
	}
	for _, tt := range tests {
		if got := WordCount(tt.text); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

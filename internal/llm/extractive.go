package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"nlp-master/internal/chunker"
	"nlp-master/internal/embeddings"
)

// Sentences longer than this are split into overlapping windows before ranking.
const (
	maxCandidateWords = 48
	candidateOverlap  = 16
)

var errNoSentences = errors.New("text contains no sentences")

// ExtractiveQA answers by returning the context sentence most similar to the
// question. Score is the cosine similarity, clamped to [0,1].
type ExtractiveQA struct {
	embedder embeddings.Embedder
}

// NewExtractiveQA returns a local QA adapter backed by embedder.
func NewExtractiveQA(embedder embeddings.Embedder) *ExtractiveQA {
	return &ExtractiveQA{embedder: embedder}
}

func (q *ExtractiveQA) Answer(ctx context.Context, question, contextText string) (Answer, error) {
	candidates := answerCandidates(contextText)
	if len(candidates) == 0 {
		return Answer{}, errNoSentences
	}
	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, question)
	for _, c := range candidates {
		texts = append(texts, c.Text)
	}
	vectors, err := q.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return Answer{}, fmt.Errorf("embed candidates: %w", err)
	}
	if len(vectors) != len(texts) {
		return Answer{}, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	best, bestScore := 0, float32(-2)
	for i := range candidates {
		if s := embeddings.CosineSimilarity(vectors[0], vectors[i+1]); s > bestScore {
			best, bestScore = i, s
		}
	}
	c := candidates[best]
	return Answer{Text: c.Text, Score: clampScore(float64(bestScore)), Start: c.Start, End: c.End}, nil
}

// answerCandidates returns sentences, windowing the long ones.
func answerCandidates(text string) []chunker.Span {
	var out []chunker.Span
	for _, s := range chunker.Sentences(text) {
		if chunker.WordCount(s.Text) <= maxCandidateWords {
			out = append(out, s)
			continue
		}
		for _, w := range chunker.ChunkText(s.Text, chunker.Options{MaxTokens: maxCandidateWords, Overlap: candidateOverlap}) {
			out = append(out, chunker.Span{Text: w.Text, Start: s.Start + w.Start, End: s.Start + w.End})
		}
	}
	return out
}

// ExtractiveSummarizer keeps the sentences closest to the document centroid,
// in original order, within MaxLength words. NumBeams and EarlyStopping have
// no meaning for extraction and are ignored.
type ExtractiveSummarizer struct {
	embedder embeddings.Embedder
}

// NewExtractiveSummarizer returns a local summarization adapter backed by embedder.
func NewExtractiveSummarizer(embedder embeddings.Embedder) *ExtractiveSummarizer {
	return &ExtractiveSummarizer{embedder: embedder}
}

func (s *ExtractiveSummarizer) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	sentences := chunker.Sentences(text)
	if len(sentences) == 0 {
		return "", errNoSentences
	}
	maxWords := opts.MaxLength
	if maxWords <= 0 {
		maxWords = chunker.WordCount(text)
	}

	texts := make([]string, len(sentences))
	for i, sent := range sentences {
		texts[i] = sent.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return "", fmt.Errorf("embed sentences: %w", err)
	}
	if len(vectors) != len(texts) {
		return "", fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}
	centroid := embeddings.Centroid(vectors)

	type ranked struct {
		idx   int
		score float32
		words int
	}
	order := make([]ranked, len(sentences))
	for i := range sentences {
		order[i] = ranked{idx: i, score: embeddings.CosineSimilarity(centroid, vectors[i]), words: chunker.WordCount(texts[i])}
	}
	sort.SliceStable(order, func(a, b int) bool { return order[a].score > order[b].score })

	keep := make([]bool, len(sentences))
	total := 0
	for _, r := range order {
		if total+r.words > maxWords {
			continue
		}
		keep[r.idx] = true
		total += r.words
	}
	if total == 0 {
		// Even the best sentence is longer than the budget: cut it.
		words := strings.Fields(texts[order[0].idx])
		return strings.Join(words[:maxWords], " "), nil
	}

	var parts []string
	for i, k := range keep {
		if k {
			parts = append(parts, texts[i])
		}
	}
	return strings.Join(parts, " "), nil
}

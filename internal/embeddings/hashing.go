package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultHashingDims = 512

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"does": {}, "do": {}, "for": {}, "from": {}, "has": {}, "have": {}, "how": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "who": {}, "whom": {}, "why": {}, "with": {},
}

// HashingEmbedder is a local bag-of-words embedder: lowercased terms minus
// stopwords, hashed into a fixed number of buckets with sublinear term frequency.
// It needs no network and is deterministic.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder returns a HashingEmbedder; dims <= 0 selects the default.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = defaultHashingDims
	}
	return &HashingEmbedder{dims: dims}
}

func (h *HashingEmbedder) Embed(_ context.Context, text string) (Vector, error) {
	return h.vector(text), nil
}

func (h *HashingEmbedder) EmbedBatch(_ context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *HashingEmbedder) vector(text string) Vector {
	counts := make(map[int]float64)
	for _, term := range Terms(text) {
		hash := fnv.New32a()
		_, _ = hash.Write([]byte(term))
		counts[int(hash.Sum32()%uint32(h.dims))]++
	}
	vec := make(Vector, h.dims)
	for idx, n := range counts {
		vec[idx] = float32(1 + math.Log(n))
	}
	return vec
}

// Terms lowercases text, splits on anything that is not a letter or digit and
// drops stopwords.
func Terms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := fields[:0]
	for _, f := range fields {
		if _, skip := stopwords[f]; skip {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

package chunker

import (
	"strings"
	"unicode"
)

// Options controls how text is chunked.
type Options struct {
	MaxTokens int
	Overlap   int
}

// Chunk represents a window of the source text. Start and End are byte
// offsets into the source, so Text == source[Start:End].
type Chunk struct {
	Index      int
	Text       string
	TokenCount int
	Start      int
	End        int
}

// Span is a trimmed region of the source text.
type Span struct {
	Text  string
	Start int
	End   int
}

// WordCount counts whitespace-delimited words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ChunkText performs a simple token-based sliding window with overlap.
// Tokens are approximated by whitespace-delimited words to avoid heavy dependencies.
func ChunkText(text string, opts Options) []Chunk {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 400
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}

	words := wordSpans(text)
	var chunks []Chunk
	if len(words) == 0 {
		return chunks
	}

	step := opts.MaxTokens - opts.Overlap
	if step <= 0 {
		step = opts.MaxTokens
	}

	for start := 0; start < len(words); start += step {
		end := start + opts.MaxTokens
		if end > len(words) {
			end = len(words)
		}
		from, to := words[start].Start, words[end-1].End
		chunks = append(chunks, Chunk{
			Index:      len(chunks),
			Text:       text[from:to],
			TokenCount: end - start,
			Start:      from,
			End:        to,
		})
		if end == len(words) {
			break
		}
	}
	return chunks
}

// Sentences splits text at terminal punctuation followed by whitespace and at
// blank lines. Empty segments are dropped.
func Sentences(text string) []Span {
	var spans []Span
	start := 0
	emit := func(end int) {
		if span, ok := trimSpan(text, start, end); ok {
			spans = append(spans, span)
		}
		start = end
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if next := i + 1; next == len(text) || isSpace(text[next]) {
				emit(next)
			}
		case '\n':
			if i+1 < len(text) && text[i+1] == '\n' {
				emit(i)
			}
		}
	}
	if start < len(text) {
		emit(len(text))
	}
	return spans
}

func trimSpan(text string, start, end int) (Span, bool) {
	seg := text[start:end]
	left := strings.TrimLeftFunc(seg, unicode.IsSpace)
	from := start + len(seg) - len(left)
	body := strings.TrimRightFunc(left, unicode.IsSpace)
	if body == "" {
		return Span{}, false
	}
	return Span{Text: body, Start: from, End: from + len(body)}, true
}

func wordSpans(text string) []Span {
	var spans []Span
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				spans[len(spans)-1].End = i
				inWord = false
			}
			continue
		}
		if !inWord {
			spans = append(spans, Span{Start: i})
			inWord = true
		}
	}
	if inWord {
		spans[len(spans)-1].End = len(text)
	}
	for i := range spans {
		spans[i].Text = text[spans[i].Start:spans[i].End]
	}
	return spans
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

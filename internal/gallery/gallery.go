// Package gallery holds the static examples and guidance cards shown on the page.
package gallery

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

//go:embed examples.yaml
var examplesYAML []byte

// QAExample is a context with questions worth asking about it.
type QAExample struct {
	Context   string   `yaml:"context" json:"context"`
	Questions []string `yaml:"questions" json:"questions"`
}

// Card is a titled block of guidance written in markdown.
type Card struct {
	ID       string        `yaml:"id" json:"id"`
	Title    string        `yaml:"title" json:"title"`
	Markdown string        `yaml:"markdown" json:"-"`
	HTML     template.HTML `yaml:"-" json:"html"`
}

type Gallery struct {
	QA                  []QAExample `yaml:"qa" json:"qa"`
	SummarizationSample string      `yaml:"summarization_sample" json:"summarization_sample"`
	Cards               []Card      `yaml:"cards" json:"cards"`
}

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

// Load parses the embedded gallery.
func Load() (*Gallery, error) {
	return Parse(examplesYAML)
}

// Parse decodes a gallery document and renders its cards to HTML.
func Parse(data []byte) (*Gallery, error) {
	var g Gallery
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&g); err != nil {
		return nil, fmt.Errorf("parse gallery: %w", err)
	}

	g.SummarizationSample = strings.TrimSpace(g.SummarizationSample)
	if g.SummarizationSample == "" {
		return nil, fmt.Errorf("gallery has no summarization sample")
	}
	for i, ex := range g.QA {
		if strings.TrimSpace(ex.Context) == "" || len(ex.Questions) == 0 {
			return nil, fmt.Errorf("qa example %d needs a context and at least one question", i+1)
		}
	}

	seen := make(map[string]bool, len(g.Cards))
	for i := range g.Cards {
		c := &g.Cards[i]
		if c.ID == "" || seen[c.ID] {
			return nil, fmt.Errorf("card %d has a missing or duplicate id %q", i+1, c.ID)
		}
		seen[c.ID] = true

		var out bytes.Buffer
		if err := markdownEngine.Convert([]byte(strings.TrimSpace(c.Markdown)), &out); err != nil {
			return nil, fmt.Errorf("render card %s: %w", c.ID, err)
		}
		c.HTML = template.HTML(out.String())
	}
	return &g, nil
}

// Card looks up a card by id.
func (g *Gallery) Card(id string) (Card, bool) {
	for _, c := range g.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

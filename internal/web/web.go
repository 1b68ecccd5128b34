// Package web renders the single page and serves its static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"nlp-master/internal/gallery"
	"nlp-master/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Bounds are the slider ranges. Request validation uses the same limits.
type Bounds struct {
	ThresholdMin, ThresholdMax float64
	MinLengthMin, MinLengthMax int
	MaxLengthMin, MaxLengthMax int
	BeamsMin, BeamsMax         int
}

var DefaultBounds = Bounds{
	ThresholdMin: 0.1, ThresholdMax: 1.0,
	MinLengthMin: 10, MinLengthMax: 200,
	MaxLengthMin: 50, MaxLengthMax: 500,
	BeamsMin: 1, BeamsMax: 8,
}

// Page is the data behind index.html.
type Page struct {
	Title        string
	Session      session.State
	Gallery      *gallery.Gallery
	QAModel      string
	SummaryModel string
	Bounds       Bounds
}

type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc":  func(i int) int { return i + 1 },
		"card": func(string) gallery.Card { return gallery.Card{} },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the page into w. The page is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, p Page) error {
	if p.Gallery == nil {
		return fmt.Errorf("render page: gallery is required")
	}
	if p.Title == "" {
		p.Title = "NLP Master - QA & Summarization"
	}
	if p.Bounds == (Bounds{}) {
		p.Bounds = DefaultBounds
	}

	tmpl, err := r.tmpl.Clone()
	if err != nil {
		return err
	}
	tmpl.Funcs(template.FuncMap{
		"card": func(id string) gallery.Card {
			c, _ := p.Gallery.Card(id)
			return c
		},
	})

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "index.html", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Static serves the embedded CSS and JS; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

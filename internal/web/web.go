package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData is everything the single page shows for one session.
type PageData struct {
	Session   sessionModel.SessionState
	Question  string
	Answer    template.HTML
	HasAnswer bool
	Warnings  []string
	Errors    []string
	Preview   *analysis.Preview
}

type Renderer struct {
	page *template.Template
	md   goldmark.Markdown
}

func NewRenderer() (*Renderer, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		page: page,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.page.ExecuteTemplate(w, "index.html", data)
}

// Markdown renders an agent answer. Raw HTML in the source is dropped, not passed through.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Package view renders the joined snapshot set into the dashboard page.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/pscheid92/devboard/internal/domain"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

// Renderer is a pure function from a snapshot set to markup. The template is
// parsed once at construction.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the dashboard markup for a snapshot set. Equal sets produce
// equal markup.
func (r *Renderer) Render(set *domain.StatusSet) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, set); err != nil {
		return "", fmt.Errorf("failed to render dashboard: %w", err)
	}
	return buf.String(), nil
}

// Package view implements Echo's Renderer interface on top of
// html/template. The templates are deliberately plain: the pages only need
// forms and lists, and everything they show comes from the data map a
// handler passes in.
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var files embed.FS

// Renderer renders the embedded page templates by name.
type Renderer struct {
	templates *template.Template
}

// New parses every embedded template once at startup.
func New() (*Renderer, error) {
	t, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

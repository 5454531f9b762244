// Package view renders the HTML pages served by the API.
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UsersPage is the template listing every registered user.
const UsersPage = "users.html"

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded templates for echo.Context.Render.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse view templates")
	}

	return &Renderer{templates: templates}, nil
}

// Render implements echo.Renderer. Values are escaped for their HTML context.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return errors.WithStack(r.templates.ExecuteTemplate(w, name, data))
}

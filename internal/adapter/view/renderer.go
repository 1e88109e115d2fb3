// Package view renders the server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"todo-web/internal/domain"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	LoginPage = "login.html"
	TodosPage = "todos.html"
	ErrorPage = "error.html"
)

// LoginData is rendered by the login page.
type LoginData struct {
	Username    string
	Message     string
	FieldErrors map[string]string
}

// TodosData is rendered by the todo page. User is nil for anonymous visitors.
type TodosData struct {
	User  *domain.User
	Todos []domain.Todo
}

// ErrorData is rendered by the error page.
type ErrorData struct {
	Status  int
	Error   string
	Message string
	Path    string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{LoginPage, TodosPage, ErrorPage} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

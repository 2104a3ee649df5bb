// Package view renders the console's HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	Landing = "landing.html"
	Login   = "login.html"
	Signup  = "signup.html"
	Rooms   = "rooms.html"
	Guests  = "guests.html"
	Users   = "users.html"
	Error   = "error.html"
)

var pages = []string{Landing, Login, Signup, Rooms, Guests, Users, Error}

// CSRF names the hidden form field and the echo context key of the
// anti-forgery token.
const (
	CSRFField      = "_csrf"
	CSRFContextKey = "csrf"
)

// Page is the data every template receives. CSRF goes into every form.
type Page struct {
	Title   string
	Auth    domain.AuthState
	Notices []service.Notice
	CSRF    string
	Body    any
}

// CSRFToken returns the token the CSRF middleware stored on c, if any.
func CSRFToken(c echo.Context) string {
	tok, _ := c.Get(CSRFContextKey).(string)
	return tok
}

// Listing is the body of a resource page. Editing is nil unless an edit form
// is open.
type Listing[T domain.Entity] struct {
	Items   []T
	Loaded  bool
	Editing *T
}

// ErrorBody is the body of the error page.
type ErrorBody struct {
	Status  int
	Message string
}

// Renderer implements echo.Renderer over the embedded templates. Each page is
// parsed together with the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{"money": Money}
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("render: unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Money formats a room price the way the rooms table shows it.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

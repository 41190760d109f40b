package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"studyshare/internal/models"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageNames = []string{
	"feed.html",
	"login.html",
	"material.html",
	"new_material.html",
	"profile.html",
	"notfound.html",
	"error.html",
}

// Renderer executes the embedded page templates. Every page shares the
// layout, which reads the principal for the header.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"avatar": func(url string) string {
			if url == "" {
				return "/default-avatar.png"
			}
			return url
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render writes a page with the given status
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, view interface{}) {
	t, ok := rd.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("Unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", view); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed to execute template")
	}
}

// NotFound writes the 404 page
func (rd *Renderer) NotFound(w http.ResponseWriter, principal *models.Profile) {
	rd.Render(w, http.StatusNotFound, "notfound.html", notFoundView{Principal: principal})
}

// Error writes the generic error page
func (rd *Renderer) Error(w http.ResponseWriter, principal *models.Profile, message string) {
	rd.Render(w, http.StatusInternalServerError, "error.html", errorView{
		Principal: principal,
		Message:   message,
	})
}

type notFoundView struct {
	Principal *models.Profile
}

type errorView struct {
	Principal *models.Profile
	Message   string
}

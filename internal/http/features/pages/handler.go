// Package pages renders the login and change-password pages.
package pages

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/tendant/catfeed/internal/http/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler handles page rendering.
type Handler struct {
	templates *template.Template
}

// NewHandler parses the embedded templates.
func NewHandler() (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{templates: tmpl}, nil
}

// PageData holds data for template rendering.
type PageData struct {
	Title    string
	Username string
	Forced   bool
}

// Login renders the login page.
// GET /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", PageData{Title: "登入"})
}

// ChangePassword renders the change-password page. Signed-in admins see
// their name and whether the change is mandatory.
// GET /auth/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "修改密碼"}
	if claims, ok := middleware.GetClaims(r.Context()); ok {
		data.Username = claims.Username
		data.Forced = claims.ForcePasswordChange
	}
	h.render(w, "change-password.html", data)
}

func (h *Handler) render(w http.ResponseWriter, tmpl string, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.templates.ExecuteTemplate(w, tmpl, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

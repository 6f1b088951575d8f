// Package web renders the server-side HTML views.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/clipshare/backend/internal/logging"
)

//go:embed templates/*.html
var files embed.FS

// Render writes the named page wrapped in the base layout.
func Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	t, err := template.ParseFS(files, "templates/layout.html", "templates/"+name)
	if err != nil {
		logging.FromContext(r.Context()).Error("parse template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		logging.FromContext(r.Context()).Error("execute template", "template", name, "error", err)
	}
}

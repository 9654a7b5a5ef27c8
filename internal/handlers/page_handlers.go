// File: internal/handlers/page_handlers.go
package handlers

import (
	"net/http"
	"os"
	"path/filepath"
)

// PageHandler serves the single-page frontend from a directory.
type PageHandler struct {
	dir string
}

func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{dir: dir}
}

// Index serves index.html, or 404 when the frontend is not deployed.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

// Static serves assets under /static/.
func (h *PageHandler) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(h.dir)))
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

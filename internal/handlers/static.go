package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "index.html", map[string]any{
		"Books":    []string{},
		"OCRLangs": []string{},
	})
}

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/static/")

	// Prevent directory traversal attacks
	if path == "" || strings.Contains(path, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	}

	http.ServeFile(w, r, filepath.Join(h.staticDir, filepath.FromSlash(path)))
}

// HandleLogs answers log file requests with an empty body; the service keeps
// no log files.
func (h *Handler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) HandleFaviconICO(w http.ResponseWriter, r *http.Request) {
	h.serveLogo(w, r, "image/x-icon")
}

func (h *Handler) HandleFaviconPNG(w http.ResponseWriter, r *http.Request) {
	h.serveLogo(w, r, "image/png")
}

func (h *Handler) serveLogo(w http.ResponseWriter, r *http.Request, contentType string) {
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, filepath.Join(h.staticDir, "img", "logo.png"))
}

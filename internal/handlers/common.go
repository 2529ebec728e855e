package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/nbcite/nbcite/internal/citation"
	"github.com/nbcite/nbcite/internal/models"
	"github.com/nbcite/nbcite/internal/nb"
)

// Thumbnailer picks a preview page and thumbnail URL for a book.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, b nb.Book) (page, thumbnail string)
}

// Config carries the collaborators a Handler needs.
type Config struct {
	Fetcher     nb.Fetcher
	Thumbnailer Thumbnailer
	Formatter   citation.Formatter
	StaticDir   string
	TemplateDir string
}

type Handler struct {
	fetcher     nb.Fetcher
	thumbnailer Thumbnailer
	formatter   citation.Formatter
	staticDir   string
	templateDir string
}

func New(cfg Config) *Handler {
	return &Handler{
		fetcher:     cfg.Fetcher,
		thumbnailer: cfg.Thumbnailer,
		formatter:   cfg.Formatter,
		staticDir:   cfg.StaticDir,
		templateDir: cfg.TemplateDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, message string, code int) {
	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, message, "path", r.URL.Path, "status", code, "request_id", RequestIDFrom(r.Context()))
	h.writeJSON(w, code, models.ErrorResponse{Error: message})
}

// renderPage executes a page template from the template directory.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, name))
	if err != nil {
		slog.Error("Unable to load template", "template", name, "err", err)
		http.Error(w, "Template not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Unable to render template", "template", name, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
}

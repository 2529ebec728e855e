package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/nbcite/nbcite/internal/handlers"
)

// Options configures the middleware around the router.
type Options struct {
	// CORSOrigins lists origins allowed to call the JSON endpoints; "*" allows any.
	CORSOrigins []string
}

// NewRouter wires the routes of h and wraps them in request id, access log,
// panic recovery and CORS middleware.
func NewRouter(h *handlers.Handler, opts Options) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/citation", h.HandleCitationPage).Methods(http.MethodGet)
	r.HandleFunc("/citation", h.HandleCitation).Methods(http.MethodPost)
	r.HandleFunc("/preview", h.HandlePreview).Methods(http.MethodGet)
	r.HandleFunc("/logs/{path:.*}", h.HandleLogs).Methods(http.MethodGet)
	r.HandleFunc("/favicon.ico", h.HandleFaviconICO).Methods(http.MethodGet)
	r.HandleFunc("/favicon.png", h.HandleFaviconPNG).Methods(http.MethodGet)
	r.PathPrefix("/static/").HandlerFunc(h.HandleStatic).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", handlers.RequestIDHeader}),
	)
	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(recoveryLogger{}),
		gorillahandlers.PrintRecoveryStack(true),
	)

	var handler http.Handler = r
	handler = cors(handler)
	handler = recovery(handler)
	handler = gorillahandlers.CustomLoggingHandler(io.Discard, handler, logRequest)
	handler = handlers.RequestID(handler)
	return handler
}

// logRequest emits one access log record per request through slog.
func logRequest(_ io.Writer, p gorillahandlers.LogFormatterParams) {
	slog.Info("HTTP request",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
		"duration", time.Since(p.TimeStamp),
		"request_id", handlers.RequestIDFrom(p.Request.Context()))
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	slog.Error("Recovered from panic", "panic", fmt.Sprint(v...))
}

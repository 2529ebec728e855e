package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nbcite/nbcite/internal/citation"
	"github.com/nbcite/nbcite/internal/config"
	"github.com/nbcite/nbcite/internal/handlers"
	"github.com/nbcite/nbcite/internal/nb"
	"github.com/nbcite/nbcite/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port, staticDir, templateDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the citation web service",
		Long: `Starts the nbcite web interface and JSON API.

Routes:
  POST /citation     {"url": "<item url, URN or id>"} -> citations
  GET  /preview?id=  title, page count and thumbnail for an item
  GET  /             index page, GET /citation citation page`,
		Example: `  # Start server on default port 8888
  nbcite serve

  # Start server on custom port with assets from another checkout
  nbcite serve --port 3000 --static ./web/static --templates ./web/templates`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("static") {
				cfg.StaticDir = staticDir
			}
			if cmd.Flags().Changed("templates") {
				cfg.TemplateDir = templateDir
			}

			handler := handlers.New(handlers.Config{
				Fetcher:     newCatalogueClient(cfg),
				Thumbnailer: nb.NewProber(nil, 5*time.Second),
				Formatter:   citation.Formatter{URNResolver: cfg.URNResolver},
				StaticDir:   cfg.StaticDir,
				TemplateDir: cfg.TemplateDir,
			})

			addr := ":" + cfg.Port
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.NewRouter(handler, server.Options{CORSOrigins: cfg.CORSOrigins}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("nbcite available", "addr", addr, "url", "http://localhost"+addr, "catalogue", cfg.NBAPIURL)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on (env NBCITE_PORT)")
	cmd.Flags().StringVar(&staticDir, "static", "web/static", "Static asset directory (env NBCITE_STATIC_DIR)")
	cmd.Flags().StringVar(&templateDir, "templates", "web/templates", "Page template directory (env NBCITE_TEMPLATE_DIR)")

	return cmd
}

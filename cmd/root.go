package cmd

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/nbcite/nbcite/internal/config"
	"github.com/nbcite/nbcite/internal/logging"
	"github.com/nbcite/nbcite/internal/nb"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nbcite",
		Short: "Wikipedia and lokalhistoriewiki citations for nb.no catalogue items",
		Long: `nbcite turns a National Library of Norway (nb.no) item URL, URN or media id
into ready-to-paste citations for Wikipedia (bokmål and nynorsk) and
lokalhistoriewiki.no.

It runs as a small web service or directly from the command line.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCiteCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

func newCatalogueClient(cfg config.Config) *nb.Client {
	return nb.NewClient(cfg.NBAPIURL,
		nb.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		nb.WithRateLimit(cfg.RateLimit),
	)
}

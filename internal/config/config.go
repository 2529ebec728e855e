package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nbcite/nbcite/internal/citation"
	"github.com/nbcite/nbcite/internal/nb"
)

// Config holds the runtime settings for the server and CLI. Values come from
// the environment (after .env is loaded) and may be overridden by flags.
type Config struct {
	Port        string
	StaticDir   string
	TemplateDir string
	NBAPIURL    string
	URNResolver string
	RateLimit   float64
	HTTPTimeout time.Duration
	CORSOrigins []string
}

// Load reads the configuration from the environment, applying defaults for
// unset variables.
func Load() (Config, error) {
	cfg := Config{
		Port:        getenv("NBCITE_PORT", "8888"),
		StaticDir:   getenv("NBCITE_STATIC_DIR", "web/static"),
		TemplateDir: getenv("NBCITE_TEMPLATE_DIR", "web/templates"),
		NBAPIURL:    getenv("NB_API_URL", nb.DefaultBaseURL),
		URNResolver: getenv("NB_URN_RESOLVER", citation.DefaultURNResolver),
		CORSOrigins: splitList(getenv("NBCITE_CORS_ORIGINS", "*")),
	}

	rps, err := strconv.ParseFloat(getenv("NB_RATE_LIMIT", "5"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid NB_RATE_LIMIT: %w", err)
	}
	cfg.RateLimit = rps

	timeout, err := time.ParseDuration(getenv("NB_HTTP_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid NB_HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("invalid NB_HTTP_TIMEOUT: must be positive, got %s", timeout)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

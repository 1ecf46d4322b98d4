package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// RouterConfig holds the HTTP surface settings
type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerSecond int
	RateLimitBurst     int
	MetricsEnabled     bool
	JWTSecret          []byte
}

// NewRouter registers the routes and wraps them in the middleware chain
func NewRouter(h *StatementHandler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/bank_statement_processor", h.Convert)
	mux.HandleFunc("GET /api/bank_statement_runs", h.ListRuns)
	mux.HandleFunc("GET /api/bank_statement_runs/{id}", h.GetRun)
	mux.HandleFunc("GET /healthz", Health)
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.HandleFunc("/", NotFound)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         3600,
	})

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)

	return Recovery(logger)(
		Logger(logger)(
			RequestID(
				c.Handler(
					RateLimit(limiter)(
						Auth(cfg.JWTSecret)(mux),
					),
				),
			),
		),
	)
}

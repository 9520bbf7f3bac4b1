package rest

import (
	"log/slog"
	"net/http"
)

// RouterConfig collects what the HTTP surface serves.
type RouterConfig struct {
	Predict     *PredictHandler
	Health      *HealthHandler
	Metrics     http.Handler
	CORSOrigins []string
	Limiter     *RateLimiter
	Logger      *slog.Logger
}

// NewRouter builds the HTTP handler. Probes and metrics bypass the rate
// limiter; everything passes through CORS and access logging.
func NewRouter(cfg RouterConfig) http.Handler {
	api := http.NewServeMux()
	cfg.Predict.RegisterRoutes(api)

	var limited http.Handler = api
	if cfg.Limiter != nil {
		limited = RateLimitMiddleware(cfg.Limiter)(api)
	}

	mux := http.NewServeMux()
	mux.Handle("/", limited)
	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(mux)
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return LoggingMiddleware(cfg.Logger)(CORSMiddleware(cfg.CORSOrigins)(mux))
}

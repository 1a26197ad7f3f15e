// Package router assembles the HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/serenetouch/booking-assistant/internal/chat"
	httpmiddleware "github.com/serenetouch/booking-assistant/internal/http/middleware"
	"github.com/serenetouch/booking-assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	ChatHandler    *chat.Handler
	MetricsHandler http.Handler

	AllowedOrigins []string
	// Chat rate limiting is disabled when RateLimitRPS is zero.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.AllowedOrigins))
	}

	r.Get("/health", cfg.ChatHandler.HealthCheck)
	r.Route("/chat", func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			r.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		r.Post("/message", cfg.ChatHandler.Message)
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

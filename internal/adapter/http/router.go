package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cryptobud/cryptobud/internal/adapter/http/handler"
	"github.com/cryptobud/cryptobud/internal/adapter/http/middleware"
	"github.com/cryptobud/cryptobud/internal/infrastructure/auth"
	"github.com/cryptobud/cryptobud/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	ImportHandler      *handler.ImportHandler
	TransactionHandler *handler.TransactionHandler
	ReportHandler      *handler.ReportHandler
	ExportHandler      *handler.ExportHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/import", func(r chi.Router) {
				r.Post("/", cfg.ImportHandler.Preview)
				r.Post("/confirm", cfg.ImportHandler.Confirm)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", cfg.TransactionHandler.List)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			r.Route("/report", func(r chi.Router) {
				r.Get("/", cfg.ReportHandler.Yearly)
				r.Get("/upcoming", cfg.ReportHandler.Upcoming)
			})

			r.Route("/export", func(r chi.Router) {
				r.Get("/transactions.csv", cfg.ExportHandler.Transactions)
				r.Get("/report.csv", cfg.ExportHandler.Report)
			})
		})
	})

	return r
}

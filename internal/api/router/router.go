package router

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"finvault/internal/api/handlers"
	auth_middleware "finvault/internal/api/middleware"
)

// RouterConfig defines the strict dependencies required to build the API routing tree.
type RouterConfig struct {
	AllowedOrigins      []string
	UserHandler         *handlers.UserHandler
	CategoryHandler     *handlers.CategoryHandler
	TransactionHandler  *handlers.TransactionHandler
	ImportHandler       *handlers.ImportHandler
	VaultHandler        *handlers.VaultHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	InvestmentHandler   *handlers.InvestmentHandler
	HealthHandler       *handlers.HealthHandler
	AuthMiddleware      *auth_middleware.AuthMiddleware
	Logger              *slog.Logger
}

// NewRouter constructs the Chi multiplexer, attaches global middleware, and wires all endpoints.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// =========================================================================
	// 1. Global Gateway Middleware Pipeline
	// =========================================================================

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(auth_middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cfg.AuthMiddleware.RateLimit)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// =========================================================================
	// 2. API v1 Routing Tree
	// =========================================================================

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware.RequireAuthentication)

			// The CSV import is the one route allowed a multi-megabyte body;
			// everything else is JSON and capped at 1 MiB.
			r.With(auth_middleware.MaxBytes(5<<20)).
				Post("/import/csv", cfg.ImportHandler.ImportCSV)

			r.Group(func(r chi.Router) {
				r.Use(auth_middleware.MaxBytes(1_048_576))

				// --- Profile ---
				r.Get("/me", cfg.UserHandler.Me)
				r.Put("/me", cfg.UserHandler.UpdateMe)

				// --- Categories ---
				r.Route("/categories", func(r chi.Router) {
					r.Get("/", cfg.CategoryHandler.List)
					r.Post("/", cfg.CategoryHandler.Create)
					r.Put("/{id}", cfg.CategoryHandler.Update)
					r.Delete("/{id}", cfg.CategoryHandler.Delete)
				})

				// --- Transactions ---
				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", cfg.TransactionHandler.List)
					r.Get("/summary", cfg.TransactionHandler.Summary)
					r.Post("/", cfg.TransactionHandler.Create)
					r.Put("/{id}", cfg.TransactionHandler.Update)
					r.Delete("/{id}", cfg.TransactionHandler.Delete)
				})

				// --- Credential Vault ---
				r.Route("/vault-accounts", func(r chi.Router) {
					r.Get("/", cfg.VaultHandler.List)
					r.Post("/", cfg.VaultHandler.Create)
					r.Get("/{id}", cfg.VaultHandler.Get)
					r.Get("/{id}/password", cfg.VaultHandler.RevealPassword)
					r.Put("/{id}", cfg.VaultHandler.Update)
					r.Delete("/{id}", cfg.VaultHandler.Delete)
				})

				// --- Subscriptions ---
				r.Route("/subscriptions", func(r chi.Router) {
					r.Get("/", cfg.SubscriptionHandler.List)
					r.Post("/", cfg.SubscriptionHandler.Create)
					r.Get("/{id}", cfg.SubscriptionHandler.Get)
					r.Get("/{id}/password", cfg.SubscriptionHandler.RevealPassword)
					r.Put("/{id}", cfg.SubscriptionHandler.Update)
					r.Delete("/{id}", cfg.SubscriptionHandler.Delete)
				})

				// --- Investments ---
				r.Route("/investments", func(r chi.Router) {
					r.Get("/", cfg.InvestmentHandler.List)
					r.Post("/", cfg.InvestmentHandler.Create)
					r.Get("/{id}", cfg.InvestmentHandler.Get)
					r.Get("/{id}/projection", cfg.InvestmentHandler.Projection)
					r.Put("/{id}", cfg.InvestmentHandler.Update)
					r.Delete("/{id}", cfg.InvestmentHandler.Delete)
				})
			})
		})
	})

	r.Get("/healthz", cfg.HealthHandler.Check)

	return r
}

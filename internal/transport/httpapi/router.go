// Package httpapi wires the HTTP surface: router, middleware, handlers.
package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abenezerg/pluszone/internal/transport/httpapi/handler"
	"github.com/abenezerg/pluszone/internal/transport/httpapi/middleware"
	"github.com/abenezerg/pluszone/pkg/logger"
)

// Config holds router configuration.
type Config struct {
	Logger         *logger.Logger
	AllowedOrigins []string

	TransactionHandler *handler.TransactionHandler
	WalletHandler      *handler.WalletHandler
	LoanHandler        *handler.LoanHandler
	EqubHandler        *handler.EqubHandler
	GoalHandler        *handler.GoalHandler
	PlannedHandler     *handler.PlannedHandler
	RoadmapHandler     *handler.RoadmapHandler
}

// NewRouter creates the HTTP router.
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit())

	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		r.Route("/balances", func(r chi.Router) {
			r.Get("/", cfg.WalletHandler.GetBalances)
			r.Post("/transfer", cfg.WalletHandler.Transfer)
			r.Get("/reconcile", cfg.WalletHandler.Reconcile)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Put("/{id}", cfg.LoanHandler.Update)
			r.Post("/{id}/pay", cfg.LoanHandler.Pay)
			r.Delete("/{id}", cfg.LoanHandler.Delete)
		})

		r.Route("/equbs", func(r chi.Router) {
			r.Post("/", cfg.EqubHandler.Create)
			r.Get("/", cfg.EqubHandler.List)
			r.Get("/{id}", cfg.EqubHandler.Get)
			r.Put("/{id}", cfg.EqubHandler.Update)
			r.Post("/{id}/settle-round", cfg.EqubHandler.SettleRound)
			r.Delete("/{id}", cfg.EqubHandler.Delete)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Post("/", cfg.GoalHandler.Create)
			r.Get("/", cfg.GoalHandler.List)
			r.Get("/{id}", cfg.GoalHandler.Get)
			r.Put("/{id}", cfg.GoalHandler.Update)
			r.Delete("/{id}", cfg.GoalHandler.Delete)
		})

		r.Route("/planned-payments", func(r chi.Router) {
			r.Post("/", cfg.PlannedHandler.Create)
			r.Get("/", cfg.PlannedHandler.List)
			r.Get("/{id}", cfg.PlannedHandler.Get)
			r.Put("/{id}", cfg.PlannedHandler.Update)
			r.Delete("/{id}", cfg.PlannedHandler.Delete)
		})

		r.Route("/roadmap", func(r chi.Router) {
			r.Get("/", cfg.RoadmapHandler.Get)
			r.Post("/settle", cfg.RoadmapHandler.Settle)
			r.Post("/unsettle", cfg.RoadmapHandler.Unsettle)
		})
	})

	return r
}

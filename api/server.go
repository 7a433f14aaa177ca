/*
server.go - HTTP router setup for the credit ledger service

PURPOSE:
  Builds the chi router: middleware stack (request ID, logging, panic
  recovery, CORS, Prometheus instrumentation), the /api route table, a
  health check, and the /metrics scrape endpoint.

SEE ALSO:
  - handlers.go: Endpoint implementations
  - metrics.go: Request instrumentation
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP router with all routes and middleware.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(Metrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Get("/{id}", h.GetCustomer)
			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
			r.Patch("/{id}/toggle-redlist", h.ToggleRedList)
			r.Post("/{id}/payment", h.RecordCustomerPayment)
			r.Get("/{id}/transactions", h.CustomerTransactions)
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", h.ListMenuItems)
			r.Post("/", h.CreateMenuItem)
			r.Get("/{id}", h.GetMenuItem)
			r.Put("/{id}", h.UpdateMenuItem)
			r.Delete("/{id}", h.DeleteMenuItem)
			r.Patch("/{id}/toggle-availability", h.ToggleAvailability)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Get("/{id}", h.GetTransaction)
			r.Patch("/{id}/payment", h.RecordTransactionPayment)
		})

		r.Get("/dashboard", h.Dashboard)
		r.Get("/reports", h.Report)
	})

	return r
}

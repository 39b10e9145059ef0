package router

import (
	"net/http"

	"inventory-billing/internal/handler"
	"inventory-billing/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Product   *handler.ProductHandler
	Billing   *handler.BillingHandler
	Dashboard *handler.DashboardHandler
	Auth      *handler.AuthHandler
}

// NewMetrics serves the Prometheus scrape endpoint. It is mounted on its own
// listener and is not reachable through the API port.
func NewMetrics(metricsHandler http.Handler, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	return middleware.Chain(mux, middleware.Recovery(logger))
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	tokens middleware.TokenValidator,
	observer middleware.HTTPObserver,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("POST /api/login", h.Auth.Login)
	mux.HandleFunc("POST /api/users", h.Auth.CreateUser)

	mux.HandleFunc("GET /api/products", h.Product.GetAll)
	mux.HandleFunc("POST /api/products", h.Product.Create)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("DELETE /api/products/{id}", h.Product.Delete)
	mux.HandleFunc("POST /api/products/{id}/restock", h.Product.Restock)

	mux.HandleFunc("POST /api/billing", h.Billing.SubmitSale)
	mux.HandleFunc("GET /api/bills/{id}", h.Billing.GetBill)

	mux.HandleFunc("GET /api/dashboard", h.Dashboard.Summary)

	// Recovery -> RequestID -> Logging -> CORS -> JWTAuth -> Metrics -> mux
	return middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.RequestID(logger),
		middleware.Logging(logger),
		middleware.CORS,
		middleware.JWTAuth(tokens, logger),
		middleware.Metrics(observer),
	)
}

package rest

import (
	"net/http"

	querybus "recall-backend/application/queries/bus"
	"recall-backend/application/services"
	"recall-backend/infrastructure/config"
	"recall-backend/interfaces/http/rest/handlers"
	"recall-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	queryBus   *querybus.QueryBus
	controller *services.ViewScopeController
	registry   *prometheus.Registry
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	queryBus *querybus.QueryBus,
	controller *services.ViewScopeController,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		queryBus:   queryBus,
		controller: controller,
		registry:   registry,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.recall.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg))

		graphHandler := handlers.NewGraphHandler(rt.queryBus, rt.controller, rt.logger)
		r.Route("/graph", func(r chi.Router) {
			r.Get("/", graphHandler.GetGraphView)
			r.Get("/documents", graphHandler.GetAdaptedDocuments)
			r.Get("/nodes/{nodeID}", graphHandler.GetNode)
		})

		scopeHandler := handlers.NewScopeHandler(rt.controller, rt.logger)
		r.Route("/view-scope", func(r chi.Router) {
			r.Get("/", scopeHandler.GetScope)
			r.Put("/", scopeHandler.UpdateScope)
			r.Post("/refresh", scopeHandler.Refresh)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

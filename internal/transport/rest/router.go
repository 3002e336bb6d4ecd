package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-directory/internal/auth"
	"github.com/frahmantamala/employee-directory/internal/transport"
	"github.com/frahmantamala/employee-directory/internal/transport/middleware"
	"github.com/frahmantamala/employee-directory/internal/user"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
)

type Routes struct {
	AllowedOrigins []string
	AuthHandler    *auth.Handler
	UserHandler    *user.Handler
	GraphQL        http.Handler
	Metrics        http.Handler
	MetricsPath    string
	HealthChecks   map[string]HealthCheck
}

func RegisterAllRoutes(router *chi.Mux, routes Routes, logger *slog.Logger) {
	healthHandler := NewHealthHandler(routes.HealthChecks)
	fallback := transport.NewBaseHandler(logger)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   routes.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if routes.AuthHandler != nil {
		router.Use(routes.AuthHandler.AuthMiddleware)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fallback.WriteError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		fallback.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	if routes.Metrics != nil {
		path := routes.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Method(http.MethodGet, path, routes.Metrics)
	}

	if routes.GraphQL != nil {
		router.Method(http.MethodPost, "/graphql", routes.GraphQL)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)

		if routes.AuthHandler != nil {
			r.Post("/auth/login", routes.AuthHandler.Login)
		}
		if routes.UserHandler != nil {
			r.Get("/users/me", routes.UserHandler.GetCurrentUser)
		}
	})
}

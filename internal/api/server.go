// Package api provides the HTTP API server and handlers for the recipe application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhie-lp/recipe-app-api/internal/auth"
	"github.com/abhie-lp/recipe-app-api/internal/config"
	"github.com/abhie-lp/recipe-app-api/internal/store/sqlite"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store            *sqlite.Store
	services         *Services
	tokens           *auth.TokenService
	router           *chi.Mux
	api              huma.API
	logger           *slog.Logger
	tokenRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, store *sqlite.Store, services *Services, tokens *auth.TokenService, logger *slog.Logger) *Server {
	s := &Server{
		store:            store,
		services:         services,
		tokens:           tokens,
		router:           chi.NewRouter(),
		logger:           logger,
		tokenRateLimiter: NewRateLimiter(cfg.Auth.TokenRequestsPerMinute, time.Minute, cfg.Auth.TokenRequestsPerMinute),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerUserRoutes()
	s.registerTagRoutes()
	s.registerIngredientRoutes()
	s.registerRecipeRoutes()
	s.registerImageRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

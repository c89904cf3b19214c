// Package server provides HTTP server management and lifecycle handling
// for the clinical rules API: router setup, middleware configuration,
// route management and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/auramed/clinical-rules-api/config"
	"github.com/auramed/clinical-rules-api/handlers"
	"github.com/auramed/clinical-rules-api/logging"
	"github.com/auramed/clinical-rules-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler *handlers.HTTPHandlerImpl
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler *handlers.HTTPHandlerImpl) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		config:  cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)

	// The API is consumed by mobile and web front-ends on other origins.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Post("/api/v1/soap-notes", s.handler.ExtractSoapNotes)
	s.router.Post("/api/v1/chads2-score", s.handler.ComputeChads2Score)
	s.router.Post("/api/v1/drug-interactions", s.handler.CheckDrugInteractions)
	s.router.Post("/api/v1/analyze", s.handler.AnalyzeTranscript)
	s.router.Get("/api/v1/rules/interactions", s.handler.ServeInteractionRules)
	s.router.Get("/api/v1/rules/soap-keywords", s.handler.ServeSoapKeywords)

	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the HTTP server. Blocks until the server stops.
func (s *Server) Start() error {
	logging.Info("Starting server", "addr", s.server.Addr, "env", s.config.Env)
	return s.server.ListenAndServe()
}

// Shutdown attempts a graceful shutdown, falling back to a hard close.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if closeErr := s.server.Close(); closeErr != nil {
			logging.Error("Server close error", "error", closeErr)
		}
		return err
	}
	return nil
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/showpulse/internal/api/handlers"
	"github.com/amaumene/showpulse/internal/api/middleware"
	"github.com/amaumene/showpulse/internal/config"
	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/shows"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	store     *shows.Store
	library   *controllers.LibraryController
	hydration *controllers.HydrationController
	logger    *logrus.Logger
}

// NewServer creates a new HTTP server. hydration may be nil when no TMDB key is configured.
func NewServer(cfg *config.Config, store *shows.Store, library *controllers.LibraryController, hydration *controllers.HydrationController, logger *logrus.Logger) *Server {
	s := &Server{
		store:     store,
		library:   library,
		hydration: hydration,
		logger:    logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	var hydrating func() bool
	if s.hydration != nil {
		hydrating = s.hydration.Running
	}

	// Monitoring
	mux.Handle("GET /health", handlers.NewHealthHandler(hydrating, s.logger))
	mux.Handle("GET /status", handlers.NewStatusHandler(s.store, s.logger))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Library
	showsHandler := handlers.NewShowsHandler(s.library, s.logger)
	mux.HandleFunc("GET /api/search", showsHandler.Search)
	mux.HandleFunc("GET /api/shows", showsHandler.List)
	mux.HandleFunc("POST /api/shows", showsHandler.Add)
	mux.HandleFunc("GET /api/shows/filters", showsHandler.Filters)
	mux.HandleFunc("GET /api/shows/{id}", showsHandler.Details)
	mux.HandleFunc("DELETE /api/shows/{id}", showsHandler.Remove)
	mux.HandleFunc("POST /api/shows/{id}/favorite", showsHandler.ToggleFavorite)

	// Sort preference
	sortHandler := handlers.NewSortHandler(s.library, s.logger)
	mux.HandleFunc("GET /api/sort", sortHandler.Get)
	mux.HandleFunc("PUT /api/sort", sortHandler.Put)
}

// Handler returns the HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Package server provides the HTTP API for newsrag.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/newsrag/retrieval"
)

// Server is the HTTP surface over the retrieval service. It is a thin
// caller: all retrieval and generation logic lives behind retrieval.Service.
type Server struct {
	retriever *retrieval.Service
	addr      string
	logger    *slog.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(retriever *retrieval.Service, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		retriever: retriever,
		addr:      addr,
		logger:    logger.With("component", "server"),
	}
}

// Router builds the chi router with all routes and middleware mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Post("/search", s.handleSearch)
	r.Post("/agent", s.handleAgent)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

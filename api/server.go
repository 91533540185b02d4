package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/CreativeUnicorns/prefseditor"
	"github.com/go-chi/chi/v5"
)

// Server exposes an Editor over HTTP.
type Server struct {
	// mu serializes access to the editor, which is single-threaded.
	mu         sync.Mutex
	editor     *prefseditor.Editor
	logger     prefseditor.Logger
	router     *chi.Mux
	httpServer *http.Server
}

// Config holds configuration for the API server.
type Config struct {
	ListenAddress string
	Editor        *prefseditor.Editor
	Logger        prefseditor.Logger
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// NewServer creates and configures a new API server instance.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Editor == nil {
		return nil, fmt.Errorf("editor is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Editor.Registry().Logger()
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 15 * time.Second
	}

	s := &Server{
		editor: cfg.Editor,
		logger: cfg.Logger,
		router: chi.NewRouter(),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the server's router, for use with httptest or another http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server and blocks until it is shut down.
// It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("API server stopping")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("API server stopped gracefully")
	return nil
}

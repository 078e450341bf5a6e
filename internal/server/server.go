// Package server exposes the analysis facade as a stateless JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lucasefe/daxgen/extract"
	"github.com/lucasefe/daxgen/internal/config"
)

const shutdownTimeout = 30 * time.Second

// Server serves the HTTP API. Every request carries its own schema; the
// server keeps no analysis state between requests.
type Server struct {
	cfg       *config.Config
	extractor extract.Extractor
	logger    *slog.Logger
}

// New creates a server. extractor may be nil, in which case the image and
// text endpoints answer 503.
func New(cfg *config.Config, extractor extract.Extractor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, extractor: extractor, logger: logger}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.analyzeColumns)
		r.Post("/analyze/extraction", s.analyzeExtraction)
		r.Post("/analyze/file", s.analyzeFile)
		r.Post("/analyze/image", s.analyzeImage)
		r.Post("/analyze/text", s.analyzeText)
		r.Post("/export", s.export)
	})

	return r
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.GetServerAddr(),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", "addr", srv.Addr, "extraction", s.extractor != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

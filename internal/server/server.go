// Package server implements the driftwatch HTTP API server.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// Server is the driftwatch HTTP API server.
type Server struct {
	cfg    *types.Config
	router chi.Router
	addr   string
	srv    *http.Server
	logger *slog.Logger
}

// New creates a new HTTP server.
func New(addr string, cfg *types.Config) *Server {
	s := &Server{
		cfg:    cfg,
		addr:   addr,
		logger: slog.Default().With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	s.router = r
	s.registerRoutes(r)
	return s
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP requests until the context is canceled, then shuts down
// gracefully. In-flight requests get shutdownTimeout to finish.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

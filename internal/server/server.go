// Package server exposes the liveness and readiness endpoints used by
// container orchestration.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gastos/internal/log"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter builds the ops router. /healthy answers as long as the
// process runs; /ready also checks the database.
func NewRouter(db Pinger, logger *log.Logger) http.Handler {
	logger = logger.WithComponent(log.ComponentHTTP)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	health := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
	r.Get("/healthy", health)
	r.Head("/healthy", health)

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.ErrorContext(req.Context(), "Readiness check failed", log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	return r
}

// Server wraps the ops HTTP server with graceful shutdown.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

func New(port string, db Pinger, logger *log.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(db, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.WithComponent(log.ComponentHTTP),
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting ops server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Stopping ops server", log.FieldOperation, log.OpShutdown)
	return s.httpServer.Shutdown(ctx)
}

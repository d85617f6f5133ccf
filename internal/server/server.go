// Package server assembles the read-only HTTP gateway: chi router, the
// middleware chain, and graceful lifecycle.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/3leaps/s3path/internal/errors"
	"github.com/3leaps/s3path/internal/observability"
	"github.com/3leaps/s3path/internal/server/handlers"
	"github.com/3leaps/s3path/internal/server/middleware"
)

// Option customizes a Server.
type Option func(*Server)

// WithResolver wires the URI resolver used by the path endpoints.
func WithResolver(resolve handlers.ResolveFunc) Option {
	return func(s *Server) { s.resolve = resolve }
}

// WithVersion sets the version reported by /healthz and /version.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithTimeouts overrides the HTTP server timeouts.
func WithTimeouts(read, write, idle, shutdown time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
		s.idleTimeout = idle
		s.shutdownTimeout = shutdown
	}
}

// Server is the HTTP gateway.
type Server struct {
	host    string
	port    int
	version string
	resolve handlers.ResolveFunc

	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration

	health *handlers.HealthManager
	router chi.Router
}

// New creates a Server bound to host:port.
func New(host string, port int, opts ...Option) *Server {
	s := &Server{
		host:            host,
		port:            port,
		version:         "dev",
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		idleTimeout:     120 * time.Second,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.health = handlers.NewHealthManager(s.version)
	s.router = s.buildRouter()
	return s
}

// RegisterChecker adds a named health check.
func (s *Server) RegisterChecker(name string, c handlers.Checker) {
	s.health.RegisterChecker(name, c)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the host:port bind address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.AccessLog)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			"no such endpoint", middleware.GetRequestID(r.Context()))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"method not allowed", middleware.GetRequestID(r.Context()))
	})

	r.Get("/healthz", s.health.HealthHandler)
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"version": s.version})
	})

	if s.resolve != nil {
		api := handlers.NewAPI(s.resolve)
		r.Route("/v1", func(r chi.Router) {
			r.Get("/stat", api.Stat)
			r.Get("/list", api.List)
			r.Get("/object", api.Object)
		})
	}
	return r
}

// Start runs the server until ctx is cancelled, then drains connections
// within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		observability.ServerLogger.Info("Server listening", zap.String("addr", s.Addr()))
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

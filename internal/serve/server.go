// Package serve exposes the greeting service over HTTP
package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/okra-platform/greeter/internal/greeting"
)

const shutdownTimeout = 5 * time.Second

// Server serves the greeting HTTP API
type Server interface {
	// Start listens on port and serves until ctx is cancelled
	Start(ctx context.Context, port int) error
	// Serve serves on an existing listener until ctx is cancelled
	Serve(ctx context.Context, l net.Listener) error
	// Handler returns the fully wrapped HTTP handler
	Handler() http.Handler
}

// Option configures a server
type Option func(*server)

// WithMetrics records request metrics in reg and serves them on /metrics
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *server) {
		s.registry = reg
	}
}

// server is the internal implementation of Server
type server struct {
	greeter  greeting.Service
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	handler  http.Handler
}

// NewServer creates a server for the given greeting service
func NewServer(greeter greeting.Service, logger zerolog.Logger, opts ...Option) Server {
	s := &server{
		greeter: greeter,
		logger:  logger.With().Str("component", "http").Logger(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.registry != nil {
		s.metrics = newMetrics(s.registry)
	}
	s.handler = s.buildHandler()
	return s
}

func (s *server) Handler() http.Handler {
	return s.handler
}

func (s *server) buildHandler() http.Handler {
	r := mux.NewRouter()

	// Register routes
	s.route(r, "greeting_read", "/greeting", s.handleGetGreeting, http.MethodGet)
	s.route(r, "greeting_create", "/greeting", s.handleCreateUser, http.MethodPost)
	s.route(r, "greeting_user", "/greeting/{id}", s.handleGetUser, http.MethodGet)
	s.route(r, "health", "/health", s.handleHealth, http.MethodGet)

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).
			Methods(http.MethodGet).
			Name("metrics")
	}

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	var h http.Handler = r
	h = handlers.CustomLoggingHandler(io.Discard, h, s.logRequest)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: s.logger}),
	)(h)
	return h
}

func (s *server) route(r *mux.Router, name, path string, fn http.HandlerFunc, methods ...string) {
	var h http.Handler = fn
	if s.metrics != nil {
		h = s.metrics.instrument(name, h)
	}
	r.Handle(path, h).Methods(methods...).Name(name)
}

// Start starts the server on the specified port
func (s *server) Start(ctx context.Context, port int) error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return s.Serve(ctx, l)
}

func (s *server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", l.Addr().String()).Msg("http server listening")
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// logRequest writes one access log line per request
func (s *server) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	event := s.logger.Info()
	if p.StatusCode >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.
		Str("method", p.Request.Method).
		Str("path", p.URL.Path).
		Int("status", p.StatusCode).
		Int("size", p.Size).
		Dur("duration", time.Since(p.TimeStamp)).
		Msg("request")
}

type recoveryLogger struct {
	logger zerolog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error().Msg(fmt.Sprint(v...))
}

// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"rivaas.dev/router"

	"rivaas.dev/mappings"
	"rivaas.dev/mappings/errors"
	"rivaas.dev/mappings/logging"
)

// Server serves a mappings model over HTTP.
type Server struct {
	model atomic.Pointer[mappings.Model]

	router   *router.Router
	logger   *logging.Logger
	problems *errors.RFC9457
	registry *prometheus.Registry

	parses      *prometheus.CounterVec
	diagnostics *prometheus.CounterVec

	problemBaseURL  string
	shutdownTimeout time.Duration
	accessLog       bool
	newRequestID    func() string
}

// New creates a Server for model. A nil model serves no mappings.
func New(model *mappings.Model, opts ...Option) *Server {
	s := &Server{
		shutdownTimeout: DefaultShutdownTimeout,
		accessLog:       true,
		newRequestID:    generateUUIDv7,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.MustNew(logging.WithOutput(io.Discard))
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.problems = errors.NewRFC9457(s.problemBaseURL)
	s.Swap(model)

	s.registerMetrics()
	s.router = router.MustNew()
	s.registerRoutes()

	return s
}

// Swap replaces the served model. A nil model serves no mappings.
func (s *Server) Swap(model *mappings.Model) {
	if model == nil {
		model = mappings.NewModel(nil)
	}
	s.model.Store(model)
}

// Model returns the model currently served.
func (s *Server) Model() *mappings.Model {
	return s.model.Load()
}

// Registry returns the Prometheus registry served on /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// DiagnosticHandler returns a handler that counts walker diagnostics by
// kind in mapping_diagnostics_total. Pass it to [mappings.WithDiagnostics]
// when building models for this server.
func (s *Server) DiagnosticHandler() mappings.DiagnosticHandler {
	return mappings.DiagnosticHandlerFunc(func(e mappings.DiagnosticEvent) {
		s.diagnostics.WithLabelValues(string(e.Kind)).Inc()
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

func (s *Server) registerMetrics() {
	s.parses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "predicate_parses_total",
		Help: "Descriptors analysed through the API, by grammar and fallback.",
	}, []string{"grammar", "fallback"})
	s.diagnostics = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapping_diagnostics_total",
		Help: "Diagnostics emitted while building served models, by kind.",
	}, []string{"kind"})
	total := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mappings_total",
		Help: "Number of mappings in the served model.",
	}, func() float64 {
		return float64(s.Model().Len())
	})

	s.registry.MustRegister(s.parses, s.diagnostics, total)
}

func (s *Server) registerRoutes() {
	s.router.Use(requestID(s.newRequestID))
	if s.accessLog {
		s.router.Use(accessLog(s.logger))
	}
	s.router.Use(s.recovery())

	metrics := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})

	s.router.GET("/mappings", s.listMappings)
	s.router.GET("/handlers/:class/:method", s.handlerMappings)
	s.router.GET("/predicates", s.analyzePredicate)
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", func(c *router.Context) {
		metrics.ServeHTTP(c.Response, c.Request)
	})
	s.router.NoRoute(func(c *router.Context) {
		s.problem(c, errors.WithStatus(errRouteNotFound, http.StatusNotFound))
	})
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr, "mappings", s.Model().Len())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed to start: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("server shutting down", "reason", ctx.Err())
	}

	// ctx is already canceled; the shutdown deadline needs a fresh parent.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("server exited")

	return nil
}

// problem writes err as a problem detail. The error_id is the request ID
// when one is set.
func (s *Server) problem(c *router.Context, err error) {
	formatter := s.problems
	if id := RequestID(c.Request.Context()); id != "" {
		f := *s.problems
		f.ErrorIDGenerator = func() string { return id }
		formatter = &f
	}
	resp := formatter.Format(c.Request, err)
	if writeErr := errors.Write(c.Response, resp); writeErr != nil {
		s.logger.Logger().LogAttrs(c.Request.Context(), slog.LevelError,
			"failed to write problem response", slog.Any("error", writeErr))
	}
}

func (s *Server) writeJSON(c *router.Context, status int, body any) {
	if err := c.JSON(status, body); err != nil {
		s.logger.Error("failed to write response", "path", c.Request.URL.Path, "error", err)
	}
}

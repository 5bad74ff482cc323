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
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rivaas.dev/mappings/logging"
)

// DefaultShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
const DefaultShutdownTimeout = 30 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and lifecycle events.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithProblemBaseURL sets the base URL of problem type URIs.
func WithProblemBaseURL(url string) Option {
	return func(s *Server) {
		s.problemBaseURL = url
	}
}

// WithRegistry registers the server's collectors on reg and serves reg on
// /metrics. By default a private registry is used.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithShutdownTimeout sets how long ListenAndServe waits for in-flight
// requests once its context is canceled.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// WithoutAccessLog disables per-request logging.
func WithoutAccessLog() Option {
	return func(s *Server) {
		s.accessLog = false
	}
}

// WithULIDRequestIDs generates request IDs as ULIDs instead of UUIDv7.
func WithULIDRequestIDs() Option {
	return func(s *Server) {
		s.newRequestID = generateULID
	}
}

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
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"rivaas.dev/router"

	"rivaas.dev/mappings/errors"
	"rivaas.dev/mappings/logging"
)

// maxStackSize bounds the stack trace logged for a recovered panic.
const maxStackSize = 4 << 10

// statusSizer is implemented by response writers that track status and size.
type statusSizer interface {
	StatusCode() int
	Size() int64
}

// accessLog logs one record per request once the handler chain has run.
// Client errors log at warn and server errors at error.
func accessLog(logger *logging.Logger) router.HandlerFunc {
	return func(c *router.Context) {
		start := time.Now()

		var ss statusSizer
		if existing, ok := c.Response.(statusSizer); ok {
			ss = existing
		} else {
			wrapped := &responseWriter{ResponseWriter: c.Response}
			c.Response = wrapped
			ss = wrapped
		}

		c.Next()

		status := ss.StatusCode()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_sent", ss.Size(),
		}
		if id := RequestID(c.Request.Context()); id != "" {
			fields = append(fields, "request_id", id)
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, "query", q)
		}

		switch {
		case status >= 500:
			logger.Error("access", fields...)
		case status >= 400:
			logger.Warn("access", fields...)
		default:
			logger.Info("access", fields...)
		}
	}
}

// recovery turns a panic in a handler into a logged 500 problem.
func (s *Server) recovery() router.HandlerFunc {
	return func(c *router.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			stack := debug.Stack()
			if len(stack) > maxStackSize {
				stack = stack[:maxStackSize]
			}
			s.logger.Error("panic recovered",
				"path", c.Request.URL.Path,
				"panic", fmt.Sprint(rec),
				"stack", string(stack),
			)
			s.problem(c, errors.WithStatus(nil, http.StatusInternalServerError))
		}()

		c.Next()
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)

	return n, err
}

func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}

	return rw.statusCode
}

func (rw *responseWriter) Size() int64 {
	return rw.size
}

// Flush implements http.Flusher.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

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
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"rivaas.dev/router"

	"rivaas.dev/mappings"
	"rivaas.dev/mappings/dumper"
	"rivaas.dev/mappings/errors"
	"rivaas.dev/mappings/handler"
	"rivaas.dev/mappings/predicate"
)

var (
	errRouteNotFound = stderrors.New("route not found")
	errMissingQuery  = stderrors.New("query parameter q is required")
	errBadStrict     = stderrors.New("query parameter strict must be a boolean")
)

// apiError carries a status and a machine-readable code to the problem
// formatter.
type apiError struct {
	err    error
	status int
	code   string
}

func (e *apiError) Error() string   { return e.err.Error() }
func (e *apiError) Unwrap() error   { return e.err }
func (e *apiError) HTTPStatus() int { return e.status }
func (e *apiError) Code() string    { return e.code }

// predicateResult is the body of GET /predicates.
type predicateResult struct {
	Input      string                `json:"input"`
	Grammar    string                `json:"grammar"`
	Fallback   bool                  `json:"fallback"`
	Error      string                `json:"error,omitempty"`
	Predicates []predicate.Predicate `json:"predicates"`
}

// listMappings serves GET /mappings. The method filter keeps mappings that
// list the method or accept any method; path matches by substring and
// dispatcher by name.
func (s *Server) listMappings(c *router.Context) {
	model := s.Model()

	method := strings.ToUpper(c.Query("method"))
	path := c.Query("path")
	dispatcher := c.Query("dispatcher")
	if method != "" || path != "" || dispatcher != "" {
		model = model.Filter(func(m mappings.Mapping) bool {
			return matchesMethod(m, method) &&
				strings.Contains(m.Predicate.Path, path) &&
				(dispatcher == "" || m.Dispatcher.Name == dispatcher)
		})
	}

	s.writeJSON(c, http.StatusOK, dumper.Document(model))
}

func matchesMethod(m mappings.Mapping, method string) bool {
	methods := m.Predicate.Methods
	if method == "" || len(methods) == 0 {
		return true
	}
	for _, candidate := range methods {
		if strings.EqualFold(candidate, method) {
			return true
		}
	}
	return false
}

// handlerMappings serves GET /handlers/:class/:method.
func (s *Server) handlerMappings(c *router.Context) {
	className, methodName := c.Param("class"), c.Param("method")
	key := handler.Key(className, methodName)

	found := s.Model().MappingsForHandler(className, methodName, nil)
	if len(found) == 0 {
		s.problem(c, &apiError{
			err:    stderrors.New("no mappings for handler " + key),
			status: http.StatusNotFound,
			code:   "handler-not-found",
		})
		return
	}

	out := make([]map[string]any, len(found))
	for i, m := range found {
		out[i] = mappings.ExportMapping(m)
	}
	s.writeJSON(c, http.StatusOK, map[string]any{
		"handler":          key,
		dumper.DocumentKey: out,
	})
}

// analyzePredicate serves GET /predicates?q=<descriptor>[&strict=true].
// In strict mode a descriptor that needed the simple-path fallback is
// reported as a problem instead.
func (s *Server) analyzePredicate(c *router.Context) {
	q := c.Query("q")
	if q == "" {
		s.problem(c, &apiError{err: errMissingQuery, status: http.StatusBadRequest, code: "missing-query"})
		return
	}
	strict := false
	if raw := c.Query("strict"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.problem(c, &apiError{err: errBadStrict, status: http.StatusBadRequest, code: "invalid-query"})
			return
		}
		strict = v
	}

	res := predicate.Analyze(q)
	s.parses.WithLabelValues(res.Grammar.String(), strconv.FormatBool(res.Fallback)).Inc()

	if strict && res.Fallback {
		s.problem(c, res.Err)
		return
	}

	body := predicateResult{
		Input:      q,
		Grammar:    res.Grammar.String(),
		Fallback:   res.Fallback,
		Predicates: res.Predicates,
	}
	if res.Err != nil {
		body.Error = res.Err.Error()
	}
	s.writeJSON(c, http.StatusOK, body)
}

// health serves GET /healthz.
func (s *Server) health(c *router.Context) {
	s.writeJSON(c, http.StatusOK, map[string]any{
		"status":   "ok",
		"mappings": s.Model().Len(),
	})
}

var _ errors.ErrorCode = (*apiError)(nil)

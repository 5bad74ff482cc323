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

package mappings

import (
	"slices"

	"rivaas.dev/mappings/handler"
)

// Model is an immutable collection of mappings indexed by handler.
//
// All methods are safe for concurrent use. Returned mappings share memory
// with the model and must not be modified.
type Model struct {
	mappings  []Mapping
	byHandler map[string][]int
	matchOpts []handler.MatchOption
}

// NewModel builds a model from ms. The slice is copied; later changes to ms
// do not affect the model.
func NewModel(ms []Mapping, opts ...handler.MatchOption) *Model {
	m := &Model{
		mappings:  slices.Clone(ms),
		byHandler: make(map[string][]int),
		matchOpts: opts,
	}
	for i, mapping := range m.mappings {
		if mapping.Handler == nil {
			continue
		}
		key := mapping.Handler.Key()
		m.byHandler[key] = append(m.byHandler[key], i)
	}
	return m
}

// Len returns the number of mappings.
func (m *Model) Len() int {
	return len(m.mappings)
}

// Mappings returns every mapping in source order.
func (m *Model) Mappings() []Mapping {
	return slices.Clone(m.mappings)
}

// MappingsForHandler returns the mappings served by className#methodName
// whose signature satisfies match. A nil match accepts every signature,
// which is useful to list all overloads.
func (m *Model) MappingsForHandler(className, methodName string, match func(handler.Signature) bool) []Mapping {
	var out []Mapping
	for _, i := range m.byHandler[handler.Key(className, methodName)] {
		if match == nil || match(*m.mappings[i].Handler) {
			out = append(out, m.mappings[i])
		}
	}
	return out
}

// MappingsForMethod returns the mappings served by a declared method. Routes
// reported as lambdas are attributed to every router-function bean of the
// lambda's class.
func (m *Model) MappingsForMethod(method handler.Method) []Mapping {
	if method == nil {
		return nil
	}
	out := m.MappingsForHandler(method.ClassName(), method.Name(), func(s handler.Signature) bool {
		return s.Matches(method, m.matchOpts...)
	})
	if handler.IsRouterFunctionBean(method, m.matchOpts...) {
		out = append(out, m.MappingsForHandler(method.ClassName(), handler.LambdaMarker, nil)...)
	}
	return out
}

// HandlerKeys returns the distinct "<className>#<methodName>" keys in the
// order they first appear.
func (m *Model) HandlerKeys() []string {
	var keys []string
	for _, mapping := range m.mappings {
		if mapping.Handler == nil {
			continue
		}
		if k := mapping.Handler.Key(); !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Dispatchers returns the distinct dispatchers in the order they first appear.
func (m *Model) Dispatchers() []DispatcherServlet {
	var out []DispatcherServlet
	for _, mapping := range m.mappings {
		if !slices.ContainsFunc(out, mapping.Dispatcher.Equal) {
			out = append(out, mapping.Dispatcher)
		}
	}
	return out
}

// Filter returns a new model holding the mappings keep accepts.
func (m *Model) Filter(keep func(Mapping) bool) *Model {
	var out []Mapping
	for _, mapping := range m.mappings {
		if keep(mapping) {
			out = append(out, mapping)
		}
	}
	return NewModel(out, m.matchOpts...)
}

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

//go:build !integration

package mappings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/mappings/handler"
	"rivaas.dev/mappings/predicate"
)

func loadTree(t *testing.T, name string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal(data, &tree))
	return tree
}

// recorder collects diagnostics.
type recorder struct {
	mu     sync.Mutex
	events []DiagnosticEvent
}

func (r *recorder) OnDiagnostic(e DiagnosticEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []DiagnosticKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DiagnosticKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// Flat Layout Tests

func TestParse_Flat(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	model := Parse(loadTree(t, "flat.json"), WithDiagnostics(rec))
	ms := model.Mappings()
	require.Len(t, ms, 4)

	assert.Equal(t, "/webjars/**", ms[0].Predicate.Path)
	assert.Equal(t, "resourceHandlerMapping", ms[0].Bean)
	assert.False(t, ms[0].HasHandler())
	assert.Equal(t, DefaultDispatcher, ms[0].Dispatcher)

	assert.Equal(t, "{[/broken", ms[1].Predicate.Path)
	require.True(t, ms[1].HasHandler())
	assert.Equal(t, "BrokenController#run", ms[1].Handler.DisplayName())

	assert.Equal(t, "/users/{id}", ms[2].Predicate.Path)
	assert.Equal(t, []string{"GET", "HEAD"}, ms[2].Predicate.Methods)
	assert.Equal(t, []string{"application/json"}, ms[2].Predicate.Produces)
	assert.Equal(t, []string{"java.lang.Long"}, ms[2].Handler.Parameters)

	assert.Equal(t, "/users", ms[3].Predicate.Path)
	assert.Equal(t, "com.acme.web.UserController", ms[3].Handler.ClassName)
	assert.Equal(t, "list", ms[3].Handler.MethodName)

	assert.ElementsMatch(t, []DiagnosticKind{DiagEntrySkipped, DiagPredicateFallback}, rec.kinds())
}

func TestParse_Nil(t *testing.T) {
	t.Parallel()

	model := Parse(nil)
	assert.Equal(t, 0, model.Len())
	assert.Empty(t, model.Mappings())
}

func TestParse_ContextsWithSiblingIsFlat(t *testing.T) {
	t.Parallel()

	tree := loadTree(t, "nested.json")
	tree["/extra"] = map[string]any{"bean": "extra"}

	model := Parse(tree)
	// "contexts" is treated as a flat entry without bean or method.
	require.Equal(t, 2, model.Len())
	assert.Equal(t, "/extra", model.Mappings()[0].Predicate.Path)
	assert.Equal(t, "contexts", model.Mappings()[1].Predicate.Path)
}

// Nested Layout Tests

func TestParse_Nested(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	model := Parse(loadTree(t, "nested.json"), WithDiagnostics(rec))
	ms := model.Mappings()
	require.Len(t, ms, 6)

	main := DispatcherServlet{Name: "dispatcherServlet", URLPatterns: []string{"/"}}

	find := ms[0]
	assert.Equal(t, "{GET /users/{id}, produces [text/html]}", find.RawKey)
	assert.Equal(t, "/users/{id}", find.Predicate.Path)
	assert.Equal(t, []string{"GET"}, find.Predicate.Methods)
	assert.Equal(t, []string{"text/html"}, find.Predicate.Produces)
	assert.Equal(t, main, find.Dispatcher)
	require.NotNil(t, find.Handler)
	assert.Equal(t, "com.acme.web.UserController.find(java.lang.Long, org.springframework.ui.Model)", find.Handler.Raw)
	assert.Empty(t, find.Bean)

	save := ms[1]
	assert.Equal(t, "/users", save.Predicate.Path)
	require.NotNil(t, save.Handler, "falls back to the handler string")
	assert.Equal(t, []string{"com.acme.User"}, save.Handler.Parameters)

	resources := ms[2]
	assert.Equal(t, "/**", resources.Predicate.Path)
	assert.Nil(t, resources.Handler)

	fn := ms[3]
	assert.Equal(t, "/fn/{id}", fn.Predicate.Path)
	assert.Equal(t, []string{"GET", "HEAD"}, fn.Predicate.Methods)
	assert.True(t, fn.Handler.IsLambda())

	second := ms[4]
	assert.Equal(t, DispatcherServlet{Name: "secondDispatcher", URLPatterns: []string{}}, second.Dispatcher)

	reactive := ms[5]
	assert.Equal(t, "/reactive", reactive.Predicate.Path)
	assert.Equal(t, []string{"POST"}, reactive.Predicate.Methods)
	assert.Equal(t, "webHandler", reactive.Dispatcher.Name)

	assert.ElementsMatch(t, []DiagnosticKind{DiagHandlerUndecodable, DiagHandlerDropped, DiagEntrySkipped}, rec.kinds())
}

func TestParse_NonScalarPredicateSkipped(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tree := map[string]any{
		"contexts": map[string]any{
			"app": map[string]any{
				"mappings": map[string]any{
					"dispatcherServlets": map[string]any{
						"dispatcherServlet": []any{
							map[string]any{"predicate": map[string]any{"path": "/a"}, "handler": "x.Y.a()"},
							map[string]any{"predicate": []any{"/b"}, "handler": "x.Y.b()"},
							map[string]any{"predicate": "/c", "handler": "x.Y.c()"},
						},
					},
				},
			},
		},
	}

	model := Parse(tree, WithDiagnostics(rec))
	ms := model.Mappings()
	require.Len(t, ms, 1)
	assert.Equal(t, "/c", ms[0].Predicate.Path)
	assert.Equal(t, []DiagnosticKind{DiagEntrySkipped, DiagEntrySkipped}, rec.kinds())
}

func TestParse_YAMLStyleMaps(t *testing.T) {
	t.Parallel()

	tree := map[string]any{
		"contexts": map[any]any{
			"app": map[any]any{
				"mappings": map[any]any{
					"dispatcherServlets": map[any]any{
						"dispatcherServlet": []map[string]any{
							{"predicate": "/a", "handler": "x.Y.z()"},
						},
					},
				},
			},
		},
	}

	model := Parse(tree)
	require.Equal(t, 1, model.Len())
	assert.Equal(t, "/a", model.Mappings()[0].Predicate.Path)
	assert.Equal(t, "x.Y#z", model.Mappings()[0].Handler.Key())
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	tree := loadTree(t, "nested.json")
	assert.Equal(t, Parse(tree).Mappings(), Parse(tree).Mappings())
}

func TestParse_EveryPredicateHasPath(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"flat.json", "nested.json"} {
		for _, m := range Parse(loadTree(t, name)).Mappings() {
			assert.NotEmpty(t, m.Predicate.Path, "fixture %s key %q", name, m.RawKey)
			assert.NotNil(t, m.Predicate.Methods)
		}
	}
}

func TestParse_ExpandsRouterAlternatives(t *testing.T) {
	t.Parallel()

	tree := map[string]any{
		"((/a || /b) && GET)": map[string]any{"method": "void x.Y.z()"},
	}
	ms := Parse(tree).Mappings()
	require.Len(t, ms, 2)
	assert.Equal(t, ms[0].RawKey, ms[1].RawKey)
	assert.True(t, ms[0].Predicate.Equal(predicate.Predicate{
		Path: "/a", Methods: []string{"GET"},
	}))
	assert.Same(t, ms[0].Handler, ms[1].Handler)
	assert.Equal(t, handler.Parse("void x.Y.z()"), *ms[1].Handler)
}

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

package predicate

import (
	"net/http"
	"slices"
	"strings"
)

// knownMethods lists the HTTP methods a method atom may name, in the order
// used when a negated method expands to the remaining ones.
var knownMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodTrace,
}

// Methods returns the HTTP method names recognized by the router grammar.
func Methods() []string {
	return slices.Clone(knownMethods)
}

// IsMethod reports whether s is one of [Methods]. The comparison is case-sensitive.
func IsMethod(s string) bool {
	return slices.Contains(knownMethods, s)
}

// Pair is a key/value condition such as a header or a query parameter.
// A leading '!' on Key or Value is kept verbatim and denotes negation.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// String renders the pair as key=value, or just the key when the value is empty.
func (p Pair) String() string {
	if p.Value == "" {
		return p.Key
	}
	return p.Key + "=" + p.Value
}

// Predicate is one concrete route-matching rule.
//
// Methods, Produces and Consumes keep the order they appeared in but behave as
// sets. Headers and Params are ordered sequences. Every slice is non-nil.
type Predicate struct {
	Path     string   `json:"path"`
	Methods  []string `json:"methods"`
	Headers  []Pair   `json:"headers"`
	Produces []string `json:"produces"`
	Consumes []string `json:"consumes"`
	Params   []Pair   `json:"params"`
}

// newPredicate returns a predicate for path with every condition empty.
func newPredicate(path string) Predicate {
	return Predicate{
		Path:     path,
		Methods:  []string{},
		Headers:  []Pair{},
		Produces: []string{},
		Consumes: []string{},
		Params:   []Pair{},
	}
}

// Equal reports whether two predicates describe the same rule.
func (p Predicate) Equal(o Predicate) bool {
	return p.Path == o.Path &&
		sameSet(p.Methods, o.Methods) &&
		sameSet(p.Produces, o.Produces) &&
		sameSet(p.Consumes, o.Consumes) &&
		slices.Equal(p.Headers, o.Headers) &&
		slices.Equal(p.Params, o.Params)
}

// HasConditions reports whether anything besides the path constrains the route.
func (p Predicate) HasConditions() bool {
	return len(p.Headers)+len(p.Produces)+len(p.Consumes)+len(p.Params) > 0
}

// Conditions renders headers, params, produces and consumes in a compact form,
// for example "headers=X-A=1 produces=application/json".
func (p Predicate) Conditions() string {
	var parts []string
	if len(p.Headers) > 0 {
		parts = append(parts, "headers="+joinPairs(p.Headers))
	}
	if len(p.Params) > 0 {
		parts = append(parts, "params="+joinPairs(p.Params))
	}
	if len(p.Produces) > 0 {
		parts = append(parts, "produces="+strings.Join(p.Produces, ","))
	}
	if len(p.Consumes) > 0 {
		parts = append(parts, "consumes="+strings.Join(p.Consumes, ","))
	}
	return strings.Join(parts, " ")
}

// String renders the predicate on one line, e.g. "GET,POST /a [produces=text/plain]".
func (p Predicate) String() string {
	var b strings.Builder
	if len(p.Methods) > 0 {
		b.WriteString(strings.Join(p.Methods, ","))
		b.WriteByte(' ')
	}
	b.WriteString(p.Path)
	if c := p.Conditions(); c != "" {
		b.WriteString(" [")
		b.WriteString(c)
		b.WriteByte(']')
	}
	return b.String()
}

func joinPairs(pairs []Pair) string {
	s := make([]string, len(pairs))
	for i, p := range pairs {
		s[i] = p.String()
	}
	return strings.Join(s, "&")
}

// sameSet compares two string lists ignoring order and repetition.
func sameSet(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	for _, v := range b {
		if !slices.Contains(a, v) {
			return false
		}
	}
	return true
}

// union appends the members of b missing from a, preserving first-seen order.
func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	for _, v := range a {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// orEmpty returns s, or an empty non-nil slice when s is nil.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

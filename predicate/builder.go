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

import "slices"

// builder is a partial predicate used while evaluating a router expression.
// A nil slice or empty path means the field is absent. Builders are values;
// and/or return new builders and never modify their receivers.
type builder struct {
	path     string
	methods  []string
	headers  []Pair
	produces []string
	consumes []string
	params   []Pair
}

// and merges two builders that must hold together. Path, methods, produces
// and consumes present on both sides must agree; headers and params are
// concatenated.
func (b builder) and(o builder) (builder, error) {
	out := b
	if out.path == "" {
		out.path = o.path
	} else if o.path != "" && o.path != b.path {
		return builder{}, ErrUnmatchable
	}

	var err error
	if out.methods, err = agree(b.methods, o.methods); err != nil {
		return builder{}, err
	}
	if out.produces, err = agree(b.produces, o.produces); err != nil {
		return builder{}, err
	}
	if out.consumes, err = agree(b.consumes, o.consumes); err != nil {
		return builder{}, err
	}

	out.headers = slices.Concat(b.headers, o.headers)
	out.params = slices.Concat(b.params, o.params)
	return out, nil
}

// or folds two alternatives into one when they share path, headers and
// params, uniting methods, produces and consumes. It reports false when the
// alternatives must stay separate.
func (b builder) or(o builder) (builder, bool) {
	if b.path != o.path || !slices.Equal(b.headers, o.headers) || !slices.Equal(b.params, o.params) {
		return builder{}, false
	}
	out := b
	out.methods = unite(b.methods, o.methods)
	out.produces = unite(b.produces, o.produces)
	out.consumes = unite(b.consumes, o.consumes)
	return out, true
}

// equal compares set-like fields as sets and sequences as sequences.
func (b builder) equal(o builder) bool {
	return b.path == o.path &&
		(b.methods == nil) == (o.methods == nil) && sameSet(b.methods, o.methods) &&
		(b.produces == nil) == (o.produces == nil) && sameSet(b.produces, o.produces) &&
		(b.consumes == nil) == (o.consumes == nil) && sameSet(b.consumes, o.consumes) &&
		slices.Equal(b.headers, o.headers) &&
		slices.Equal(b.params, o.params)
}

// build finalizes the builder. Builders without a path cannot be represented
// and report false.
func (b builder) build() (Predicate, bool) {
	if b.path == "" {
		return Predicate{}, false
	}
	return Predicate{
		Path:     b.path,
		Methods:  orEmpty(slices.Clone(b.methods)),
		Headers:  orEmpty(slices.Clone(b.headers)),
		Produces: orEmpty(slices.Clone(b.produces)),
		Consumes: orEmpty(slices.Clone(b.consumes)),
		Params:   orEmpty(slices.Clone(b.params)),
	}, true
}

func agree(a, b []string) ([]string, error) {
	switch {
	case a == nil:
		return b, nil
	case b == nil || sameSet(a, b):
		return a, nil
	default:
		return nil, ErrUnmatchable
	}
}

func unite(a, b []string) []string {
	if a == nil && b == nil {
		return nil
	}
	return union(a, b)
}

// appendUnique adds builders not already present, keeping insertion order.
func appendUnique(dst []builder, bs ...builder) []builder {
	for _, b := range bs {
		if !slices.ContainsFunc(dst, b.equal) {
			dst = append(dst, b)
		}
	}
	return dst
}

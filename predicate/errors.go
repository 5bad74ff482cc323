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
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformed indicates a structurally invalid router expression:
	// unbalanced parentheses, two operators in a row, an empty group or
	// blank input.
	ErrMalformed = errors.New("malformed router predicate")

	// ErrUnmatchable indicates a router expression that no request can
	// satisfy, such as a negated path or an AND of two different paths.
	ErrUnmatchable = errors.New("unmatchable router predicate")

	// ErrTruncated indicates a bracketed descriptor without its closing bracket.
	ErrTruncated = errors.New("truncated mapping descriptor")

	// ErrNoPath indicates that no path could be isolated from the descriptor.
	ErrNoPath = errors.New("no path in mapping descriptor")
)

// ParseError describes why a grammar rejected a descriptor.
type ParseError struct {
	Grammar Grammar
	Input   string
	// Offset is the byte offset of the offending token, or -1 when the
	// failure is not tied to a position.
	Offset int
	Err    error
}

func newParseError(g Grammar, input string, offset int, err error) *ParseError {
	return &ParseError{Grammar: g, Input: input, Offset: offset, Err: err}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s descriptor %q: %v at offset %d", e.Grammar, e.Input, e.Err, e.Offset)
	}
	return fmt.Sprintf("%s descriptor %q: %v", e.Grammar, e.Input, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Code returns a machine-readable error code.
func (e *ParseError) Code() string {
	switch {
	case errors.Is(e.Err, ErrMalformed):
		return "malformed-expression"
	case errors.Is(e.Err, ErrUnmatchable):
		return "unmatchable-expression"
	case errors.Is(e.Err, ErrTruncated):
		return "truncated-descriptor"
	case errors.Is(e.Err, ErrNoPath):
		return "missing-path"
	default:
		return "invalid-descriptor"
	}
}

// HTTPStatus reports the status used when the error reaches an HTTP client.
func (e *ParseError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// Details reports where the descriptor was rejected.
func (e *ParseError) Details() any {
	d := map[string]any{"grammar": e.Grammar.String()}
	if e.Offset >= 0 {
		d["offset"] = e.Offset
	}
	return d
}

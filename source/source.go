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

package source

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned when a Consul key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnexpectedStatus is returned for non-2xx HTTP responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Source loads a raw document tree.
//
// Load must be safe to call concurrently.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// Error describes a source failure.
type Error struct {
	Source    string // e.g. "file:mappings.json", "consul:app/mappings"
	Operation string // e.g. "read", "decode", "get"
	Err       error
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	return fmt.Sprintf("source %s: %s: %v", e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(source, op string, err error) *Error {
	return &Error{Source: source, Operation: op, Err: err}
}

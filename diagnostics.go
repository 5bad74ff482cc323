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

// DiagnosticEvent reports something the walker tolerated while building a
// model. Diagnostics never change the result; they only make degradations
// visible.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagPredicateFallback: a descriptor was rejected by its grammar and
	// kept as a plain path.
	DiagPredicateFallback DiagnosticKind = "predicate_fallback"
	// DiagHandlerUndecodable: a structured handler record could not be decoded.
	DiagHandlerUndecodable DiagnosticKind = "handler_undecodable"
	// DiagHandlerDropped: a handler string describing a collection was ignored.
	DiagHandlerDropped DiagnosticKind = "handler_dropped"
	// DiagEntrySkipped: part of the tree had an unexpected shape and was ignored.
	DiagEntrySkipped DiagnosticKind = "entry_skipped"
)

// DiagnosticHandler receives diagnostic events from [Parse].
// If none is configured, diagnostics are dropped.
//
// Example with logging:
//
//	h := mappings.DiagnosticHandlerFunc(func(e mappings.DiagnosticEvent) {
//	    slog.Debug(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	model := mappings.Parse(tree, mappings.WithDiagnostics(h))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

// OnDiagnostic calls f(e).
func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

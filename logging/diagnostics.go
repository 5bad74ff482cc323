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

package logging

import (
	"log/slog"
	"maps"
	"slices"

	"rivaas.dev/mappings"
)

// DiagnosticHandler returns a handler that logs walker diagnostics at debug
// level, one record per event with its fields as attributes.
func DiagnosticHandler(l *Logger) mappings.DiagnosticHandler {
	return mappings.DiagnosticHandlerFunc(func(e mappings.DiagnosticEvent) {
		args := make([]any, 0, 2+2*len(e.Fields))
		args = append(args, slog.String("kind", string(e.Kind)))
		for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
			args = append(args, slog.Any(k, e.Fields[k]))
		}
		l.Debug(e.Message, args...)
	})
}

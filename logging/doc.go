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

// Package logging provides the structured logger used by the mappings CLI
// and inspection server.
//
// It wraps [log/slog] with three output formats:
//
//   - [JSONHandler]: one JSON object per record, for log aggregation
//   - [TextHandler]: key=value records
//   - [ConsoleHandler]: coloured single-line records for terminals
//
// Console output goes through a colorprofile writer, so colours are
// downsampled to what the terminal supports and stripped entirely when the
// output is not a TTY or NO_COLOR is set.
//
// Values of sensitive keys (password, token, secret, api_key, authorization
// and acl_token) are always replaced with "***REDACTED***".
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	logger.Info("model loaded", "mappings", model.Len())
//
// [DiagnosticHandler] forwards descriptor-walk diagnostics to a logger.
package logging

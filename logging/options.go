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
	"io"
	"log/slog"
)

// WithHandlerType sets the output format.
func WithHandlerType(t HandlerType) Option {
	return func(l *Logger) { l.handlerType = t }
}

// WithJSONHandler uses JSON output (default).
func WithJSONHandler() Option {
	return WithHandlerType(JSONHandler)
}

// WithTextHandler uses key=value output.
func WithTextHandler() Option {
	return WithHandlerType(TextHandler)
}

// WithConsoleHandler uses coloured console output.
func WithConsoleHandler() Option {
	return WithHandlerType(ConsoleHandler)
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.output = w }
}

// WithLevel sets the minimum level.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level.Set(level) }
}

// WithServiceName adds a "service" attribute to every record.
func WithServiceName(name string) Option {
	return func(l *Logger) { l.serviceName = name }
}

// WithServiceVersion adds a "version" attribute to every record.
func WithServiceVersion(version string) Option {
	return func(l *Logger) { l.serviceVersion = version }
}

// WithSource adds the source location to every record.
func WithSource(enabled bool) Option {
	return func(l *Logger) { l.addSource = enabled }
}

// WithDebugMode enables debug level and source locations.
func WithDebugMode(enabled bool) Option {
	return func(l *Logger) {
		if enabled {
			l.addSource = true
			l.level.Set(LevelDebug)
		}
	}
}

// WithReplaceAttr sets an attribute replacer applied after redaction.
// Returning an empty [slog.Attr] drops the attribute.
func WithReplaceAttr(fn func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(l *Logger) { l.replaceAttr = fn }
}

// WithCustomLogger uses logger as is. Level changes are then unsupported.
func WithCustomLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		l.customLogger = logger
		l.useCustom = true
	}
}

// WithGlobalLogger registers the logger as the slog default.
func WithGlobalLogger() Option {
	return func(l *Logger) { l.registerGlobal = true }
}

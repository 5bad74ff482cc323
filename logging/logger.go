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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/colorprofile"
)

// HandlerType selects the output format.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable coloured logs.
	ConsoleHandler HandlerType = "console"
)

// Level is a log level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const redacted = "***REDACTED***"

// sensitiveKeys are attribute keys whose values never reach the output.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"secret":        {},
	"api_key":       {},
	"authorization": {},
	"acl_token":     {},
}

// ParseLevel converts a level name such as "debug" or "WARN" into a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// Logger is a configured slog logger.
//
// All methods are safe for concurrent use. The level lives in a
// [slog.LevelVar], so [Logger.SetLevel] takes effect without rebuilding
// the handler.
type Logger struct {
	handlerType    HandlerType
	output         io.Writer
	level          slog.LevelVar
	serviceName    string
	serviceVersion string
	addSource      bool
	replaceAttr    func(groups []string, a slog.Attr) slog.Attr
	customLogger   *slog.Logger
	useCustom      bool
	registerGlobal bool

	slogger  atomic.Pointer[slog.Logger]
	shutdown atomic.Bool
}

// Option configures a Logger.
type Option func(*Logger)

// New creates a Logger. The default is a JSON handler on stdout at info
// level. The global slog logger is left alone unless [WithGlobalLogger] is
// given.
func New(opts ...Option) (*Logger, error) {
	l := &Logger{
		handlerType: JSONHandler,
		output:      os.Stdout,
	}
	l.level.Set(LevelInfo)

	for _, opt := range opts {
		opt(l)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := l.initialize(); err != nil {
		return nil, err
	}
	return l, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

// Validate checks the configuration.
func (l *Logger) Validate() error {
	if l.output == nil {
		return errors.New("output writer cannot be nil")
	}
	if l.useCustom && l.customLogger == nil {
		return ErrNilLogger
	}
	return nil
}

func (l *Logger) initialize() error {
	if l.useCustom {
		l.store(l.customLogger)
		return nil
	}

	opts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.buildReplaceAttr(),
	}

	var handler slog.Handler
	switch l.handlerType {
	case JSONHandler:
		handler = slog.NewJSONHandler(l.output, opts)
	case TextHandler:
		handler = slog.NewTextHandler(l.output, opts)
	case ConsoleHandler:
		handler = newConsoleHandler(colorprofile.NewWriter(l.output, os.Environ()), opts)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidHandler, l.handlerType)
	}

	logger := slog.New(handler)
	var attrs []any
	if l.serviceName != "" {
		attrs = append(attrs, "service", l.serviceName)
	}
	if l.serviceVersion != "" {
		attrs = append(attrs, "version", l.serviceVersion)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	l.store(logger)
	return nil
}

func (l *Logger) store(logger *slog.Logger) {
	l.slogger.Store(logger)
	if l.registerGlobal {
		slog.SetDefault(logger)
	}
}

func (l *Logger) buildReplaceAttr() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
			return slog.String(a.Key, redacted)
		}
		if l.replaceAttr != nil {
			return l.replaceAttr(groups, a)
		}
		return a
	}
}

// Logger returns the underlying [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.slogger.Load()
}

// With returns a [slog.Logger] with additional attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.Logger().With(args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l.shutdown.Load() {
		return
	}
	logger := l.Logger()
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}
	logger.Log(ctx, level, msg, args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) error {
	if l.useCustom {
		return ErrCannotChangeLevel
	}
	l.level.Set(level)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// Shutdown stops the logger; later records are dropped.
func (l *Logger) Shutdown(context.Context) error {
	l.shutdown.Store(true)
	return nil
}

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
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ANSI escape codes. The colorprofile writer strips them when needed.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[37m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

var consoleBuilderPool = sync.Pool{
	New: func() any { return &strings.Builder{} },
}

// consoleHandler writes one coloured line per record:
//
//	15:04:05.000 INFO  model loaded mappings=42
type consoleHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	output io.Writer
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &consoleHandler{opts: opts, mu: &sync.Mutex{}, output: w}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	b := consoleBuilderPool.Get().(*strings.Builder)
	b.Reset()
	defer consoleBuilderPool.Put(b)

	b.WriteString(colorDim + r.Time.Format("15:04:05.000") + colorReset + " ")
	fmt.Fprintf(b, "%s%s%-5s%s ", levelColor(r.Level), colorBold, r.Level.String(), colorReset)
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(b, h.qualify(a))
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			fmt.Fprintf(b, " %s(%s:%d)%s", colorGray, filepath.Base(frame.File), frame.Line, colorReset)
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.output, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}
	return &c
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append([]string(nil), h.groups...), name)
	return &c
}

// qualify prefixes the attribute key with the open groups.
func (h *consoleHandler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return a
	}
	a.Key = strings.Join(h.groups, ".") + "." + a.Key
	return a
}

func (h *consoleHandler) appendAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			ga.Key = a.Key + "." + ga.Key
			h.appendAttr(b, ga)
		}
		return
	}
	if rep := h.opts.ReplaceAttr; rep != nil {
		key := a.Key
		if i := strings.LastIndexByte(key, '.'); i >= 0 {
			a.Key = key[i+1:]
		}
		if a = rep(h.groups, a); a.Equal(slog.Attr{}) {
			return
		}
		a.Key = key
	}

	b.WriteString(" " + colorGray + a.Key + "=" + colorReset)
	switch v := a.Value.Any().(type) {
	case time.Time:
		b.WriteString(v.Format(time.RFC3339))
	case error:
		b.WriteString(v.Error())
	case string:
		if strings.ContainsAny(v, " \t\n\"") {
			fmt.Fprintf(b, "%q", v)
		} else {
			b.WriteString(v)
		}
	default:
		b.WriteString(a.Value.String())
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

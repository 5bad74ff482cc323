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

//go:build !integration

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/mappings"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for line := range strings.Lines(buf.String()) {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(WithOutput(nil))
	require.Error(t, err)

	_, err = New(WithHandlerType("xml"))
	require.ErrorIs(t, err, ErrInvalidHandler)

	_, err = New(WithCustomLogger(nil))
	require.ErrorIs(t, err, ErrNilLogger)

	assert.Panics(t, func() { MustNew(WithHandlerType("xml")) })
}

func TestLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithServiceName("mappings"), WithServiceVersion("v1"))
	l.Debug("hidden")
	l.Info("model loaded", "mappings", 3)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "model loaded", lines[0]["msg"])
	assert.Equal(t, "mappings", lines[0]["service"])
	assert.Equal(t, "v1", lines[0]["version"])
	assert.EqualValues(t, 3, lines[0]["mappings"])
}

func TestLogger_Redaction(t *testing.T) {
	t.Parallel()

	for _, h := range []HandlerType{JSONHandler, TextHandler, ConsoleHandler} {
		t.Run(string(h), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := MustNew(WithOutput(&buf), WithHandlerType(h))
			l.Info("consul", "acl_token", "s3cr3t", "Authorization", "Bearer x", "key", "app/mappings")

			out := buf.String()
			assert.NotContains(t, out, "s3cr3t")
			assert.NotContains(t, out, "Bearer x")
			assert.Contains(t, out, redacted)
			assert.Contains(t, out, "app/mappings")
		})
	}
}

func TestLogger_ConsoleStripsColourOffTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithConsoleHandler())
	l.With("component", "server").WithGroup("http").Warn("slow request", "path", "/mappings", "note", "took a while")

	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "slow request")
	assert.Contains(t, out, "component=server")
	assert.Contains(t, out, "http.path=/mappings")
	assert.Contains(t, out, `http.note="took a while"`)
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf))
	l.Debug("before")
	require.NoError(t, l.SetLevel(LevelDebug))
	assert.Equal(t, LevelDebug, l.Level())
	l.Debug("after")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "after", lines[0]["msg"])

	custom := MustNew(WithCustomLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	assert.ErrorIs(t, custom.SetLevel(LevelDebug), ErrCannotChangeLevel)
}

func TestLogger_Shutdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf))
	require.NoError(t, l.Shutdown(context.Background()))
	l.Error("dropped")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: " error ", want: LevelError},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiagnosticHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithLevel(LevelDebug))

	mappings.Parse(map[string]any{
		"{[/broken": map[string]any{"bean": "requestMappingHandlerMapping"},
	}, mappings.WithDiagnostics(DiagnosticHandler(l)))

	lines := decodeLines(t, &buf)
	require.NotEmpty(t, lines)
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, string(mappings.DiagPredicateFallback), lines[0]["kind"])
}

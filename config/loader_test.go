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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/mappings/codec"
	"rivaas.dev/mappings/source"
)

func load(t *testing.T, opts ...Option) (*Settings, error) {
	t.Helper()

	l, err := New(opts...)
	require.NoError(t, err)
	return l.Load(context.Background())
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	s, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, SourceFile, s.Source.Kind)
	assert.Equal(t, 10*time.Second, s.Source.HTTP.Timeout)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
	assert.Zero(t, s.Render.Width)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	yaml := []byte(`
source:
  kind: http
  http:
    url: http://localhost:8081/actuator/mappings
    timeout: 2s
server:
  addr: ":9000"
log:
  level: debug
`)
	toml := []byte(`
[Log]
Level = "warn"
[render]
width = 100
`)

	s, err := load(t,
		WithContent(yaml, codec.TypeYAML),
		WithContent(toml, codec.TypeTOML),
		WithOverrides(map[string]any{"server.addr": ":7000", "source.path": ""}),
	)
	require.NoError(t, err)

	assert.Equal(t, SourceHTTP, s.Source.Kind)
	assert.Equal(t, "http://localhost:8081/actuator/mappings", s.Source.HTTP.URL)
	assert.Equal(t, 2*time.Second, s.Source.HTTP.Timeout)
	assert.Equal(t, "warn", s.Log.Level, "later sources win; keys are case-insensitive")
	assert.Equal(t, 100, s.Render.Width)
	assert.Equal(t, ":7000", s.Server.Addr)
	assert.Empty(t, s.Source.Path, "empty overrides are skipped")
}

//nolint:paralleltest // uses t.Setenv
func TestLoad_Env(t *testing.T) {
	t.Setenv("MAPPINGS_SOURCE__KIND", "consul")
	t.Setenv("MAPPINGS_SOURCE__CONSUL__ACL_TOKEN", "s3cr3t")
	t.Setenv("MAPPINGS_RENDER__WIDTH", "120")

	path := filepath.Join(t.TempDir(), "mappings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"source": {"kind": "file", "consul": {"key": "app/mappings"}}}`), 0o600))

	s, err := load(t, WithFile(path), WithEnv(DefaultEnvPrefix))
	require.NoError(t, err)
	assert.Equal(t, SourceConsul, s.Source.Kind)
	assert.Equal(t, "app/mappings", s.Source.Consul.Key)
	assert.Equal(t, "s3cr3t", s.Source.Consul.ACLToken)
	assert.Equal(t, 120, s.Render.Width)
}

func TestLoad_SchemaRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown top-level key", content: `{"sever": {"addr": ":1"}}`},
		{name: "unknown nested key", content: `{"source": {"consul": {"token": "x"}}}`},
		{name: "bad enum", content: `{"log": {"level": "verbose"}}`},
		{name: "bad duration", content: `{"source": {"http": {"timeout": "soon"}}}`},
		{name: "negative width", content: `{"render": {"width": -1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := load(t, WithContent([]byte(tt.content), codec.TypeJSON))
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "json-schema", cfgErr.Source)
		})
	}
}

func TestLoad_StructValidation(t *testing.T) {
	t.Parallel()

	_, err := load(t, WithContent([]byte(`{"server": {"problem_base_url": "not a url"}}`), codec.TypeJSON))
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "server.problem_base_url", cfgErr.Field)
	assert.Equal(t, "validate", cfgErr.Operation)
}

func TestLoad_SourceError(t *testing.T) {
	t.Parallel()

	src, err := source.File(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	_, err = load(t, WithSource(src))
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "source[0]", cfgErr.Source)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_CollectsOptionErrors(t *testing.T) {
	t.Parallel()

	l, err := New(WithFile("settings.ini"), nil, WithSource(nil))
	require.Error(t, err)
	assert.NotNil(t, l)
	assert.ErrorIs(t, err, codec.ErrUnknownExtension)

	assert.Panics(t, func() { MustNew(WithFile("settings.ini")) })
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	err := (&Settings{}).Validate()
	require.Error(t, err)

	var fields []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var cfgErr *Error
		require.ErrorAs(t, e, &cfgErr)
		fields = append(fields, cfgErr.Field)
	}
	assert.ElementsMatch(t, []string{"source.kind", "server.addr", "log.level", "log.format"}, fields)
}

func TestSourceSettings_Open(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		settings  SourceSettings
		wantType  any
		wantField string
	}{
		{name: "file", settings: SourceSettings{Kind: SourceFile, Path: "m.json"}, wantType: &source.FileSource{}},
		{name: "file with format", settings: SourceSettings{Kind: SourceFile, Path: "m", Format: "yaml"}, wantType: &source.FileSource{}},
		{name: "file without path", settings: SourceSettings{Kind: SourceFile}, wantField: "source.path"},
		{name: "file with unknown extension", settings: SourceSettings{Path: "m.txt"}, wantField: "source.format"},
		{name: "consul", settings: SourceSettings{Kind: SourceConsul, Consul: ConsulSettings{Key: "k", Address: "127.0.0.1:8500"}}, wantType: &source.ConsulSource{}},
		{name: "consul without key", settings: SourceSettings{Kind: SourceConsul}, wantField: "source.consul.key"},
		{name: "http", settings: SourceSettings{Kind: SourceHTTP, HTTP: HTTPSettings{URL: "http://x", Timeout: time.Second}}, wantType: &source.HTTPSource{}},
		{name: "http without url", settings: SourceSettings{Kind: SourceHTTP}, wantField: "source.http.url"},
		{name: "unknown kind", settings: SourceSettings{Kind: "ftp"}, wantField: "source.kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := tt.settings.Open()
			if tt.wantField != "" {
				var cfgErr *Error
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, tt.wantField, cfgErr.Field)
				assert.Nil(t, src)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, src)
		})
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	assert.Equal(t, "config error in settings.log.level during validate: boom",
		NewFieldError("settings", "log.level", "validate", base).Error())
	assert.Equal(t, "config error in source[1] during load: boom",
		NewError("source[1]", "load", base).Error())
	assert.ErrorIs(t, NewError("x", "y", base), base)
}

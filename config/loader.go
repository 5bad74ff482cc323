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

package config

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/mappings/codec"
	"rivaas.dev/mappings/source"
)

const (
	// DefaultEnvPrefix is the prefix of settings environment variables.
	DefaultEnvPrefix = "MAPPINGS_"

	tagName    = "config"
	schemaName = "settings.json"
)

//go:embed schema.json
var settingsSchema []byte

// Option configures a Loader.
type Option func(*Loader) error

// Loader merges settings sources into a validated [Settings].
type Loader struct {
	sources []source.Source
	schema  *jsonschema.Schema
}

// WithSource appends a custom source.
func WithSource(src source.Source) Option {
	return func(l *Loader) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithFile appends a settings file, detecting its format from the extension.
func WithFile(path string) Option {
	return func(l *Loader) error {
		src, err := source.File(path)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithFileAs appends a settings file decoded as t.
func WithFileAs(path string, t codec.Type) Option {
	return func(l *Loader) error {
		src, err := source.FileAs(path, t)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithContent appends in-memory settings decoded as t.
func WithContent(data []byte, t codec.Type) Option {
	return func(l *Loader) error {
		src, err := source.Content(data, t)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithEnv appends the environment variables starting with prefix.
func WithEnv(prefix string) Option {
	return func(l *Loader) error {
		l.sources = append(l.sources, source.Env(prefix))
		return nil
	}
}

// WithOverrides appends fixed values keyed by dotted paths such as
// "source.path". Empty strings are skipped so unset flags do not clear
// values from earlier sources.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) error {
		tree := make(map[string]any)
		for key, v := range values {
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			setPath(tree, strings.Split(strings.ToLower(key), "."), v)
		}
		l.sources = append(l.sources, staticSource(tree))
		return nil
	}
}

type staticSource map[string]any

func (s staticSource) Load(context.Context) (map[string]any, error) {
	return maps.Clone(s), nil
}

func setPath(tree map[string]any, path []string, v any) {
	for _, part := range path[:len(path)-1] {
		next, ok := tree[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			tree[part] = next
		}
		tree = next
	}
	tree[path[len(path)-1]] = v
}

// New creates a Loader. Option errors are collected and returned together
// with the partially configured loader.
func New(options ...Option) (*Loader, error) {
	var errs error
	l := &Loader{}

	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(l); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	schema, err := compileSchema(settingsSchema)
	if err != nil {
		errs = errors.Join(errs, NewError("json-schema", "compile", err))
	}
	l.schema = schema

	return l, errs
}

// MustNew is like New but panics on error.
func MustNew(options ...Option) *Loader {
	l, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create loader: %v", err))
	}
	return l
}

func compileSchema(schema []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(schemaName, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaName)
}

// Load merges the sources, validates the result against the settings
// schema, binds it and applies defaults.
//
// Errors:
//   - Returns [*Error] if a source fails to load or merge
//   - Returns [*Error] if schema validation fails
//   - Returns [*Error] if binding fails
//   - Returns [*Error] values joined together if struct validation fails
func (l *Loader) Load(ctx context.Context) (*Settings, error) {
	values, err := l.loadSourcesSequential(ctx)
	if err != nil {
		return nil, err
	}

	if l.schema != nil {
		instance, err := jsonInstance(values)
		if err != nil {
			return nil, NewError("json-schema", "validate", err)
		}
		if err = l.schema.Validate(instance); err != nil {
			return nil, NewError("json-schema", "validate", err)
		}
	}

	settings := &Settings{}
	if err = bind(values, settings); err != nil {
		return nil, NewError("binding", "bind", err)
	}
	if err = applyDefaults(settings); err != nil {
		return nil, NewError("binding", "defaults", err)
	}
	if err = settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// loadSourcesSequential loads every source in order and merges them with
// later sources taking precedence.
func (l *Loader) loadSourcesSequential(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range l.sources {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if conf == nil {
			continue
		}

		if err = mergo.Map(&merged, normalizeMapKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}
	return merged, nil
}

// normalizeMapKeys recursively lower-cases map keys.
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeMapKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}

// jsonInstance converts decoded values (which may hold YAML or TOML
// specific Go types) into the JSON data model the validator expects.
func jsonInstance(values map[string]any) (any, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func bind(values map[string]any, target *Settings) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tagName,
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	return nil
}

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

package codec

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// TypeEnvVar is the environment variable codec type.
const TypeEnvVar Type = "env_var"

// DefaultEnvSeparator separates nesting levels in variable names.
// A single underscore stays part of the key, so ACL_TOKEN maps to "acl_token".
const DefaultEnvSeparator = "__"

func init() {
	RegisterEncoder(TypeEnvVar, EnvVarCodec{})
	RegisterDecoder(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec converts between KEY=VALUE lines and nested maps.
//
// With Prefix "MAPPINGS_", the line MAPPINGS_SOURCE__CONSUL__ACL_TOKEN=x decodes
// to {"source": {"consul": {"acl_token": "x"}}}. Lines without the prefix are
// ignored. Keys are lower-cased; values are kept as strings.
type EnvVarCodec struct {
	// Prefix filters and is stripped from variable names. Empty accepts all.
	Prefix string
	// Separator splits nesting levels. Empty means DefaultEnvSeparator.
	Separator string
}

func (c EnvVarCodec) separator() string {
	if c.Separator == "" {
		return DefaultEnvSeparator
	}
	return c.Separator
}

// Encode flattens a map into sorted KEY=VALUE lines. Leaf values are
// converted with cast; slices are joined with commas.
func (c EnvVarCodec) Encode(v any) ([]byte, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, fmt.Errorf("EnvVarCodec.Encode: expected a map, got %T", v)
	}
	lines := make(map[string]string)
	if err := c.flatten(lines, "", m); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, k := range slices.Sorted(maps.Keys(lines)) {
		fmt.Fprintf(&buf, "%s%s=%s\n", c.Prefix, k, lines[k])
	}
	return buf.Bytes(), nil
}

func (c EnvVarCodec) flatten(out map[string]string, prefix string, m map[string]any) error {
	for k, v := range m {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + c.separator() + key
		}
		if nested, err := cast.ToStringMapE(v); err == nil && v != nil {
			if err := c.flatten(out, key, nested); err != nil {
				return err
			}
			continue
		}
		switch v.(type) {
		case []string, []any:
			out[key] = strings.Join(cast.ToStringSlice(v), ",")
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Errorf("EnvVarCodec.Encode: key %s: %w", key, err)
		}
		out[key] = s
	}
	return nil
}

// Decode parses KEY=VALUE lines into the *map[string]any pointed to by v.
func (c EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("EnvVarCodec.Decode: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	for line := range bytes.Lines(data) {
		key, value, found := strings.Cut(string(line), "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(key, c.Prefix) {
			continue
		}
		parts := nonEmpty(strings.Split(strings.ToLower(strings.TrimPrefix(key, c.Prefix)), c.separator()))
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				// A scalar set earlier at this level is replaced by the nested map.
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	*ptr = conf
	return nil
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

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

package source

import (
	"context"
	"os"
	"strings"

	"rivaas.dev/mappings/codec"
)

// EnvSource loads prefixed environment variables as a nested map.
type EnvSource struct {
	codec   codec.EnvVarCodec
	environ func() []string
}

// Env returns a source for variables starting with prefix. Nesting levels
// are separated by codec.DefaultEnvSeparator.
func Env(prefix string) *EnvSource {
	return &EnvSource{
		codec:   codec.EnvVarCodec{Prefix: prefix},
		environ: os.Environ,
	}
}

// Load decodes the current environment.
func (e *EnvSource) Load(context.Context) (map[string]any, error) {
	var conf map[string]any
	data := strings.Join(e.environ(), "\n")
	if err := e.codec.Decode([]byte(data), &conf); err != nil {
		return nil, newError("env:"+e.codec.Prefix, "decode", err)
	}
	return conf, nil
}

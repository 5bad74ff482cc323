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

// Package config loads the settings of the mappings CLI and inspection
// server.
//
// Settings are merged from sources in order, later sources overriding
// earlier ones:
//
//  1. struct tag defaults (applied to fields still zero after binding)
//  2. a settings file (JSON, YAML or TOML, detected from the extension)
//  3. environment variables with the MAPPINGS_ prefix
//  4. explicit overrides, such as command-line flags
//
// Environment variable names use a double underscore for nesting, so
// MAPPINGS_SOURCE__CONSUL__ACL_TOKEN sets source.consul.acl_token.
//
// The merged map is checked against an embedded JSON Schema, which rejects
// unknown keys, then bound to [Settings] with mapstructure and validated
// with go-playground/validator struct tags.
//
//	settings, err := config.New(
//	    config.WithFile("mappings.yaml"),
//	    config.WithEnv(config.DefaultEnvPrefix),
//	).Load(ctx)
//
// All failures are returned as [*Error].
package config

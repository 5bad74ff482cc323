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

// Package codec encodes and decodes descriptor documents, settings files and
// model exports.
//
// Codecs register themselves under a [Type] at init time and are looked up
// with [GetEncoder] and [GetDecoder]. The built-in types are:
//
//   - [TypeJSON]: encoding/json
//   - [TypeYAML]: github.com/goccy/go-yaml
//   - [TypeTOML]: github.com/BurntSushi/toml
//   - [TypeMsgPack]: github.com/vmihailenco/msgpack/v5
//   - [TypeEnvVar]: KEY=VALUE lines, decode only
//
// [ForPath] picks a type from a file extension:
//
//	t, err := codec.ForPath("mappings.yaml") // codec.TypeYAML
//	dec, err := codec.GetDecoder(t)
//
// All codecs are safe for concurrent use.
package codec

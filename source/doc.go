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

// Package source loads raw descriptor trees and settings maps.
//
// A [Source] returns a map[string]any decoded by a [codec.Decoder]. The
// descriptor tree is handed to [mappings.Parse]; settings maps are merged by
// the config package.
//
//	src, err := source.File("mappings.json")
//	tree, err := src.Load(ctx)
//	model := mappings.Parse(tree)
//
// Available sources:
//
//   - [File], [FileAs] and [Content] for local documents
//   - [Consul] for a document stored under one KV key, with blocking-query [Consul.Watch]
//   - [HTTP] for a live actuator mappings endpoint
//   - [Env] for prefixed environment variables
//
// Every failure is returned as an [*Error] naming the source and operation.
package source

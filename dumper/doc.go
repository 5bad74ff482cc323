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

// Package dumper writes exported mapping models through a codec.
//
// The written document has a single top-level key so every codec, TOML
// included, can represent it:
//
//	mappings:
//	  - key: "{GET /users}"
//	    path: /users
//	    methods: [GET]
//
// Example:
//
//	enc, _ := codec.GetEncoder(codec.TypeYAML)
//	err := dumper.NewFile("mappings.yaml", enc).Dump(ctx, model)
package dumper

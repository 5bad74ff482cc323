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

// Package render prints a mappings model as a terminal table.
//
//	╭────────┬─────────────┬──────────────────────────┬───────────────────────┬───────────────────╮
//	│ Method │ Path        │ Conditions               │ Handler               │ Dispatcher        │
//	├────────┼─────────────┼──────────────────────────┼───────────────────────┼───────────────────┤
//	│ GET    │ /users/{id} │ produces=application/json│ UserController#find   │ dispatcherServlet │
//	╰────────┴─────────────┴──────────────────────────┴───────────────────────┴───────────────────╯
//	1 mapping
//
// Methods are colour-coded. Output goes through a colorprofile writer, which
// downsamples colours to the terminal's capabilities and strips them when
// the output is not a TTY.
package render

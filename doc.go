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

// Package mappings builds a queryable model of the request mappings a
// running web application reports about itself.
//
// The input is the decoded descriptor tree, for example the JSON body of an
// actuator mappings endpoint. Two shapes are supported: the older flat map
// from mapping key to details, and the nested contexts/mappings/dispatchers
// layout. Every mapping key is compiled with the predicate package and every
// handler reference with the handler package.
//
// Basic usage:
//
//	var tree map[string]any
//	if err := json.Unmarshal(body, &tree); err != nil {
//	    return err
//	}
//	model := mappings.Parse(tree)
//	for _, m := range model.MappingsForHandler("com.acme.UserController", "find", nil) {
//	    fmt.Println(m.Predicate)
//	}
//
// A [Model] is immutable. When the application's mappings change, parse the
// new tree and replace the model.
package mappings

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

// Package predicate compiles route descriptors reported by a running web
// application into normalized [Predicate] records.
//
// Four textual grammars are understood. The grammar is chosen from the first
// characters of the descriptor only:
//
//	(GET && /a) || POST             router boolean expression
//	/api/users                      simple, the whole string is the path
//	{[/a],methods=[GET||POST]}      bracketed v2.0
//	{[GET, POST] /a, produces [x]}  space-delimited v2.1.1
//
// [Parse] never fails. When the selected grammar cannot make sense of its
// input, the whole descriptor becomes the path of a single predicate. Use
// [Analyze] to observe which grammar was selected and why a fallback happened.
//
// Basic usage:
//
//	for _, p := range predicate.Parse("{[/x],methods=[GET||POST]}") {
//	    fmt.Println(p.Path, p.Methods)
//	}
//
// All functions are pure and safe for concurrent use.
package predicate

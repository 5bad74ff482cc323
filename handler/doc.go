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

// Package handler decodes the textual method references a web application
// reports for its route handlers into a [Signature], and matches signatures
// back against method declarations.
//
// Two reference shapes are understood:
//
//	public java.lang.String com.acme.web.UserController.find(java.util.Map<java.lang.String, java.lang.Integer>,int)
//	com.acme.web.Routes$$Lambda$1234/0x0000000800c4b840@5f2a1c
//
// The second one names a synthetic lambda. Its method name is [LambdaMarker]
// and it has no parameters.
//
// Structured handler records carry a bytecode parameter descriptor instead of
// a parameter list; [FromDescriptor] decodes those.
package handler

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

// Package errors formats errors as HTTP responses for the inspection API.
//
// Domain errors opt in to richer responses by implementing small
// interfaces:
//
//   - [ErrorType] declares the HTTP status
//   - [ErrorCode] declares a machine-readable code, used as the problem type slug
//   - [ErrorDetails] exposes structured details
//
// The [RFC9457] formatter renders RFC 9457 problem details:
//
//	f := errors.NewRFC9457("https://rivaas.dev/problems")
//	errors.Write(w, f.Format(req, err))
//
// A predicate parse error is rendered as:
//
//	{
//	  "type": "https://rivaas.dev/problems/malformed-expression",
//	  "title": "Unprocessable Entity",
//	  "status": 422,
//	  "detail": "router descriptor \"(GET\": malformed router predicate at offset 0",
//	  "instance": "/predicates",
//	  "code": "malformed-expression",
//	  "errors": {"grammar": "router", "offset": 0},
//	  "error_id": "err-..."
//	}
package errors

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

// Package server exposes a read-only HTTP API over a mappings model.
//
// The API lists mappings, looks them up by handler, analyses descriptors
// on demand and reports Prometheus metrics. The model can be replaced at
// any time with [Server.Swap]; requests in flight keep the model they
// started with.
//
//	srv := server.New(model, server.WithLogger(logger))
//	if err := srv.ListenAndServe(ctx, ":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// Errors are written as RFC 9457 problem details.
package server

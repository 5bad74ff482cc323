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

package errors

import (
	"encoding/json"
	"net/http"
)

// Formatter converts an error into HTTP response components.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// Response is a formatted error response.
type Response struct {
	Status      int
	ContentType string
	Body        any
	// Headers are added to the response when set.
	Headers http.Header
}

// ErrorType lets an error declare its HTTP status code.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails lets an error expose structured details.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode lets an error expose a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// Write sends resp on w with a JSON body.
func Write(w http.ResponseWriter, resp Response) error {
	for k, values := range resp.Headers {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	return json.NewEncoder(w).Encode(resp.Body)
}

// WithStatus wraps err with an explicit HTTP status code. A nil err is
// allowed; the status text then serves as the message.
//
//	return errors.WithStatus(err, http.StatusNotFound)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

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
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ProblemContentType is the media type of RFC 9457 responses.
const ProblemContentType = "application/problem+json; charset=utf-8"

// RFC9457 formats errors as RFC 9457 problem details.
type RFC9457 struct {
	// BaseURL is prepended to error codes to form problem type URIs.
	BaseURL string

	// StatusResolver overrides status detection when set.
	StatusResolver func(err error) int

	// ErrorIDGenerator overrides the random error_id when set.
	ErrorIDGenerator func() string

	// DisableErrorID omits the error_id extension.
	DisableErrorID bool
}

// NewRFC9457 creates a formatter using baseURL for problem types.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// ProblemDetail is an RFC 9457 problem detail. Extensions are marshaled
// inline and cannot shadow the standard members.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges the extensions into the problem object.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 5+len(p.Extensions))
	for k, v := range p.Extensions {
		m[k] = v
	}
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	delete(m, "detail")
	delete(m, "instance")
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	return json.Marshal(m)
}

// Format builds the problem detail for err. The status comes from
// [ErrorType] (500 otherwise), the type from [ErrorCode] ("about:blank"
// otherwise), and [ErrorDetails] populates the "errors" extension.
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := f.determineStatus(err)

	p := ProblemDetail{
		Type:       "about:blank",
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: make(map[string]any),
	}
	if req != nil && req.URL != nil {
		p.Instance = req.URL.Path
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		p.Extensions["code"] = coded.Code()
		p.Type = coded.Code()
		if f.BaseURL != "" {
			p.Type = f.BaseURL + "/" + coded.Code()
		}
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		p.Extensions["errors"] = detailed.Details()
	}

	if !f.DisableErrorID {
		if f.ErrorIDGenerator != nil {
			p.Extensions["error_id"] = f.ErrorIDGenerator()
		} else {
			p.Extensions["error_id"] = generateErrorID()
		}
	}

	return Response{
		Status:      status,
		ContentType: ProblemContentType,
		Body:        p,
	}
}

func (f *RFC9457) determineStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// generateErrorID returns a random correlation ID, falling back to a
// timestamp when the random source fails.
func generateErrorID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("err-%d", time.Now().UnixNano())
	}
	return "err-" + hex.EncodeToString(b)
}

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

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/go-cleanhttp"
)

const (
	// DefaultHTTPTimeout bounds one request to the mappings endpoint.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultHTTPAttempts is how often a request is tried before giving up.
	DefaultHTTPAttempts = 3

	// maxBodySize caps the accepted response size.
	maxBodySize = 32 << 20
)

// HTTPOption configures an HTTP source.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets the client. The default is a pooled client from
// go-cleanhttp.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTPSource) {
		h.client = client
	}
}

// WithHTTPHeader adds a request header, such as Authorization.
func WithHTTPHeader(key, value string) HTTPOption {
	return func(h *HTTPSource) {
		h.header.Add(key, value)
	}
}

// WithHTTPTimeout bounds each request attempt.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPSource) {
		h.timeout = d
	}
}

// WithHTTPAttempts sets the number of attempts. Values below one mean one.
func WithHTTPAttempts(n uint) HTTPOption {
	return func(h *HTTPSource) {
		h.attempts = max(n, 1)
	}
}

// HTTPSource loads a descriptor tree from a running application, typically
// its /actuator/mappings endpoint. The response body must be JSON.
type HTTPSource struct {
	url      string
	client   *http.Client
	header   http.Header
	timeout  time.Duration
	attempts uint
}

// HTTP creates a source fetching url.
func HTTP(url string, opts ...HTTPOption) *HTTPSource {
	h := &HTTPSource{
		url:      url,
		client:   cleanhttp.DefaultPooledClient(),
		header:   make(http.Header),
		timeout:  DefaultHTTPTimeout,
		attempts: DefaultHTTPAttempts,
	}
	h.header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Load fetches and decodes the document. Transport errors and 5xx
// responses are retried; other failures are returned immediately.
func (h *HTTPSource) Load(ctx context.Context) (map[string]any, error) {
	tree, err := backoff.Retry(ctx, func() (map[string]any, error) {
		return h.fetch(ctx)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(h.attempts))
	if err != nil {
		return nil, newError("http:"+h.url, "get", err)
	}
	return tree, nil
}

func (h *HTTPSource) fetch(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header = h.header.Clone()

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
		if resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	var tree map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&tree); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return tree, nil
}

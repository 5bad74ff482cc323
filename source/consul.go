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
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/consul/api"

	"rivaas.dev/mappings/codec"
)

// DefaultConsulWaitTime bounds each blocking query issued by Watch.
const DefaultConsulWaitTime = 5 * time.Minute

// ConsulKV defines the Consul key-value operations the source needs.
// It allows tests to substitute a fake store.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// ConsulOption configures a Consul source.
type ConsulOption func(*consulConfig)

type consulConfig struct {
	api      *api.Config
	waitTime time.Duration
}

// WithConsulAddress sets the agent address, overriding CONSUL_HTTP_ADDR.
func WithConsulAddress(addr string) ConsulOption {
	return func(c *consulConfig) {
		c.api.Address = addr
	}
}

// WithConsulToken sets the ACL token, overriding CONSUL_HTTP_TOKEN.
func WithConsulToken(token string) ConsulOption {
	return func(c *consulConfig) {
		c.api.Token = token
	}
}

// WithConsulWaitTime sets the blocking query wait time used by Watch.
func WithConsulWaitTime(d time.Duration) ConsulOption {
	return func(c *consulConfig) {
		c.waitTime = d
	}
}

// ConsulSource loads a descriptor document stored under a single KV key.
//
// Without options the client is configured from the standard environment
// variables CONSUL_HTTP_ADDR and CONSUL_HTTP_TOKEN.
type ConsulSource struct {
	kv        ConsulKV
	key       string
	decoder   codec.Decoder
	waitTime  time.Duration
	lastIndex atomic.Uint64
}

// Consul creates a source reading key. If kv is nil, a client built from
// the options is used.
func Consul(key string, decoder codec.Decoder, kv ConsulKV, opts ...ConsulOption) (*ConsulSource, error) {
	cfg := &consulConfig{api: api.DefaultConfig(), waitTime: DefaultConsulWaitTime}
	for _, opt := range opts {
		opt(cfg)
	}

	if kv == nil {
		client, err := api.NewClient(cfg.api)
		if err != nil {
			return nil, newError("consul:"+key, "connect", fmt.Errorf("failed to create consul client: %w", err))
		}
		kv = client.KV()
	}

	return &ConsulSource{
		kv:       kv,
		key:      key,
		decoder:  decoder,
		waitTime: cfg.waitTime,
	}, nil
}

// Load fetches and decodes the key. A missing key is ErrKeyNotFound.
func (c *ConsulSource) Load(ctx context.Context) (map[string]any, error) {
	tree, _, err := c.fetch(ctx, &api.QueryOptions{})
	return tree, err
}

// LastIndex returns the Consul index of the last successful read.
func (c *ConsulSource) LastIndex() uint64 {
	return c.lastIndex.Load()
}

// Watch blocks on the key and calls onChange with each new document until
// ctx is cancelled. Query errors are retried with exponential backoff;
// a document that fails to decode is skipped.
func (c *ConsulSource) Watch(ctx context.Context, onChange func(map[string]any)) error {
	retry := backoff.NewExponentialBackOff()
	retry.MaxInterval = 30 * time.Second

	for {
		prev := c.lastIndex.Load()
		tree, changed, err := c.fetch(ctx, &api.QueryOptions{WaitIndex: prev, WaitTime: c.waitTime})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retry.NextBackOff()):
			}
			continue
		}
		retry.Reset()
		if changed {
			onChange(tree)
		}
	}
}

func (c *ConsulSource) fetch(ctx context.Context, q *api.QueryOptions) (map[string]any, bool, error) {
	name := "consul:" + c.key

	pair, meta, err := c.kv.Get(c.key, q.WithContext(ctx))
	if err != nil {
		return nil, false, newError(name, "get", err)
	}

	changed := true
	if meta != nil {
		prev := c.lastIndex.Load()
		changed = meta.LastIndex != prev
		if meta.LastIndex < prev {
			// The index went backwards; start over as Consul recommends.
			c.lastIndex.Store(0)
		} else {
			c.lastIndex.Store(meta.LastIndex)
		}
	}

	if pair == nil {
		return nil, changed, newError(name, "get", ErrKeyNotFound)
	}

	var tree map[string]any
	if err := c.decoder.Decode(pair.Value, &tree); err != nil {
		return nil, changed, newError(name, "decode", err)
	}
	return tree, changed, nil
}

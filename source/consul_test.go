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

//go:build !integration

package source

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/suite"

	"rivaas.dev/mappings/codec"
)

// fakeKV is an in-memory ConsulKV that honours blocking queries.
type fakeKV struct {
	mu      sync.Mutex
	value   []byte
	index   uint64
	err     error
	updated chan struct{}
}

func newFakeKV() *fakeKV {
	return &fakeKV{updated: make(chan struct{})}
}

func (f *fakeKV) put(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = []byte(v)
	f.index++
	close(f.updated)
	f.updated = make(chan struct{})
}

func (f *fakeKV) Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error) {
	f.mu.Lock()
	for q.WaitIndex != 0 && q.WaitIndex == f.index {
		ch := f.updated
		f.mu.Unlock()
		select {
		case <-ch:
		case <-q.Context().Done():
			return nil, nil, q.Context().Err()
		}
		f.mu.Lock()
	}
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, nil, f.err
	}
	meta := &api.QueryMeta{LastIndex: f.index}
	if f.value == nil {
		return nil, meta, nil
	}
	return &api.KVPair{Key: key, Value: slices.Clone(f.value), ModifyIndex: f.index}, meta, nil
}

// ConsulSourceTestSuite tests the Consul source against a fake store.
type ConsulSourceTestSuite struct {
	suite.Suite
	kv *fakeKV
}

// SetupTest resets the store.
func (s *ConsulSourceTestSuite) SetupTest() {
	s.kv = newFakeKV()
}

func TestConsulSourceTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ConsulSourceTestSuite))
}

func (s *ConsulSourceTestSuite) newSource() *ConsulSource {
	src, err := Consul("apps/shop/mappings", codec.JSONCodec{}, s.kv)
	s.Require().NoError(err)
	return src
}

func (s *ConsulSourceTestSuite) TestLoad_ValuePresent() {
	s.kv.put(`{"/users": {"bean": "requestMappingHandlerMapping"}}`)

	src := s.newSource()
	tree, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Contains(tree, "/users")
	s.Equal(uint64(1), src.LastIndex())
}

func (s *ConsulSourceTestSuite) TestLoad_ValueAbsent() {
	_, err := s.newSource().Load(context.Background())
	s.Require().ErrorIs(err, ErrKeyNotFound)

	var srcErr *Error
	s.Require().ErrorAs(err, &srcErr)
	s.Equal("consul:apps/shop/mappings", srcErr.Source)
}

func (s *ConsulSourceTestSuite) TestLoad_DecodeError() {
	s.kv.put(`{"/users":`)

	_, err := s.newSource().Load(context.Background())
	var srcErr *Error
	s.Require().ErrorAs(err, &srcErr)
	s.Equal("decode", srcErr.Operation)
}

func (s *ConsulSourceTestSuite) TestLoad_QueryError() {
	s.kv.err = errors.New("connection refused")

	_, err := s.newSource().Load(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "connection refused")
}

func (s *ConsulSourceTestSuite) TestWatch_DeliversChanges() {
	s.kv.put(`{"v": 1}`)
	src := s.newSource()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan map[string]any, 4)
	done := make(chan error, 1)
	go func() {
		done <- src.Watch(ctx, func(tree map[string]any) { changes <- tree })
	}()

	s.EqualValues(1, s.receive(changes)["v"])
	s.kv.put(`{"v": 2}`)
	s.EqualValues(2, s.receive(changes)["v"])

	cancel()
	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(5 * time.Second):
		s.Fail("watch did not stop")
	}
}

func (s *ConsulSourceTestSuite) receive(ch <-chan map[string]any) map[string]any {
	select {
	case tree := <-ch:
		return tree
	case <-time.After(5 * time.Second):
		s.FailNow("no change delivered")
		return nil
	}
}

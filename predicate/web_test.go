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

package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBracket(t *testing.T) {
	t.Parallel()

	t.Run("methods and params", func(t *testing.T) {
		t.Parallel()
		preds := Parse("{[/x],methods=[GET||POST],params=[a=1&&!b=2]}")
		require.Len(t, preds, 1)
		assert.Equal(t, "/x", preds[0].Path)
		assert.Equal(t, []string{"GET", "POST"}, preds[0].Methods)
		assert.Equal(t, []Pair{{Key: "a", Value: "1"}, {Key: "!b", Value: "2"}}, preds[0].Params)
		assert.Empty(t, preds[0].Headers)
	})

	t.Run("paths share attributes", func(t *testing.T) {
		t.Parallel()
		preds, err := ParseBracket("{[/a || /b],methods=[GET],produces=[application/json],consumes=[text/plain||text/xml]}")
		require.NoError(t, err)
		require.Len(t, preds, 2)
		assert.Equal(t, "/a", preds[0].Path)
		assert.Equal(t, "/b", preds[1].Path)
		for _, p := range preds {
			assert.Equal(t, []string{"GET"}, p.Methods)
			assert.Equal(t, []string{"application/json"}, p.Produces)
			assert.Equal(t, []string{"text/plain", "text/xml"}, p.Consumes)
		}
	})

	t.Run("negated header moves bang to value", func(t *testing.T) {
		t.Parallel()
		preds, err := ParseBracket("{[/h],headers=[X-Mode!=debug&&X-Flag]}")
		require.NoError(t, err)
		require.Len(t, preds, 1)
		assert.Equal(t, []Pair{{Key: "X-Mode", Value: "!debug"}, {Key: "X-Flag"}}, preds[0].Headers)
	})

	t.Run("missing closing bracket", func(t *testing.T) {
		t.Parallel()
		_, err := ParseBracket("{[/a")
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("empty path list", func(t *testing.T) {
		t.Parallel()
		_, err := ParseBracket("{[/ || ]}")
		require.NoError(t, err)
		_, err = ParseBracket("{[ ]}")
		require.ErrorIs(t, err, ErrNoPath)
	})
}

func TestParseKeyValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Pair
	}{
		{in: "a=1", want: Pair{Key: "a", Value: "1"}},
		{in: "a!=1", want: Pair{Key: "a", Value: "!1"}},
		{in: "!a", want: Pair{Key: "!a"}},
		{in: "a=", want: Pair{Key: "a"}},
		{in: "a=b=c", want: Pair{Key: "a", Value: "b=c"}},
		{in: "=v", want: Pair{Value: "v"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseKeyValue(tt.in), "input %q", tt.in)
	}
}

func TestParseSpaced(t *testing.T) {
	t.Parallel()

	t.Run("brace-less single method", func(t *testing.T) {
		t.Parallel()
		preds, err := ParseSpaced("GET /y")
		require.NoError(t, err)
		require.Len(t, preds, 1)
		assert.Equal(t, "/y", preds[0].Path)
		assert.Equal(t, []string{"GET"}, preds[0].Methods)
	})

	t.Run("single method with attributes", func(t *testing.T) {
		t.Parallel()
		preds := Parse("{POST /orders, consumes [application/json], headers [X-A=1 && X-B!=2]}")
		require.Len(t, preds, 1)
		assert.Equal(t, "/orders", preds[0].Path)
		assert.Equal(t, []string{"POST"}, preds[0].Methods)
		assert.Equal(t, []string{"application/json"}, preds[0].Consumes)
		assert.Equal(t, []Pair{{Key: "X-A", Value: "1"}, {Key: "X-B", Value: "!2"}}, preds[0].Headers)
	})

	t.Run("method list and path list", func(t *testing.T) {
		t.Parallel()
		preds := Parse("{[GET, HEAD] [/a, /b], produces [text/plain || text/html]}")
		require.Len(t, preds, 2)
		assert.Equal(t, "/a", preds[0].Path)
		assert.Equal(t, "/b", preds[1].Path)
		assert.Equal(t, []string{"GET", "HEAD"}, preds[1].Methods)
		assert.Equal(t, []string{"text/plain", "text/html"}, preds[1].Produces)
	})

	t.Run("path list without attributes", func(t *testing.T) {
		t.Parallel()
		preds := Parse("{[GET, POST] [/a, /b]}")
		require.Len(t, preds, 2)
		assert.Equal(t, []string{"/a", "/b"}, []string{preds[0].Path, preds[1].Path})
	})

	t.Run("params", func(t *testing.T) {
		t.Parallel()
		preds := Parse("{GET /search, params [q && page!=0]}")
		require.Len(t, preds, 1)
		assert.Equal(t, []Pair{{Key: "q"}, {Key: "page", Value: "!0"}}, preds[0].Params)
	})

	t.Run("no path", func(t *testing.T) {
		t.Parallel()
		_, err := ParseSpaced("{GET}")
		require.ErrorIs(t, err, ErrNoPath)

		res := Analyze("{GET}")
		assert.True(t, res.Fallback)
		assert.Equal(t, "{GET}", res.Predicates[0].Path)
	})
}

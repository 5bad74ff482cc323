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

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvVarCodec_Decode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		codec EnvVarCodec
		input string
		want  map[string]any
	}{
		{
			name:  "nesting with double underscore",
			codec: EnvVarCodec{Prefix: "MAPPINGS_"},
			input: "MAPPINGS_SOURCE__CONSUL__ACL_TOKEN=secret\nMAPPINGS_SERVER__ADDR= :8080 \n",
			want: map[string]any{
				"source": map[string]any{"consul": map[string]any{"acl_token": "secret"}},
				"server": map[string]any{"addr": ":8080"},
			},
		},
		{
			name:  "foreign and malformed lines ignored",
			codec: EnvVarCodec{Prefix: "MAPPINGS_"},
			input: "HOME=/root\nMAPPINGS_LOG__LEVEL=debug\nMAPPINGS_BROKEN\nMAPPINGS_=x",
			want:  map[string]any{"log": map[string]any{"level": "debug"}},
		},
		{
			name:  "value containing equals",
			codec: EnvVarCodec{},
			input: "URL=http://x/?a=b",
			want:  map[string]any{"url": "http://x/?a=b"},
		},
		{
			name:  "nested key replaces scalar",
			codec: EnvVarCodec{},
			input: "LOG=x\nLOG__LEVEL=info",
			want:  map[string]any{"log": map[string]any{"level": "info"}},
		},
		{
			name:  "custom separator",
			codec: EnvVarCodec{Separator: "_"},
			input: "A_B=1",
			want:  map[string]any{"a": map[string]any{"b": "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got map[string]any
			require.NoError(t, tt.codec.Decode([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvVarCodec_DecodeWrongTarget(t *testing.T) {
	t.Parallel()

	var s string
	err := EnvVarCodec{}.Decode([]byte("A=1"), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected *map[string]any")
}

func TestEnvVarCodec_Encode(t *testing.T) {
	t.Parallel()

	c := EnvVarCodec{Prefix: "MAPPINGS_"}
	b, err := c.Encode(map[string]any{
		"log":    map[string]any{"level": "debug"},
		"render": map[string]any{"width": 120},
	})
	require.NoError(t, err)
	assert.Equal(t, "MAPPINGS_LOG__LEVEL=debug\nMAPPINGS_RENDER__WIDTH=120\n", string(b))

	_, err = c.Encode("not a map")
	require.Error(t, err)
}

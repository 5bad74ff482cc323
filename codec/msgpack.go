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

package codec

import "github.com/vmihailenco/msgpack/v5"

// TypeMsgPack is the "msgpack" encoding type, used for compact descriptor
// snapshots.
const TypeMsgPack Type = "msgpack"

func init() {
	RegisterEncoder(TypeMsgPack, MsgPackCodec{})
	RegisterDecoder(TypeMsgPack, MsgPackCodec{})
}

// MsgPackCodec encodes and decodes MessagePack.
type MsgPackCodec struct{}

// Encode converts v into MessagePack.
func (MsgPackCodec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode unmarshals MessagePack data into the value pointed to by v.
// Nested maps decode as map[string]any.
func (MsgPackCodec) Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

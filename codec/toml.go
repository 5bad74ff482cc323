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

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/BurntSushi/toml"
)

// TypeTOML is the "toml" encoding type.
const TypeTOML Type = "toml"

// ErrNotTable is returned when a value other than a map or struct is
// encoded as a TOML document.
var ErrNotTable = errors.New("toml document must be a table")

func init() {
	RegisterEncoder(TypeTOML, TOMLCodec{})
	RegisterDecoder(TypeTOML, TOMLCodec{})
}

// TOMLCodec encodes and decodes TOML. TOML documents must be tables, so only
// maps and structs can be encoded at the top level.
type TOMLCodec struct{}

// Encode converts v into TOML.
func (TOMLCodec) Encode(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if k := rv.Kind(); k != reflect.Map && k != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotTable, v)
	}
	return toml.Marshal(v)
}

// Decode unmarshals TOML data into the value pointed to by v.
func (TOMLCodec) Decode(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

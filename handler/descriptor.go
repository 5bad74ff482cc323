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

package handler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDescriptor indicates a parameter descriptor that is not of
	// the form "(...)".
	ErrInvalidDescriptor = errors.New("invalid method descriptor")

	// ErrUnknownType indicates a type code the descriptor grammar does not define.
	ErrUnknownType = errors.New("unknown descriptor type")

	// ErrMissingName indicates a handler record without a class or method name.
	ErrMissingName = errors.New("missing handler class or method name")
)

// primitives maps descriptor type codes to Java primitive names.
var primitives = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// DecodeDescriptor decodes the parameter part of a bytecode method
// descriptor. "(Ljava/lang/String;[IZ)V" yields
// ["java.lang.String", "int[]", "boolean"]. The return type after ')' is ignored.
func DecodeDescriptor(desc string) ([]string, error) {
	end := strings.IndexByte(desc, ')')
	if !strings.HasPrefix(desc, "(") || end < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDescriptor, desc)
	}
	body := desc[1:end]

	params := []string{}
	for i := 0; i < len(body); i++ {
		dims := 0
		for i < len(body) && body[i] == '[' {
			dims++
			i++
		}
		if i == len(body) {
			return nil, fmt.Errorf("%w: %q ends inside an array type", ErrInvalidDescriptor, desc)
		}

		var name string
		if body[i] == 'L' {
			semi := strings.IndexByte(body[i:], ';')
			if semi < 0 {
				return nil, fmt.Errorf("%w: unterminated reference type in %q", ErrInvalidDescriptor, desc)
			}
			name = strings.ReplaceAll(body[i+1:i+semi], "/", ".")
			i += semi
		} else {
			var ok bool
			if name, ok = primitives[body[i]]; !ok {
				return nil, fmt.Errorf("%w: %q in %q", ErrUnknownType, body[i], desc)
			}
		}
		params = append(params, name+strings.Repeat("[]", dims))
	}
	return params, nil
}

// FromDescriptor builds a signature from a structured handler record: a
// class name, a method name and a bytecode parameter descriptor.
func FromDescriptor(className, methodName, descriptor string) (Signature, error) {
	if className == "" || methodName == "" {
		return Signature{}, ErrMissingName
	}
	params, err := DecodeDescriptor(descriptor)
	if err != nil {
		return Signature{}, err
	}
	return Parse(className + "." + methodName + "(" + strings.Join(params, ", ") + ")"), nil
}

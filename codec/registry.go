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
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned when no codec is registered for a type.
	ErrNotFound = errors.New("codec not found")

	// ErrUnknownExtension is returned when a file extension maps to no type.
	ErrUnknownExtension = errors.New("cannot detect format from extension")
)

// Registry holds the registered encoders and decoders.
type Registry struct {
	mu       sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}

var registry = &Registry{
	encoders: make(map[Type]Encoder),
	decoders: make(map[Type]Decoder),
}

// extensionTypes maps file extensions to codec types.
var extensionTypes = map[string]Type{
	".yaml":    TypeYAML,
	".yml":     TypeYAML,
	".json":    TypeJSON,
	".toml":    TypeTOML,
	".msgpack": TypeMsgPack,
	".mpk":     TypeMsgPack,
	".env":     TypeEnvVar,
}

// RegisterEncoder registers an encoder for the given type, replacing any
// previous one.
func RegisterEncoder(name Type, encoder Encoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.encoders[name] = encoder
}

// RegisterDecoder registers a decoder for the given type, replacing any
// previous one.
func RegisterDecoder(name Type, decoder Decoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.decoders[name] = decoder
}

// GetEncoder retrieves the registered encoder for the given type.
func GetEncoder(name Type) (Encoder, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	encoder, exists := registry.encoders[name]
	if !exists {
		return nil, fmt.Errorf("%w: encoder for type: %s", ErrNotFound, name)
	}
	return encoder, nil
}

// GetDecoder retrieves the registered decoder for the given type.
func GetDecoder(name Type) (Decoder, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	decoder, exists := registry.decoders[name]
	if !exists {
		return nil, fmt.Errorf("%w: decoder for type: %s", ErrNotFound, name)
	}
	return decoder, nil
}

// Encoders returns the types with a registered encoder, sorted.
func Encoders() []Type {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return slices.Sorted(maps.Keys(registry.encoders))
}

// ForPath detects the codec type from the extension of path.
func ForPath(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownExtension, ext)
}

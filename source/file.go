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
	"os"

	"rivaas.dev/mappings/codec"
)

// FileSource loads a document from a file or from in-memory content.
type FileSource struct {
	path    string
	data    []byte
	decoder codec.Decoder
}

// File returns a source for path, choosing the codec from its extension.
func File(path string) (*FileSource, error) {
	t, err := codec.ForPath(path)
	if err != nil {
		return nil, newError("file:"+path, "detect", err)
	}
	return FileAs(path, t)
}

// FileAs returns a source for path decoded with the codec registered as t.
func FileAs(path string, t codec.Type) (*FileSource, error) {
	dec, err := codec.GetDecoder(t)
	if err != nil {
		return nil, newError("file:"+path, "codec", err)
	}
	return &FileSource{path: path, decoder: dec}, nil
}

// Content returns a source that decodes data with the codec registered as t.
func Content(data []byte, t codec.Type) (*FileSource, error) {
	dec, err := codec.GetDecoder(t)
	if err != nil {
		return nil, newError("content", "codec", err)
	}
	return &FileSource{data: data, decoder: dec}, nil
}

func (f *FileSource) name() string {
	if f.path == "" {
		return "content"
	}
	return "file:" + f.path
}

// Load reads and decodes the document. Files are read on every call.
func (f *FileSource) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, newError(f.name(), "read", err)
		}
	}

	var tree map[string]any
	if err := f.decoder.Decode(data, &tree); err != nil {
		return nil, newError(f.name(), "decode", err)
	}
	return tree, nil
}

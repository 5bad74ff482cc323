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

package dumper

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rivaas.dev/mappings"
	"rivaas.dev/mappings/codec"
)

// DefaultFilePermissions is the mode of written files (0644).
const DefaultFilePermissions = 0o644

// DocumentKey is the top-level key of a dumped document.
const DocumentKey = "mappings"

// Dumper writes a model somewhere.
type Dumper interface {
	Dump(ctx context.Context, model *mappings.Model) error
}

// Document wraps the export of model under DocumentKey.
func Document(model *mappings.Model) map[string]any {
	return map[string]any{DocumentKey: mappings.Export(model)}
}

// File writes a model to a file. The file is replaced atomically.
type File struct {
	path        string
	encoder     codec.Encoder
	permissions os.FileMode
}

// NewFile creates a File dumper with DefaultFilePermissions.
func NewFile(path string, encoder codec.Encoder) *File {
	return NewFileWithPermissions(path, encoder, DefaultFilePermissions)
}

// NewFileWithPermissions creates a File dumper writing files with the given mode.
func NewFileWithPermissions(path string, encoder codec.Encoder, permissions os.FileMode) *File {
	return &File{
		path:        path,
		encoder:     encoder,
		permissions: permissions,
	}
}

// Dump encodes model and writes it to the file.
//
// Errors:
//   - Returns error if encoding fails
//   - Returns error if writing or renaming the file fails
func (f *File) Dump(_ context.Context, model *mappings.Model) error {
	data, err := f.encoder.Encode(Document(model))
	if err != nil {
		return fmt.Errorf("failed to encode mappings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = tmp.Chmod(f.permissions); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Writer writes a model to an io.Writer such as os.Stdout.
type Writer struct {
	w       io.Writer
	encoder codec.Encoder
}

// NewWriter creates a Writer dumper.
func NewWriter(w io.Writer, encoder codec.Encoder) *Writer {
	return &Writer{w: w, encoder: encoder}
}

// Dump encodes model and writes it, followed by a newline when the encoding
// does not end with one.
func (d *Writer) Dump(_ context.Context, model *mappings.Model) error {
	data, err := d.encoder.Encode(Document(model))
	if err != nil {
		return fmt.Errorf("failed to encode mappings: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if _, err = d.w.Write(data); err != nil {
		return fmt.Errorf("failed to write mappings: %w", err)
	}
	return nil
}

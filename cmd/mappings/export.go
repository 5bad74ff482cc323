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

package main

import (
	"github.com/spf13/cobra"

	"rivaas.dev/mappings/codec"
	"rivaas.dev/mappings/dumper"
)

func newExportCmd(o *rootOptions) *cobra.Command {
	var (
		out string
		as  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the mappings to a file",
		Long: `Write the mappings to a file as structured data.

The encoding is taken from --as, or from the extension of --out.
With --out - the document is written to standard output, as JSON
unless --as says otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := codec.Type(as)
			if t == "" {
				if out == "-" {
					t = codec.TypeJSON
				} else {
					var err error
					if t, err = codec.ForPath(out); err != nil {
						return err
					}
				}
			}
			encoder, err := codec.GetEncoder(t)
			if err != nil {
				return err
			}

			model, err := o.loadModel(cmd.Context())
			if err != nil {
				return err
			}

			var d dumper.Dumper
			if out == "-" {
				d = dumper.NewWriter(cmd.OutOrStdout(), encoder)
			} else {
				d = dumper.NewFile(out, encoder)
			}
			if err := d.Dump(cmd.Context(), model); err != nil {
				return err
			}
			o.logger.Info("mappings exported", "out", out, "codec", t, "count", model.Len())

			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, or - for standard output")
	cmd.Flags().StringVar(&as, "as", "", "encoding: json, yaml, toml or msgpack")

	return cmd
}

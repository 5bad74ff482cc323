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
	"fmt"

	"github.com/spf13/cobra"

	"rivaas.dev/mappings"
	"rivaas.dev/mappings/handler"
	"rivaas.dev/mappings/render"
)

type tableFlags struct {
	noColor bool
	width   int
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colours")
	cmd.Flags().IntVar(&f.width, "width", 0, "table width (default: render.width or the terminal width)")
}

func (f *tableFlags) options(o *rootOptions) []render.Option {
	width := f.width
	if width == 0 {
		width = o.settings.Render.Width
	}
	opts := []render.Option{render.WithWidth(width)}
	if f.noColor {
		opts = append(opts, render.WithoutColor())
	}
	return opts
}

func newShowCmd(o *rootOptions) *cobra.Command {
	var (
		table      tableFlags
		dispatcher string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show all request mappings as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := o.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			if dispatcher != "" {
				model = model.Filter(func(m mappings.Mapping) bool {
					return m.Dispatcher.Name == dispatcher
				})
			}
			return render.Table(cmd.OutOrStdout(), model, table.options(o)...)
		},
	}
	table.register(cmd)
	cmd.Flags().StringVar(&dispatcher, "dispatcher", "", "only show mappings of this dispatcher")

	return cmd
}

func newLookupCmd(o *rootOptions) *cobra.Command {
	var table tableFlags

	cmd := &cobra.Command{
		Use:   "lookup <class> <method>",
		Short: "Show the mappings served by one handler method",
		Long: `Show the mappings served by one handler method.

The class is the fully qualified class name, for example
com.acme.web.UserController.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := o.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			found := model.MappingsForHandler(args[0], args[1], nil)
			if len(found) == 0 {
				return fmt.Errorf("no mappings for handler %s", handler.Key(args[0], args[1]))
			}
			return render.Table(cmd.OutOrStdout(), mappings.NewModel(found), table.options(o)...)
		},
	}
	table.register(cmd)

	return cmd
}

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
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/mappings"
	"rivaas.dev/mappings/config"
	"rivaas.dev/mappings/logging"
	"rivaas.dev/mappings/source"
)

// rootOptions carries the persistent flags and what is derived from them
// before a subcommand runs.
type rootOptions struct {
	configFile string
	source     string
	format     string
	verbose    bool

	settings *config.Settings
	logger   *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mappings",
		Short: "Inspect Spring request mappings",
		Long: `mappings reads the request mappings a Spring application reports and
turns every route descriptor into structured predicates.

The descriptor tree comes from a file, a Consul key or a live actuator
endpoint, as selected by --source or the settings file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.logger == nil {
				return nil
			}
			return opts.logger.Shutdown(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "settings file (yaml, json or toml)")
	flags.StringVarP(&opts.source, "source", "s", "", "descriptor file path or actuator URL")
	flags.StringVarP(&opts.format, "format", "f", "", "descriptor format when it cannot be told from the path")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output, including parse diagnostics")

	rootCmd.AddCommand(
		newShowCmd(opts),
		newLookupCmd(opts),
		newExportCmd(opts),
		newPredicateCmd(),
		newProfilesCmd(),
		newServeCmd(opts),
	)

	return rootCmd
}

// init loads the settings and builds the logger.
func (o *rootOptions) init(cmd *cobra.Command) error {
	loaderOpts := []config.Option{}
	if o.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithFile(o.configFile))
	}
	loaderOpts = append(loaderOpts,
		config.WithEnv(config.DefaultEnvPrefix),
		config.WithOverrides(o.overrides()),
	)

	loader, err := config.New(loaderOpts...)
	if err != nil {
		return err
	}
	settings, err := loader.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	o.settings = settings

	logger, err := newLogger(settings.Log, o.verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	o.logger = logger

	return nil
}

// overrides maps the source flags onto settings keys. A --source that
// looks like a URL selects the HTTP source.
func (o *rootOptions) overrides() map[string]any {
	values := map[string]any{"source.format": o.format}
	switch {
	case o.source == "":
	case strings.HasPrefix(o.source, "http://") || strings.HasPrefix(o.source, "https://"):
		values["source.kind"] = config.SourceHTTP
		values["source.http.url"] = o.source
	default:
		values["source.kind"] = config.SourceFile
		values["source.path"] = o.source
	}
	return values
}

func newLogger(s config.LogSettings, verbose bool, out io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(s.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(
		logging.WithHandlerType(logging.HandlerType(s.Format)),
		logging.WithLevel(level),
		logging.WithOutput(out),
		logging.WithServiceName("mappings"),
	)
}

// openSource builds the configured descriptor source.
func (o *rootOptions) openSource() (source.Source, error) {
	return o.settings.Source.Open()
}

// loadModel reads the descriptor tree and builds the model. Diagnostics are
// logged at debug level.
func (o *rootOptions) loadModel(ctx context.Context) (*mappings.Model, error) {
	src, err := o.openSource()
	if err != nil {
		return nil, err
	}
	tree, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	model := o.parse(tree)
	o.logger.Debug("mappings loaded", "count", model.Len(), "dispatchers", len(model.Dispatchers()))

	return model, nil
}

func (o *rootOptions) parse(tree map[string]any) *mappings.Model {
	return mappings.Parse(tree, mappings.WithDiagnostics(logging.DiagnosticHandler(o.logger)))
}

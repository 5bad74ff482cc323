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
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rivaas.dev/mappings"
	"rivaas.dev/mappings/logging"
	"rivaas.dev/mappings/server"
	"rivaas.dev/mappings/source"
)

// watcher is implemented by sources that can report changes.
type watcher interface {
	Watch(ctx context.Context, onChange func(map[string]any)) error
}

func newServeCmd(o *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mappings over HTTP",
		Long: `Serve the mappings over a read-only HTTP API until interrupted.

Routes:
  GET /mappings                  all mappings (?method=, ?path=, ?dispatcher=)
  GET /handlers/:class/:method   mappings of one handler method
  GET /predicates?q=...          parse a descriptor (&strict=true)
  GET /healthz                   liveness
  GET /metrics                   Prometheus metrics

With a Consul source the model is rebuilt whenever the key changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = o.settings.Server.Addr
			}
			return o.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")

	return cmd
}

func (o *rootOptions) serve(ctx context.Context, addr string) error {
	src, err := o.openSource()
	if err != nil {
		return err
	}

	srv := server.New(nil,
		server.WithLogger(o.logger),
		server.WithProblemBaseURL(o.settings.Server.ProblemBaseURL),
	)
	diagnostics := fanOut(logging.DiagnosticHandler(o.logger), srv.DiagnosticHandler())
	rebuild := func(tree map[string]any) {
		model := mappings.Parse(tree, mappings.WithDiagnostics(diagnostics))
		srv.Swap(model)
		o.logger.Info("mappings model rebuilt", "count", model.Len())
	}

	tree, err := src.Load(ctx)
	if err != nil {
		return err
	}
	rebuild(tree)

	if w, ok := src.(watcher); ok {
		go func() {
			if err := w.Watch(ctx, rebuild); err != nil && !errors.Is(err, context.Canceled) {
				o.logger.Error("source watch stopped", "error", err)
			}
		}()
	}

	return srv.ListenAndServe(ctx, addr)
}

// fanOut delivers each diagnostic to every handler in order.
func fanOut(handlers ...mappings.DiagnosticHandler) mappings.DiagnosticHandler {
	return mappings.DiagnosticHandlerFunc(func(e mappings.DiagnosticEvent) {
		for _, h := range handlers {
			h.OnDiagnostic(e)
		}
	})
}

var _ watcher = (*source.ConsulSource)(nil)

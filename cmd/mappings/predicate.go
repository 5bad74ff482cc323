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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/mappings/predicate"
	"rivaas.dev/mappings/profile"
)

// errFallback is returned by predicate --strict when the descriptor was
// only understood as a plain path.
var errFallback = errors.New("descriptor fell back to a simple path")

func newPredicateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "predicate <descriptor>",
		Short: "Parse a single mapping descriptor",
		Long: `Parse a single mapping descriptor and print the predicates it yields.

Examples:
  mappings predicate '{GET /users/{id}, produces [application/json]}'
  mappings predicate '((GET || HEAD) && /fn/{id})'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := predicate.Analyze(args[0])
			printResult(cmd.OutOrStdout(), res)
			if strict && res.Fallback {
				return fmt.Errorf("%w: %w", errFallback, res.Err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the descriptor needs the simple-path fallback")

	return cmd
}

func printResult(w io.Writer, res predicate.Result) {
	fmt.Fprintf(w, "grammar:  %s\n", res.Grammar)
	if res.Fallback {
		fmt.Fprintf(w, "fallback: %v\n", res.Err)
	}
	for _, p := range res.Predicates {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

func newProfilesCmd() *cobra.Command {
	var active []string

	cmd := &cobra.Command{
		Use:   "profiles <expression>...",
		Short: "Evaluate profile expressions against a set of active profiles",
		Long: `Evaluate profile expressions against a set of active profiles.

Several expressions match when any of them does. Operators are
& (and), | (or) and ! (not); mixing & and | needs parentheses.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher, err := profile.Parse(args...)
			if err != nil {
				return err
			}
			set := profile.NewSet(active...)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %t\n", strings.Join(args, " | "), matcher(set))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&active, "active", "a", nil, "active profiles, comma separated")

	return cmd
}

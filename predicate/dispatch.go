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

package predicate

import "strings"

// Grammar identifies one of the descriptor grammars.
type Grammar int

const (
	// GrammarSimple treats the whole descriptor as the path.
	GrammarSimple Grammar = iota
	// GrammarBracket is the bracketed v2.0 form: {[/a],methods=[GET]}.
	GrammarBracket
	// GrammarSpaced is the space-delimited v2.1.1 form: {GET /a}.
	GrammarSpaced
	// GrammarRouter is the boolean router expression: (GET && /a).
	GrammarRouter
)

// String returns the grammar name.
func (g Grammar) String() string {
	switch g {
	case GrammarSimple:
		return "simple"
	case GrammarBracket:
		return "bracket"
	case GrammarSpaced:
		return "spaced"
	case GrammarRouter:
		return "router"
	default:
		return "unknown"
	}
}

// parserFunc turns one descriptor into predicates or reports why it cannot.
type parserFunc func(string) ([]Predicate, error)

// parsers is indexed by Grammar. Adding a grammar means adding a constant,
// a row here and a case in Detect.
var parsers = [...]parserFunc{
	GrammarSimple:  func(s string) ([]Predicate, error) { return ParseSimple(s), nil },
	GrammarBracket: ParseBracket,
	GrammarSpaced:  ParseSpaced,
	GrammarRouter:  ParseRouter,
}

// Detect selects the grammar for s from its leading characters.
// The checks run in order and every string matches exactly one of them.
func Detect(s string) Grammar {
	switch {
	case strings.HasPrefix(s, "(") || strings.HasPrefix(s, "!"):
		return GrammarRouter
	case !strings.HasPrefix(s, "{"):
		return GrammarSimple
	case strings.HasPrefix(s, "{[/"):
		return GrammarBracket
	default:
		return GrammarSpaced
	}
}

// Result is the outcome of [Analyze].
type Result struct {
	// Grammar is the grammar selected by [Detect].
	Grammar Grammar
	// Predicates is never empty.
	Predicates []Predicate
	// Fallback is set when the selected grammar failed or produced nothing
	// and the descriptor was reinterpreted as a simple path.
	Fallback bool
	// Err is the failure that caused the fallback, if any. It is nil when
	// the grammar succeeded, and a *ParseError otherwise.
	Err error
}

// Analyze dispatches s to its grammar and applies the simple-path fallback.
func Analyze(s string) Result {
	g := Detect(s)
	preds, err := parsers[g](s)
	if err == nil && len(preds) > 0 {
		return Result{Grammar: g, Predicates: preds}
	}
	if err == nil {
		err = newParseError(g, s, -1, ErrNoPath)
	}
	return Result{Grammar: g, Predicates: ParseSimple(s), Fallback: true, Err: err}
}

// Parse returns the predicates described by s. It never fails: descriptors the
// selected grammar rejects yield one predicate whose path is s itself.
func Parse(s string) []Predicate {
	return Analyze(s).Predicates
}

// ParseSimple returns a single predicate whose path is the whole of s.
func ParseSimple(s string) []Predicate {
	return []Predicate{newPredicate(s)}
}

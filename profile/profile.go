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

// Package profile evaluates profile-activation expressions such as
// "prod & (eu | us) & !legacy" against a set of active profile names.
//
// Operators are '&', '|' and '!', with parentheses for grouping. A single
// group may repeat one operator ("a & b & c") but must not mix '&' with '|'
// without parentheses.
package profile

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultProfile is the profile name that is active when no other is.
// An expression list consisting of exactly this name matches every set.
const DefaultProfile = "default"

var (
	// ErrMalformed indicates a structurally invalid expression.
	ErrMalformed = errors.New("malformed profile expression")

	// ErrEmptyExpression indicates a blank expression. It wraps ErrMalformed.
	ErrEmptyExpression = fmt.Errorf("%w: expression is empty", ErrMalformed)
)

// Set is a set of active profile names.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Matcher reports whether an expression holds for a set of active profiles.
type Matcher func(active Set) bool

// Parse compiles expressions into one matcher. Several expressions are ORed.
// Blank expressions fail with [ErrEmptyExpression].
func Parse(expressions ...string) (Matcher, error) {
	if len(expressions) == 1 && expressions[0] == DefaultProfile {
		return func(Set) bool { return true }, nil
	}
	if len(expressions) == 0 {
		return nil, ErrEmptyExpression
	}

	matchers := make([]Matcher, 0, len(expressions))
	for _, e := range expressions {
		m, err := parseExpression(e)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	if len(matchers) == 1 {
		return matchers[0], nil
	}
	return anyOf(matchers), nil
}

// MustParse is like Parse but panics on error.
func MustParse(expressions ...string) Matcher {
	m, err := Parse(expressions...)
	if err != nil {
		panic(err)
	}
	return m
}

func parseExpression(e string) (Matcher, error) {
	if strings.TrimSpace(e) == "" {
		return nil, ErrEmptyExpression
	}
	p := &parser{input: e, tokens: tokenize(e)}
	m, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, p.fail()
	}
	return m, nil
}

// tokenize splits around the operator characters, which are kept as tokens.
func tokenize(e string) []string {
	var tokens []string
	start := 0
	for i := 0; i < len(e); i++ {
		if !strings.ContainsRune("()&|!", rune(e[i])) {
			continue
		}
		if word := strings.TrimSpace(e[start:i]); word != "" {
			tokens = append(tokens, word)
		}
		tokens = append(tokens, e[i:i+1])
		start = i + 1
	}
	if word := strings.TrimSpace(e[start:]); word != "" {
		tokens = append(tokens, word)
	}
	return tokens
}

type parser struct {
	input  string
	tokens []string
	pos    int
}

func (p *parser) fail() error {
	return fmt.Errorf("%w: %q", ErrMalformed, p.input)
}

// parseGroup reads operands joined by one repeated operator.
func (p *parser) parseGroup() (Matcher, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	operands := []Matcher{first}
	op := ""
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		if t == ")" {
			break
		}
		if t != "&" && t != "|" {
			return nil, p.fail()
		}
		if op != "" && op != t {
			return nil, p.fail()
		}
		op = t
		p.pos++
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}

	switch {
	case len(operands) == 1:
		return first, nil
	case op == "&":
		return allOf(operands), nil
	default:
		return anyOf(operands), nil
	}
}

func (p *parser) parseUnary() (Matcher, error) {
	if p.pos >= len(p.tokens) {
		return nil, p.fail()
	}
	t := p.tokens[p.pos]
	p.pos++
	switch t {
	case "!":
		m, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return func(s Set) bool { return !m(s) }, nil
	case "(":
		m, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos] != ")" {
			return nil, p.fail()
		}
		p.pos++
		return m, nil
	case ")", "&", "|":
		return nil, p.fail()
	default:
		return func(s Set) bool { return s.Has(t) }, nil
	}
}

func allOf(ms []Matcher) Matcher {
	return func(s Set) bool {
		for _, m := range ms {
			if !m(s) {
				return false
			}
		}
		return true
	}
}

func anyOf(ms []Matcher) Matcher {
	return func(s Set) bool {
		for _, m := range ms {
			if m(s) {
				return true
			}
		}
		return false
	}
}

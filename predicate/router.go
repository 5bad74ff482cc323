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

import (
	"slices"
	"strings"
)

// Header shorthands recognized in router atoms.
const (
	acceptPrefix      = "Accept: "
	contentTypePrefix = "Content-Type: "
)

// expr is a node of a parsed router expression. eval returns the
// alternatives the node stands for under the given polarity.
type expr interface {
	eval(negative bool) ([]builder, error)
}

type atomKind int

const (
	atomEmpty atomKind = iota
	atomPath
	atomMethod
	atomProduces
	atomConsumes
	atomHeader
	atomParam
)

// atom is a leaf condition. value holds the path, method or media type;
// pair holds header and param conditions.
type atom struct {
	kind  atomKind
	value string
	pair  Pair
}

// classify decides what a literal token denotes. Unrecognized text yields
// an empty atom, which evaluates to no alternatives.
func classify(text string) atom {
	switch {
	case strings.HasPrefix(text, "/"):
		return atom{kind: atomPath, value: text}
	case IsMethod(text):
		return atom{kind: atomMethod, value: text}
	case strings.HasPrefix(text, acceptPrefix):
		return atom{kind: atomProduces, value: strings.TrimSpace(text[len(acceptPrefix):])}
	case strings.HasPrefix(text, contentTypePrefix):
		return atom{kind: atomConsumes, value: strings.TrimSpace(text[len(contentTypePrefix):])}
	}

	if i := strings.IndexByte(text, ':'); i > 0 && i < len(text)-1 {
		key, value := strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
		if key != "" && value != "" {
			return atom{kind: atomHeader, pair: Pair{Key: key, Value: value}}
		}
	}

	if i := strings.IndexByte(text, ' '); strings.HasPrefix(text, "?") && i > 1 && i < len(text)-1 {
		key, value := strings.TrimSpace(text[1:i]), strings.TrimSpace(text[i+1:])
		if key != "" && value != "" {
			return atom{kind: atomParam, pair: Pair{Key: key, Value: value}}
		}
	}

	return atom{kind: atomEmpty}
}

func (a atom) eval(negative bool) ([]builder, error) {
	var b builder
	switch a.kind {
	case atomPath:
		if negative {
			return nil, ErrUnmatchable
		}
		b.path = a.value
	case atomMethod:
		if negative {
			b.methods = slices.DeleteFunc(Methods(), func(m string) bool { return m == a.value })
		} else {
			b.methods = []string{a.value}
		}
	case atomProduces:
		b.produces = []string{negate(a.value, negative)}
	case atomConsumes:
		b.consumes = []string{negate(a.value, negative)}
	case atomHeader:
		b.headers = []Pair{{Key: a.pair.Key, Value: negate(a.pair.Value, negative)}}
	case atomParam:
		b.params = []Pair{{Key: a.pair.Key, Value: negate(a.pair.Value, negative)}}
	default:
		return nil, nil
	}
	return []builder{b}, nil
}

func negate(v string, negative bool) string {
	if negative {
		return "!" + v
	}
	return v
}

// notExpr flips the polarity of its operand.
type notExpr struct {
	x expr
}

func (n notExpr) eval(negative bool) ([]builder, error) {
	return n.x.eval(!negative)
}

// andExpr requires both operands; every left alternative is merged with
// every right alternative.
type andExpr struct {
	left, right expr
}

func (e andExpr) eval(negative bool) ([]builder, error) {
	left, right, err := evalBoth(e.left, e.right, negative)
	if err != nil {
		return nil, err
	}
	if len(left) == 0 {
		return right, nil
	}
	if len(right) == 0 {
		return left, nil
	}

	out := make([]builder, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			merged, err := l.and(r)
			if err != nil {
				return nil, err
			}
			out = append(out, merged)
		}
	}
	return out, nil
}

// orExpr keeps either operand; compatible alternatives are folded together,
// the rest are kept side by side.
type orExpr struct {
	left, right expr
}

func (e orExpr) eval(negative bool) ([]builder, error) {
	left, right, err := evalBoth(e.left, e.right, negative)
	if err != nil {
		return nil, err
	}
	if len(left) == 0 {
		return right, nil
	}
	if len(right) == 0 {
		return left, nil
	}

	var out []builder
	for _, l := range left {
		for _, r := range right {
			if combined, ok := l.or(r); ok {
				out = appendUnique(out, combined)
			} else {
				out = appendUnique(out, l, r)
			}
		}
	}
	return out, nil
}

func evalBoth(left, right expr, negative bool) ([]builder, []builder, error) {
	l, err := left.eval(negative)
	if err != nil {
		return nil, nil, err
	}
	r, err := right.eval(negative)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// exprParser is a recursive-descent parser over router tokens:
//
//	expr  = unary { ("&&" | "||") unary }
//	unary = "!" unary | "(" expr ")" | atom
//
// A group repeats a single binary operator, folded to the left. Mixing
// && and || in one group is malformed.
type exprParser struct {
	input  string
	tokens []token
	pos    int
}

func (p *exprParser) more() bool {
	return p.pos < len(p.tokens)
}

func (p *exprParser) peek() token {
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *exprParser) fail(offset int) error {
	return newParseError(GrammarRouter, p.input, offset, ErrMalformed)
}

func (p *exprParser) parseExpr() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	var (
		op     tokenKind
		binary bool
	)
	for p.more() {
		t := p.peek()
		switch t.kind {
		case tokenClose:
			return left, nil
		case tokenAnd, tokenOr:
			// A group may repeat one operator; mixing && and || needs parentheses.
			if binary && op != t.kind {
				return nil, p.fail(t.pos)
			}
			op, binary = t.kind, true
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if t.kind == tokenAnd {
				left = andExpr{left: left, right: right}
			} else {
				left = orExpr{left: left, right: right}
			}
		default:
			// Two operands without an operator between them.
			return nil, p.fail(t.pos)
		}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (expr, error) {
	if !p.more() {
		return nil, p.fail(len(p.input))
	}
	t := p.next()
	switch t.kind {
	case tokenNot:
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notExpr{x: x}, nil
	case tokenOpen:
		if p.more() && p.peek().kind == tokenClose {
			return nil, p.fail(p.peek().pos)
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.more() {
			return nil, p.fail(t.pos)
		}
		p.next()
		return x, nil
	case tokenAtom:
		return classify(t.text), nil
	default:
		return nil, p.fail(t.pos)
	}
}

// ParseRouter parses a router boolean expression such as
//
//	(GET && /a) || (POST && /b && Content-Type: application/json)
//
// and expands it into the equivalent set of predicates. Alternatives that
// carry no path cannot be represented and are dropped, so the result may be
// empty. Blank or structurally invalid input, including && and || mixed
// in one group without parentheses, fails with [ErrMalformed];
// contradictory input fails with [ErrUnmatchable].
func ParseRouter(s string) ([]Predicate, error) {
	p := &exprParser{input: s, tokens: tokenize(s)}
	if !p.more() {
		return nil, p.fail(-1)
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.more() {
		// A ')' without a matching '('.
		return nil, p.fail(p.peek().pos)
	}

	builders, err := x.eval(false)
	if err != nil {
		return nil, newParseError(GrammarRouter, s, -1, err)
	}

	preds := make([]Predicate, 0, len(builders))
	for _, b := range builders {
		if pred, ok := b.build(); ok {
			preds = append(preds, pred)
		}
	}
	return preds, nil
}

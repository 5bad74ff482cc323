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

// tokenKind classifies a router expression token.
type tokenKind int

const (
	tokenOpen tokenKind = iota
	tokenClose
	tokenNot
	tokenAnd
	tokenOr
	tokenAtom
)

func (k tokenKind) String() string {
	switch k {
	case tokenOpen:
		return "'('"
	case tokenClose:
		return "')'"
	case tokenNot:
		return "'!'"
	case tokenAnd:
		return "'&&'"
	case tokenOr:
		return "'||'"
	default:
		return "atom"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// tokenize splits a router expression into operators and literal atoms.
// A single '&' or '|' belongs to the surrounding atom; only doubled ones are
// operators. Atoms are trimmed and blank atoms are dropped.
func tokenize(s string) []token {
	var tokens []token
	start := 0

	flush := func(end int) {
		if end <= start {
			return
		}
		raw := s[start:end]
		text := strings.TrimSpace(raw)
		if text == "" {
			return
		}
		lead := len(raw) - len(strings.TrimLeft(raw, " \t\r\n"))
		tokens = append(tokens, token{kind: tokenAtom, text: text, pos: start + lead})
	}

	for pos := 0; pos < len(s); {
		var kind tokenKind
		width := 1
		switch c := s[pos]; {
		case c == '(':
			kind = tokenOpen
		case c == ')':
			kind = tokenClose
		case c == '!':
			kind = tokenNot
		case c == '&' && pos+1 < len(s) && s[pos+1] == '&':
			kind, width = tokenAnd, 2
		case c == '|' && pos+1 < len(s) && s[pos+1] == '|':
			kind, width = tokenOr, 2
		default:
			pos++
			continue
		}
		flush(pos)
		tokens = append(tokens, token{kind: kind, text: s[pos : pos+width], pos: pos})
		pos += width
		start = pos
	}
	flush(len(s))

	return tokens
}

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
	"fmt"
	"strings"
)

// Attribute names shared by the bracketed and space-delimited grammars.
const (
	attrMethods  = "methods"
	attrProduces = "produces"
	attrConsumes = "consumes"
	attrHeaders  = "headers"
	attrParams   = "params"
)

// Attribute block openers. The %s verb receives the attribute name.
const (
	bracketPartPattern = ",%s=["
	spacedPartPattern  = ", %s ["
)

// attributes are the conditions shared by every path alternative of a
// bracketed or space-delimited descriptor.
type attributes struct {
	methods  []string
	headers  []Pair
	produces []string
	consumes []string
	params   []Pair
}

func parseAttributes(s, pattern string) attributes {
	return attributes{
		methods:  partValues(s, pattern, attrMethods, "||"),
		headers:  partPairs(s, pattern, attrHeaders),
		produces: partValues(s, pattern, attrProduces, "||"),
		consumes: partValues(s, pattern, attrConsumes, "||"),
		params:   partPairs(s, pattern, attrParams),
	}
}

// predicates expands paths into one predicate each, sharing the attributes.
func (a attributes) predicates(paths []string) []Predicate {
	out := make([]Predicate, 0, len(paths))
	for _, path := range paths {
		out = append(out, Predicate{
			Path:     path,
			Methods:  orEmpty(a.methods),
			Headers:  orEmpty(a.headers),
			Produces: orEmpty(a.produces),
			Consumes: orEmpty(a.consumes),
			Params:   orEmpty(a.params),
		})
	}
	return out
}

// partValues extracts the values of one attribute block, e.g. "GET||POST"
// from ",methods=[GET||POST]". Values are trimmed and empty ones dropped.
func partValues(s, pattern, name, sep string) []string {
	prefix := fmt.Sprintf(pattern, name)
	start := strings.Index(s, prefix)
	if start < 0 {
		return nil
	}
	end := strings.IndexByte(s[start:], ']')
	if end < 0 {
		return nil
	}
	return splitTrim(s[start+len(prefix):start+end], sep)
}

func partPairs(s, pattern, name string) []Pair {
	values := partValues(s, pattern, name, "&&")
	if values == nil {
		return nil
	}
	pairs := make([]Pair, len(values))
	for i, v := range values {
		pairs[i] = parseKeyValue(v)
	}
	return pairs
}

// parseKeyValue splits "k=v" at the first '='. A '!' right before the '='
// negates the condition and moves to the front of the value: "k!=v" becomes
// {k, !v}. Without '=' the whole text is the key.
func parseKeyValue(kv string) Pair {
	i := strings.IndexByte(kv, '=')
	if i < 0 {
		return Pair{Key: kv}
	}
	key, value := kv[:i], kv[i+1:]
	if strings.HasSuffix(key, "!") {
		return Pair{Key: key[:len(key)-1], Value: "!" + value}
	}
	return Pair{Key: key, Value: value}
}

// splitTrim splits s around sep, trims every piece and drops empty ones.
func splitTrim(s, sep string) []string {
	var out []string
	for _, v := range strings.Split(s, sep) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseBracket parses the bracketed v2.0 grammar:
//
//	{[/a||/b],methods=[GET||POST],headers=[X-A=1&&X-B!=2],produces=[...],consumes=[...],params=[...]}
//
// One predicate is returned per path; all of them share the attributes.
func ParseBracket(s string) ([]Predicate, error) {
	end := strings.IndexByte(s, ']')
	if end < 2 {
		return nil, newParseError(GrammarBracket, s, -1, ErrTruncated)
	}
	paths := splitTrim(s[2:end], "||")
	if len(paths) == 0 {
		return nil, newParseError(GrammarBracket, s, 2, ErrNoPath)
	}
	return parseAttributes(s, bracketPartPattern).predicates(paths), nil
}

// ParseSpaced parses the space-delimited v2.1.1 grammar in either of its shapes:
//
//	{GET /a, produces [application/json]}
//	{[GET, POST] [/a, /b], params [q=1]}
//
// The enclosing braces may be omitted, so "GET /a" is accepted as well.
func ParseSpaced(s string) ([]Predicate, error) {
	d := s
	if !strings.HasPrefix(d, "{") {
		d = "{" + d + "}"
	}
	raw, ok := spacedPaths(d)
	if !ok {
		return nil, newParseError(GrammarSpaced, s, -1, ErrNoPath)
	}
	paths := splitTrim(raw, ", ")
	if len(paths) == 0 {
		return nil, newParseError(GrammarSpaced, s, -1, ErrNoPath)
	}
	attrs := parseAttributes(d, spacedPartPattern)
	attrs.methods = spacedMethods(d)
	return attrs.predicates(paths), nil
}

// spacedMethods reads "[GET, POST]" or the single leading "GET".
func spacedMethods(d string) []string {
	if strings.HasPrefix(d, "{[") {
		end := strings.IndexByte(d, ']')
		if end < 2 {
			return nil
		}
		return splitTrim(d[2:end], ", ")
	}
	if sp := strings.IndexByte(d, ' '); sp >= 2 {
		return []string{d[1:sp]}
	}
	return nil
}

// spacedPaths isolates the raw path list that follows the method token(s).
func spacedPaths(d string) (string, bool) {
	marker := " "
	if strings.HasPrefix(d, "{[") {
		marker = "] "
	}
	i := strings.Index(d, marker)
	if i < 0 {
		return "", false
	}
	start := i + len(marker)
	if start == len(d) {
		return "", false
	}

	if d[start] == '[' {
		start++
		if start == len(d) {
			return "", false
		}
		end := strings.Index(d[start:], "], ")
		if end < 0 {
			// "[/a, /b]}" without attributes: drop the trailing "]}".
			end = len(d) - 2 - start
			if end < 0 {
				return "", false
			}
		}
		return d[start : start+end], true
	}

	end := strings.Index(d[start:], ", ")
	if end < 0 {
		end = len(d) - 1 - start
		if end < 0 {
			return "", false
		}
	}
	return d[start : start+end], true
}

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

package handler

import (
	"slices"
	"strings"
)

// LambdaMarker is the class-name fragment the JVM gives synthetic lambda
// classes. It doubles as the method name of lambda signatures.
const LambdaMarker = "$$Lambda"

// modifiers are skipped before the method reference.
var modifiers = map[string]struct{}{
	"public":       {},
	"protected":    {},
	"private":      {},
	"static":       {},
	"abstract":     {},
	"final":        {},
	"native":       {},
	"synchronized": {},
	"strictfp":     {},
	"transient":    {},
	"volatile":     {},
	"default":      {},
	"sealed":       {},
	"non-sealed":   {},
}

// Signature is the decoded identity of a handler method.
// It is immutable once returned by [Parse].
type Signature struct {
	// Raw is the reference exactly as reported. Two signatures are equal
	// when their Raw texts are.
	Raw string `json:"raw"`
	// ClassName is the qualified class name with '$' replaced by '.'.
	ClassName string `json:"className"`
	// BinaryClassName is the qualified class name as written in Raw.
	BinaryClassName string `json:"-"`
	// MethodName is the method name, or LambdaMarker for lambdas.
	MethodName string `json:"methodName"`
	// Parameters are the parameter type names with '$' replaced by '.'.
	Parameters []string `json:"parameters"`
	// nameIndex is where the simple class name starts within ClassName.
	nameIndex int
}

// Parse decodes a raw method or lambda reference. It never fails; parts that
// cannot be found stay empty.
func Parse(raw string) Signature {
	s := Signature{Raw: raw, Parameters: []string{}}

	if i := strings.Index(raw, LambdaMarker); i >= 0 {
		s.setClassName(raw[:i])
		s.MethodName = LambdaMarker
		return s
	}

	parts := strings.Fields(strings.ReplaceAll(raw, ", ", ","))
	if len(parts) == 0 {
		return s
	}
	i := 0
	for i < len(parts) && isModifier(parts[i]) {
		i++
	}
	// The token after the modifiers is the return type, unless the reference
	// ends there.
	ref := parts[min(i+1, len(parts)-1)]

	nameEnd := strings.IndexByte(ref, '(')
	if nameEnd < 0 {
		return s
	}
	if nameStart := strings.LastIndexByte(ref[:nameEnd], '.'); nameStart >= 0 {
		s.setClassName(ref[:nameStart])
		s.MethodName = ref[nameStart+1 : nameEnd]
	}

	methodEnd := strings.LastIndexByte(ref, ')')
	if methodEnd <= nameEnd {
		return s
	}
	s.Parameters = SplitParameters(ref[nameEnd+1 : methodEnd])
	return s
}

func isModifier(s string) bool {
	_, ok := modifiers[s]
	return ok
}

func (s *Signature) setClassName(qualified string) {
	s.BinaryClassName = qualified
	s.ClassName = strings.ReplaceAll(qualified, "$", ".")
	s.nameIndex = -1
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 && i < len(qualified)-1 {
		s.nameIndex = i + 1
	}
}

// SplitParameters splits a comma-separated parameter list without breaking
// generic arguments apart: "Map<String,Integer>,int" yields two parameters.
// Nested-class separators '$' become '.'.
func SplitParameters(list string) []string {
	out := []string{}
	if list == "" {
		return out
	}
	pending := ""
	for _, part := range strings.Split(list, ",") {
		if part == "" && pending == "" {
			continue
		}
		candidate := part
		if pending != "" {
			candidate = pending + "," + part
		}
		if strings.Count(candidate, "<") == strings.Count(candidate, ">") {
			out = append(out, strings.ReplaceAll(candidate, "$", "."))
			pending = ""
		} else {
			pending = candidate
		}
	}
	return out
}

// IsLambda reports whether the signature names a synthetic lambda.
func (s Signature) IsLambda() bool {
	return s.MethodName == LambdaMarker
}

// Key returns the index key "<className>#<methodName>".
func (s Signature) Key() string {
	return Key(s.ClassName, s.MethodName)
}

// Key builds an index key from a class and a method name.
func Key(className, methodName string) string {
	return className + "#" + methodName
}

// DisplayName returns a short name such as "UserController#find". Lambdas
// drop the '#'. When the class or method is unknown, Raw is returned.
func (s Signature) DisplayName() string {
	if s.ClassName == "" || s.MethodName == "" {
		return s.Raw
	}
	name := s.ClassName
	if s.nameIndex >= 0 && s.nameIndex < len(name) {
		name = name[s.nameIndex:]
	}
	if s.IsLambda() {
		return name + s.MethodName
	}
	return name + "#" + s.MethodName
}

// Equal compares signatures by their raw text.
func (s Signature) Equal(o Signature) bool {
	return s.Raw == o.Raw
}

// String returns Raw.
func (s Signature) String() string {
	return s.Raw
}

// Clone returns a copy that shares no memory with s.
func (s Signature) Clone() Signature {
	s.Parameters = slices.Clone(s.Parameters)
	return s
}

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

// DefaultRouterFunctionTypes are the return types that mark a method as a
// functional route definition, whose routes are reported as lambdas.
var DefaultRouterFunctionTypes = []string{
	"org.springframework.web.reactive.function.server.RouterFunction",
	"org.springframework.web.servlet.function.RouterFunction",
	"cn.taketoday.web.reactive.function.server.RouterFunction",
	"cn.taketoday.web.servlet.function.RouterFunction",
}

// Method is a method declaration a signature can be matched against.
// Type names are canonical texts such as "java.util.List<java.lang.String>".
type Method interface {
	// ClassName returns the qualified name of the declaring class.
	ClassName() string
	// Name returns the method name.
	Name() string
	// ParameterTypes returns the declared parameter types in order.
	ParameterTypes() []string
	// ReturnType returns the declared return type, or "" for none.
	ReturnType() string
	// IsBean reports whether the method declares a managed component.
	IsBean() bool
}

// MatchOption configures [Signature.Matches].
type MatchOption func(*matchConfig)

type matchConfig struct {
	routerFunctionTypes []string
}

// WithRouterFunctionTypes replaces [DefaultRouterFunctionTypes].
func WithRouterFunctionTypes(types ...string) MatchOption {
	return func(c *matchConfig) {
		c.routerFunctionTypes = types
	}
}

func newMatchConfig(opts []MatchOption) *matchConfig {
	c := &matchConfig{routerFunctionTypes: DefaultRouterFunctionTypes}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Matches reports whether m is the method s refers to. A lambda signature
// matches any router-function bean of its class.
func (s Signature) Matches(m Method, opts ...MatchOption) bool {
	if m == nil || s.ClassName == "" || s.ClassName != m.ClassName() {
		return false
	}
	if s.IsLambda() {
		return IsRouterFunctionBean(m, opts...)
	}
	return s.MethodName == m.Name() && MatchParameters(s.Parameters, m.ParameterTypes())
}

// MatchParameters reports whether declared parameter texts correspond one to
// one with the candidate's canonical parameter types.
func MatchParameters(declared, candidate []string) bool {
	if len(declared) != len(candidate) {
		return false
	}
	for i := range declared {
		if !Equivalent(declared[i], candidate[i]) {
			return false
		}
	}
	return true
}

// Equivalent reports whether a declared type text names the canonical type.
// A declaration without generic arguments also matches the erased form:
// "java.util.List" is equivalent to "java.util.List<java.lang.String>".
func Equivalent(declared, canonical string) bool {
	if declared == canonical {
		return true
	}
	i := strings.IndexByte(canonical, '<')
	return i >= 0 && declared == canonical[:i]
}

// IsRouterFunctionBean reports whether m declares a bean whose type is one
// of the router-function types.
func IsRouterFunctionBean(m Method, opts ...MatchOption) bool {
	if m == nil || !m.IsBean() {
		return false
	}
	ret := m.ReturnType()
	if ret == "" {
		return false
	}
	return slices.ContainsFunc(newMatchConfig(opts).routerFunctionTypes, func(t string) bool {
		return Equivalent(t, ret)
	})
}

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

//go:build !integration

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeMethod is a static Method declaration.
type fakeMethod struct {
	class, name, ret string
	params           []string
	bean             bool
}

func (m fakeMethod) ClassName() string        { return m.class }
func (m fakeMethod) Name() string             { return m.name }
func (m fakeMethod) ParameterTypes() []string { return m.params }
func (m fakeMethod) ReturnType() string       { return m.ret }
func (m fakeMethod) IsBean() bool             { return m.bean }

func TestEquivalent(t *testing.T) {
	t.Parallel()

	assert.True(t, Equivalent("int", "int"))
	assert.True(t, Equivalent("java.util.List", "java.util.List<java.lang.String>"))
	assert.True(t, Equivalent("java.util.List<java.lang.String>", "java.util.List<java.lang.String>"))
	assert.False(t, Equivalent("java.util.List<java.lang.Long>", "java.util.List<java.lang.String>"))
	assert.False(t, Equivalent("java.util.Lis", "java.util.List<java.lang.String>"))
	assert.False(t, Equivalent("java.util.List", "java.util.Set"))
}

func TestSignature_Matches(t *testing.T) {
	t.Parallel()

	sig := Parse("public java.lang.String com.acme.Api.find(java.util.List,int)")

	tests := []struct {
		name   string
		method Method
		want   bool
	}{
		{
			name:   "erased generic parameter",
			method: fakeMethod{class: "com.acme.Api", name: "find", params: []string{"java.util.List<java.lang.String>", "int"}},
			want:   true,
		},
		{
			name:   "overload with different arity",
			method: fakeMethod{class: "com.acme.Api", name: "find", params: []string{"java.util.List<java.lang.String>"}},
			want:   false,
		},
		{
			name:   "overload with different type",
			method: fakeMethod{class: "com.acme.Api", name: "find", params: []string{"java.util.List", "long"}},
			want:   false,
		},
		{
			name:   "other method",
			method: fakeMethod{class: "com.acme.Api", name: "list", params: []string{"java.util.List", "int"}},
			want:   false,
		},
		{
			name:   "other class",
			method: fakeMethod{class: "com.acme.Other", name: "find", params: []string{"java.util.List", "int"}},
			want:   false,
		},
		{
			name:   "nil method",
			method: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sig.Matches(tt.method))
		})
	}
}

func TestSignature_MatchesLambda(t *testing.T) {
	t.Parallel()

	sig := Parse("com.acme.Routes$$Lambda$42/0x01@1")
	routes := fakeMethod{
		class: "com.acme.Routes",
		name:  "routes",
		ret:   "org.springframework.web.servlet.function.RouterFunction<org.springframework.web.servlet.function.ServerResponse>",
		bean:  true,
	}

	assert.True(t, sig.Matches(routes))

	notBean := routes
	notBean.bean = false
	assert.False(t, sig.Matches(notBean))

	assert.False(t, sig.Matches(routes, WithRouterFunctionTypes("com.acme.Router")))

	custom := routes
	custom.ret = "com.acme.Router"
	assert.True(t, sig.Matches(custom, WithRouterFunctionTypes("com.acme.Router")))
}

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

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/mappings"
)

func sampleModel() *mappings.Model {
	return mappings.Parse(map[string]any{
		"{[/users],methods=[GET]}": map[string]any{
			"bean":   "requestMappingHandlerMapping",
			"method": "public java.util.List com.acme.web.UserController.list()",
		},
		"{[/users],methods=[POST],consumes=[application/json]}": map[string]any{
			"bean":   "requestMappingHandlerMapping",
			"method": "public void com.acme.web.UserController.save(com.acme.User)",
		},
		"/webjars/**": map[string]any{
			"bean": "resourceHandlerMapping",
		},
	})
}

func TestTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleModel(), WithWidth(120)))
	out := buf.String()

	assert.NotContains(t, out, "\033[", "colours are stripped off a TTY")
	for _, want := range []string{
		"Method", "Conditions", "Dispatcher",
		"/users", "/webjars/**",
		"UserController#list", "UserController#save",
		"consumes=application/json",
		"resourceHandlerMapping",
		"dispatcherServlet",
		"╭", "╯",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "3 mappings\n"))
}

func TestTable_AnyMethodAndNoConditions(t *testing.T) {
	t.Parallel()

	model := mappings.Parse(map[string]any{"/health": map[string]any{}})

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, model, WithoutColor()))

	var dataLine string
	for line := range strings.Lines(buf.String()) {
		if strings.Contains(line, "/health") {
			dataLine = line
		}
	}
	require.NotEmpty(t, dataLine)
	assert.Contains(t, dataLine, "*")
	assert.Contains(t, dataLine, "-")
	assert.Contains(t, buf.String(), "1 mapping\n")
}

func TestTable_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, mappings.NewModel(nil)))
	assert.Equal(t, "No mappings\n", buf.String())
}

func TestTableWidth(t *testing.T) {
	t.Parallel()

	short := [][]string{{"GET", "/a", "-", "-", "d"}}
	assert.Equal(t, minWidth, tableWidth(&bytes.Buffer{}, 0, short))

	long := [][]string{{"GET", strings.Repeat("x", 200), "-", "-", "d"}}
	assert.Equal(t, DefaultWidth, tableWidth(&bytes.Buffer{}, 0, long))
	assert.Equal(t, 80, tableWidth(&bytes.Buffer{}, 80, long))
}

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

package mappings

import "rivaas.dev/mappings/predicate"

// Export converts a model into plain maps and slices that any codec can
// encode. Empty conditions and absent bean or handler are omitted.
func Export(m *Model) []map[string]any {
	out := make([]map[string]any, 0, m.Len())
	for _, mapping := range m.mappings {
		out = append(out, ExportMapping(mapping))
	}
	return out
}

// ExportMapping converts one mapping into a plain map.
func ExportMapping(m Mapping) map[string]any {
	p := m.Predicate
	out := map[string]any{
		"key":  m.RawKey,
		"path": p.Path,
		"dispatcher": map[string]any{
			"name":        m.Dispatcher.Name,
			"urlPatterns": m.Dispatcher.URLPatterns,
		},
	}
	putStrings(out, "methods", p.Methods)
	putStrings(out, "produces", p.Produces)
	putStrings(out, "consumes", p.Consumes)
	putPairs(out, "headers", p.Headers)
	putPairs(out, "params", p.Params)

	if m.Bean != "" {
		out["bean"] = m.Bean
	}
	if h := m.Handler; h != nil {
		out["handler"] = map[string]any{
			"raw":         h.Raw,
			"className":   h.ClassName,
			"methodName":  h.MethodName,
			"parameters":  h.Parameters,
			"displayName": h.DisplayName(),
		}
	}
	return out
}

func putStrings(out map[string]any, key string, values []string) {
	if len(values) > 0 {
		out[key] = values
	}
}

func putPairs(out map[string]any, key string, pairs []predicate.Pair) {
	if len(pairs) == 0 {
		return
	}
	list := make([]map[string]any, len(pairs))
	for i, p := range pairs {
		list[i] = map[string]any{"key": p.Key, "value": p.Value}
	}
	out[key] = list
}

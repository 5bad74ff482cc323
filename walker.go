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

import (
	"maps"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/mappings/handler"
	"rivaas.dev/mappings/predicate"
)

// Keys of the descriptor tree.
const (
	keyContexts           = "contexts"
	keyMappings           = "mappings"
	keyServlets           = "servlets"
	keyDispatcherServlets = "dispatcherServlets"
	keyDispatcherHandlers = "dispatcherHandlers"
	keyPredicate          = "predicate"
	keyHandler            = "handler"
	keyDetails            = "details"
	keyHandlerMethod      = "handlerMethod"
	keyName               = "name"
)

// Option configures [Parse].
type Option func(*walker)

// WithDiagnostics sends walker diagnostics to h.
func WithDiagnostics(h DiagnosticHandler) Option {
	return func(w *walker) {
		w.diagnostics = h
	}
}

// WithRouterFunctionTypes sets the return types that identify router-function
// beans in [Model.MappingsForMethod].
func WithRouterFunctionTypes(types ...string) Option {
	return func(w *walker) {
		w.matchOpts = append(w.matchOpts, handler.WithRouterFunctionTypes(types...))
	}
}

// flatDetails is the value of a flat-shape entry.
type flatDetails struct {
	Bean   string `mapstructure:"bean"`
	Method string `mapstructure:"method"`
}

// handlerMethodRecord is details.handlerMethod of a nested-shape entry.
type handlerMethodRecord struct {
	ClassName  string `mapstructure:"className"`
	Name       string `mapstructure:"name"`
	Descriptor string `mapstructure:"descriptor"`
}

// servletRecord is one element of mappings.servlets.
type servletRecord struct {
	Name     string   `mapstructure:"name"`
	Mappings []string `mapstructure:"mappings"`
}

type walker struct {
	diagnostics DiagnosticHandler
	matchOpts   []handler.MatchOption
	out         []Mapping
}

// Parse walks a decoded descriptor tree and returns the model it describes.
// It never fails: parts of the tree with an unexpected shape are skipped and
// reported through [WithDiagnostics]. A nil tree yields an empty model.
func Parse(tree map[string]any, opts ...Option) *Model {
	w := &walker{}
	for _, opt := range opts {
		opt(w)
	}

	if contexts, ok := asMap(tree[keyContexts]); ok && len(tree) == 1 {
		w.walkContexts(contexts)
	} else {
		w.walkFlat(tree)
	}

	return NewModel(w.out, w.matchOpts...)
}

// walkFlat handles the older layout: mapping key -> {bean, method}.
func (w *walker) walkFlat(tree map[string]any) {
	for _, key := range sortedKeys(tree) {
		raw, ok := asMap(tree[key])
		if !ok {
			w.emit(DiagEntrySkipped, "mapping details are not a map", "key", key)
			continue
		}
		var details flatDetails
		if err := decode(raw, &details); err != nil {
			w.emit(DiagEntrySkipped, "mapping details could not be decoded", "key", key, "error", err.Error())
			continue
		}

		var sig *handler.Signature
		if details.Method != "" {
			s := handler.Parse(details.Method)
			sig = &s
		}
		w.add(key, details.Bean, sig, DefaultDispatcher)
	}
}

// walkContexts handles the nested layout:
// contexts -> <context> -> mappings -> servlets / dispatcherServlets / dispatcherHandlers.
func (w *walker) walkContexts(contexts map[string]any) {
	for _, name := range sortedKeys(contexts) {
		ctx, ok := asMap(contexts[name])
		if !ok {
			w.emit(DiagEntrySkipped, "context is not a map", "context", name)
			continue
		}
		mappings, ok := asMap(ctx[keyMappings])
		if !ok {
			continue
		}

		servlets := w.servlets(mappings[keyServlets])
		w.walkDispatchers(mappings[keyDispatcherServlets], servlets)
		w.walkDispatchers(mappings[keyDispatcherHandlers], map[string]DispatcherServlet{})
	}
}

// servlets collects the named servlets of one context.
func (w *walker) servlets(v any) map[string]DispatcherServlet {
	out := map[string]DispatcherServlet{}
	list, ok := asSlice(v)
	if !ok {
		return out
	}
	for _, item := range list {
		raw, ok := asMap(item)
		if !ok || raw[keyName] == nil {
			continue
		}
		patterns, ok := asSlice(raw[keyMappings])
		if !ok {
			continue
		}
		var rec servletRecord
		clean := map[string]any{keyName: raw[keyName], keyMappings: slices.DeleteFunc(patterns, isNil)}
		if err := decode(clean, &rec); err != nil {
			w.emit(DiagEntrySkipped, "servlet could not be decoded", "servlet", cast.ToString(raw[keyName]), "error", err.Error())
			continue
		}
		out[rec.Name] = DispatcherServlet{Name: rec.Name, URLPatterns: orEmpty(rec.Mappings)}
	}
	return out
}

// walkDispatchers walks dispatcher name -> list of entries. Dispatchers not
// declared as servlets are added to known with no URL patterns.
func (w *walker) walkDispatchers(v any, known map[string]DispatcherServlet) {
	dispatchers, ok := asMap(v)
	if !ok {
		return
	}
	for _, name := range sortedKeys(dispatchers) {
		entries, ok := asSlice(dispatchers[name])
		if !ok {
			w.emit(DiagEntrySkipped, "dispatcher entries are not a list", "dispatcher", name)
			continue
		}
		dispatcher, ok := known[name]
		if !ok {
			dispatcher = DispatcherServlet{Name: name, URLPatterns: []string{}}
			known[name] = dispatcher
		}
		for i, item := range entries {
			entry, ok := asMap(item)
			if !ok {
				w.emit(DiagEntrySkipped, "dispatcher entry is not a map", "dispatcher", name, "index", i)
				continue
			}
			w.walkEntry(entry, dispatcher)
		}
	}
}

func (w *walker) walkEntry(entry map[string]any, dispatcher DispatcherServlet) {
	if isNil(entry[keyPredicate]) {
		w.emit(DiagEntrySkipped, "entry has no predicate", "dispatcher", dispatcher.Name)
		return
	}
	key, err := cast.ToStringE(entry[keyPredicate])
	if err != nil {
		w.emit(DiagEntrySkipped, "entry predicate is not a string", "dispatcher", dispatcher.Name, "error", err.Error())
		return
	}

	sig := w.handlerMethod(entry, key)
	if sig == nil && !isNil(entry[keyHandler]) {
		h := cast.ToString(entry[keyHandler])
		if strings.Contains(h, "[") {
			w.emit(DiagHandlerDropped, "handler describes a collection", "key", key, "handler", h)
		} else {
			s := handler.Parse(h)
			sig = &s
		}
	}
	w.add(key, "", sig, dispatcher)
}

// handlerMethod decodes details.handlerMethod, or returns nil when the entry
// has none or it cannot be decoded.
func (w *walker) handlerMethod(entry map[string]any, key string) *handler.Signature {
	details, ok := asMap(entry[keyDetails])
	if !ok {
		return nil
	}
	raw, ok := asMap(details[keyHandlerMethod])
	if !ok || isNil(raw["className"]) {
		return nil
	}

	var rec handlerMethodRecord
	if err := decode(raw, &rec); err != nil {
		w.emit(DiagHandlerUndecodable, "handler method could not be decoded", "key", key, "error", err.Error())
		return nil
	}
	sig, err := handler.FromDescriptor(rec.ClassName, rec.Name, rec.Descriptor)
	if err != nil {
		w.emit(DiagHandlerUndecodable, "handler method could not be decoded", "key", key, "error", err.Error())
		return nil
	}
	return &sig
}

// add compiles key and appends one mapping per predicate.
func (w *walker) add(key, bean string, sig *handler.Signature, dispatcher DispatcherServlet) {
	res := predicate.Analyze(key)
	if res.Fallback {
		w.emit(DiagPredicateFallback, "descriptor kept as a plain path",
			"key", key, "grammar", res.Grammar.String(), "error", res.Err.Error())
	}
	for _, p := range res.Predicates {
		w.out = append(w.out, Mapping{
			RawKey:     key,
			Predicate:  p,
			Bean:       bean,
			Handler:    sig,
			Dispatcher: dispatcher,
		})
	}
}

func (w *walker) emit(kind DiagnosticKind, msg string, kv ...any) {
	if w.diagnostics == nil {
		return
	}
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[cast.ToString(kv[i])] = kv[i+1]
	}
	w.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: msg, Fields: fields})
}

// decode converts a raw record into a struct, accepting loosely typed values.
func decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// asMap accepts the map types produced by the JSON, YAML and MessagePack decoders.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		return cast.ToStringMap(m), true
	default:
		return nil, false
	}
}

// asSlice accepts any slice type except strings and byte slices.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return slices.Clone(s), true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	}
	out, err := cast.ToSliceE(v)
	if err != nil {
		return nil, false
	}
	return out, true
}

func isNil(v any) bool {
	return v == nil
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

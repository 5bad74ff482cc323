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
	"slices"

	"rivaas.dev/mappings/handler"
	"rivaas.dev/mappings/predicate"
)

// DefaultDispatcherName is the name of [DefaultDispatcher].
const DefaultDispatcherName = "dispatcherServlet"

// DefaultDispatcher is assigned to mappings whose source carries no
// dispatcher information.
var DefaultDispatcher = DispatcherServlet{Name: DefaultDispatcherName, URLPatterns: []string{}}

// DispatcherServlet is a named front controller routes are registered under.
type DispatcherServlet struct {
	Name        string   `json:"name"`
	URLPatterns []string `json:"urlPatterns"`
}

// Equal reports whether two dispatchers have the same name and patterns.
func (d DispatcherServlet) Equal(o DispatcherServlet) bool {
	return d.Name == o.Name && slices.Equal(d.URLPatterns, o.URLPatterns)
}

// Mapping is one resolved route. A descriptor that expands to several
// predicates yields one Mapping per predicate, all sharing RawKey.
type Mapping struct {
	// RawKey is the descriptor the predicate was compiled from.
	RawKey    string
	Predicate predicate.Predicate
	// Bean is the name of the bean serving the route, or "".
	Bean string
	// Handler is nil when the source reported no usable handler.
	Handler    *handler.Signature
	Dispatcher DispatcherServlet
}

// HasBean reports whether a bean name is known.
func (m Mapping) HasBean() bool {
	return m.Bean != ""
}

// HasHandler reports whether a handler signature is known.
func (m Mapping) HasHandler() bool {
	return m.Handler != nil
}

// HandlerName returns the handler's display name, the bean name, or "".
func (m Mapping) HandlerName() string {
	switch {
	case m.Handler != nil:
		return m.Handler.DisplayName()
	case m.Bean != "":
		return m.Bean
	default:
		return ""
	}
}

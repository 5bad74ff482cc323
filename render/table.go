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

package render

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"rivaas.dev/mappings"
)

// DefaultWidth is the table width used when the output is not a terminal.
const DefaultWidth = 120

const minWidth = 60

var headers = []string{"Method", "Path", "Conditions", "Handler", "Dispatcher"}

var methodStyles = map[string]lipgloss.Style{
	http.MethodGet:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	http.MethodPost:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	http.MethodPut:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	http.MethodDelete:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	http.MethodPatch:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	http.MethodHead:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	http.MethodOptions: lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),
}

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Option configures Table.
type Option func(*options)

type options struct {
	width   int
	noColor bool
}

// WithWidth sets the table width. Zero means the terminal width, or
// DefaultWidth when the output is not a terminal.
func WithWidth(width int) Option {
	return func(o *options) { o.width = width }
}

// WithoutColor strips all styling regardless of the terminal.
func WithoutColor() Option {
	return func(o *options) { o.noColor = true }
}

// Table writes model as a table followed by a count line.
func Table(w io.Writer, model *mappings.Model, opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cpw := colorprofile.NewWriter(w, os.Environ())
	if o.noColor {
		cpw.Profile = colorprofile.NoTTY
	}

	if model.Len() == 0 {
		_, err := fmt.Fprintln(cpw, "No mappings")
		return err
	}

	rows := make([][]string, 0, model.Len())
	for _, m := range model.Mappings() {
		rows = append(rows, row(m))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(r, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Align(lipgloss.Left).Padding(0, 1)
			if r == table.HeaderRow {
				return style.Inherit(headerStyle)
			}
			return style
		}).
		Headers(headers...).
		Rows(rows...).
		Width(tableWidth(w, o.width, rows))

	if _, err := fmt.Fprintln(cpw, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(cpw, dimStyle.Render(countLine(model.Len())))
	return err
}

func row(m mappings.Mapping) []string {
	methods := "*"
	if len(m.Predicate.Methods) > 0 {
		styled := make([]string, len(m.Predicate.Methods))
		for i, method := range m.Predicate.Methods {
			styled[i] = method
			if style, ok := methodStyles[method]; ok {
				styled[i] = style.Render(method)
			}
		}
		methods = strings.Join(styled, ",")
	}

	conditions := m.Predicate.Conditions()
	if conditions == "" {
		conditions = "-"
	}

	handler := "-"
	switch {
	case m.HasHandler():
		handler = m.Handler.DisplayName()
	case m.HasBean():
		handler = dimStyle.Render(m.Bean)
	}

	return []string{methods, m.Predicate.Path, conditions, handler, m.Dispatcher.Name}
}

// tableWidth fits the content, bounded by the terminal and never below
// minWidth.
func tableWidth(w io.Writer, requested int, rows [][]string) int {
	// Borders plus one separator and two padding cells per column.
	content := 2 + 4 + 10
	for col, h := range headers {
		widest := len(h)
		for _, r := range rows {
			widest = max(widest, lipgloss.Width(r[col]))
		}
		content += widest
	}

	limit := requested
	if limit == 0 {
		limit = DefaultWidth
		if f, ok := w.(*os.File); ok {
			if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
				limit = tw
			}
		}
	}
	return max(minWidth, min(content, limit))
}

func countLine(n int) string {
	if n == 1 {
		return "1 mapping"
	}
	return fmt.Sprintf("%d mappings", n)
}

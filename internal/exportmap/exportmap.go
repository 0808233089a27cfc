// Package exportmap builds and caches per-file ECMAScript export maps.
//
// An ExportMap is the single source of truth about what a module exports:
// named bindings, the default binding, flattened star re-exports, per-name
// documentation tags and parse diagnostics. Lint rules consume maps through
// Engine.Get and Engine.Parse; everything else in this package serves those
// two entry points.
package exportmap

import (
	"encoding/json"

	"esmap/internal/jsdoc"
	"esmap/internal/parser"
)

// DefaultName is the map key of the default export.
const DefaultName = "default"

// SourceRef locates the syntax node an export originated from, for rules
// that need to report positions.
type SourceRef struct {
	Path      string `json:"path"`
	StartLine int    `json:"startLine"` // 1-indexed
	EndLine   int    `json:"endLine"`
	StartByte uint32 `json:"-"`
	EndByte   uint32 `json:"-"`
}

// ExportEntry is one exported binding.
type ExportEntry struct {
	Name string       `json:"name"`
	Node SourceRef    `json:"node"`
	Doc  *jsdoc.Block `json:"doc,omitempty"`

	// Namespace is set when the entry's value is itself an analyzable
	// module namespace (`export * as ns from './x'`, or a default export
	// of a namespace import), enabling chained dereferencing.
	Namespace *ExportMap `json:"-"`
}

// ExportMap is the ordered, read-only export mapping for one file. It is
// mutated only during construction (the namespace resolver flattens star
// re-exports into it in place); afterwards all readers treat it as
// immutable.
type ExportMap struct {
	Path   string
	Doc    *jsdoc.Block
	Errors []parser.Diagnostic

	order   []string
	entries map[string]*ExportEntry
}

// NewExportMap creates an empty map for the given absolute path.
func NewExportMap(path string) *ExportMap {
	return &ExportMap{
		Path:    path,
		entries: make(map[string]*ExportEntry),
	}
}

// Has reports whether name is exported.
func (m *ExportMap) Has(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// Get returns the entry for name, or nil when absent. Callers must
// distinguish nil (not exported) from an entry with empty fields.
func (m *ExportMap) Get(name string) *ExportEntry {
	return m.entries[name]
}

// Size is the reportable export count: distinct named entries plus the
// names contributed by resolvable star re-export targets, each counted
// once. Flattening maintains this as plain map cardinality.
func (m *ExportMap) Size() int {
	return len(m.order)
}

// Names returns the exported names in declaration order.
func (m *ExportMap) Names() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// set inserts an entry unless the name is already present
// (first-declared-wins, both for duplicate declarations and for star
// re-export collisions).
func (m *ExportMap) set(name string, entry *ExportEntry) {
	if _, ok := m.entries[name]; ok {
		return
	}
	entry.Name = name
	m.entries[name] = entry
	m.order = append(m.order, name)
}

// entrySummary is the JSON shape for one entry. Namespaces are summarized
// by path only: a namespace map can reference its own parent, so inlining
// it would not terminate.
type entrySummary struct {
	Name       string       `json:"name"`
	Node       SourceRef    `json:"node"`
	Doc        *jsdoc.Block `json:"doc,omitempty"`
	Namespace  string       `json:"namespace,omitempty"`
	Deprecated string       `json:"deprecated,omitempty"`
}

// MarshalJSON renders the map for CLI output and index storage.
func (m *ExportMap) MarshalJSON() ([]byte, error) {
	out := struct {
		Path    string              `json:"path"`
		Doc     *jsdoc.Block        `json:"doc,omitempty"`
		Errors  []parser.Diagnostic `json:"errors,omitempty"`
		Exports []entrySummary      `json:"exports"`
	}{
		Path:    m.Path,
		Doc:     m.Doc,
		Errors:  m.Errors,
		Exports: make([]entrySummary, 0, len(m.order)),
	}

	for _, name := range m.order {
		e := m.entries[name]
		s := entrySummary{Name: name, Node: e.Node, Doc: e.Doc}
		if e.Namespace != nil {
			s.Namespace = e.Namespace.Path
		}
		if e.Doc != nil {
			if text, ok := e.Doc.Deprecated(); ok {
				s.Deprecated = text
			}
		}
		out.Exports = append(out.Exports, s)
	}
	return json.Marshal(out)
}

package exportmap

import (
	"encoding/json"
	"strings"
	"testing"

	"esmap/internal/jsdoc"
	"esmap/internal/parser"
	"esmap/internal/resolver"
)

func TestExportMapFirstDeclaredWins(t *testing.T) {
	m := NewExportMap("/tmp/a.js")
	m.set("x", &ExportEntry{Node: SourceRef{Path: "/tmp/a.js", StartLine: 1}})
	m.set("x", &ExportEntry{Node: SourceRef{Path: "/tmp/b.js", StartLine: 9}})

	if m.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", m.Size())
	}
	if got := m.Get("x").Node.Path; got != "/tmp/a.js" {
		t.Errorf("entry path = %q, want the first declaration", got)
	}
}

func TestExportMapOrderAndLookup(t *testing.T) {
	m := NewExportMap("/tmp/a.js")
	for _, name := range []string{"c", "a", "b"} {
		m.set(name, &ExportEntry{})
	}

	want := []string{"c", "a", "b"}
	got := m.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want declaration order %v", got, want)
		}
	}

	if !m.Has("a") || m.Has("missing") {
		t.Error("Has() misreported membership")
	}
	if m.Get("missing") != nil {
		t.Error("Get() on an absent name must return nil")
	}
}

func TestExportMapMarshalJSON(t *testing.T) {
	ns := NewExportMap("/tmp/ns.js")
	m := NewExportMap("/tmp/a.js")
	m.Errors = []parser.Diagnostic{{Message: "syntax error", Line: 3, Column: 1}}
	m.set("old", &ExportEntry{
		Doc: &jsdoc.Block{Tags: []jsdoc.Tag{{Title: "deprecated", Description: "use fresh"}}},
	})
	m.set("space", &ExportEntry{Namespace: ns})

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`"deprecated":"use fresh"`,
		`"namespace":"/tmp/ns.js"`,
		`"syntax error"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("marshaled map missing %s:\n%s", want, out)
		}
	}
}

func TestFingerprint(t *testing.T) {
	base := Config{
		Parser:   parser.Options{Dialect: parser.DialectJavaScript, SourceType: "module"},
		Resolver: resolver.Settings{Extensions: []string{".js"}},
	}

	same := base
	if base.Fingerprint() != same.Fingerprint() {
		t.Error("identical configs produced different fingerprints")
	}

	dialect := base
	dialect.Parser.Dialect = parser.DialectTypeScript
	if base.Fingerprint() == dialect.Fingerprint() {
		t.Error("dialect change did not change the fingerprint")
	}

	exts := base
	exts.Resolver.Extensions = []string{".js", ".ts"}
	if base.Fingerprint() == exts.Fingerprint() {
		t.Error("resolver change did not change the fingerprint")
	}

	ignored := base
	ignored.Ignore = []string{"vendor/**"}
	if base.Fingerprint() != ignored.Fingerprint() {
		t.Error("ignore patterns must not affect the fingerprint")
	}
}

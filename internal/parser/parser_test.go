package parser

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func parseSrc(t *testing.T, src string, opts Options) *File {
	t.Helper()
	f := New().ParseSource(context.Background(), "test.js", []byte(src), opts)
	if f.Root == nil {
		t.Fatal("ParseSource returned a file without a tree")
	}
	return f
}

// formSummary is a comparable view of an ExportForm for table tests.
type formSummary struct {
	Kind    ExportKind
	Names   []string
	Source  string
	HasFrom bool
	Alias   string
}

func summarize(forms []ExportForm) []formSummary {
	var out []formSummary
	for _, form := range forms {
		s := formSummary{
			Kind:    form.Kind,
			Source:  form.Source,
			HasFrom: form.HasFrom,
			Alias:   form.Alias,
		}
		for _, b := range form.Bindings {
			s.Names = append(s.Names, b.Name)
		}
		out = append(out, s)
	}
	return out
}

func TestExportForms(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		src     string
		want    []formSummary
	}{
		{
			name: "exported const",
			src:  "export const foo = 1;",
			want: []formSummary{{Kind: ExportNamedDecl, Names: []string{"foo"}}},
		},
		{
			name: "exported function and class",
			src:  "export function f() {}\nexport class C {}",
			want: []formSummary{
				{Kind: ExportNamedDecl, Names: []string{"f"}},
				{Kind: ExportNamedDecl, Names: []string{"C"}},
			},
		},
		{
			name: "chained declarators",
			src:  "export const a = 1, b = 2;",
			want: []formSummary{{Kind: ExportNamedDecl, Names: []string{"a", "b"}}},
		},
		{
			name: "destructured object pattern",
			src:  "export const {a, b: {c}, ...rest} = obj;",
			want: []formSummary{{Kind: ExportNamedDecl, Names: []string{"a", "c", "rest"}}},
		},
		{
			name: "destructured array pattern with default",
			src:  "export const [x, y = 2] = arr;",
			want: []formSummary{{Kind: ExportNamedDecl, Names: []string{"x", "y"}}},
		},
		{
			name: "named list",
			src:  "const a = 1, b = 2;\nexport { a, b as c };",
			want: []formSummary{{Kind: ExportNamedList, Names: []string{"a", "c"}}},
		},
		{
			name: "named list re-export",
			src:  "export { a, b } from './other';",
			want: []formSummary{{
				Kind:    ExportNamedList,
				Names:   []string{"a", "b"},
				Source:  "./other",
				HasFrom: true,
			}},
		},
		{
			name: "default expression",
			src:  "export default 42;",
			want: []formSummary{{Kind: ExportDefault}},
		},
		{
			name: "default function declaration",
			src:  "export default function f() {}",
			want: []formSummary{{Kind: ExportDefault}},
		},
		{
			name: "star re-export",
			src:  "export * from './dep';",
			want: []formSummary{{Kind: ExportStar, Source: "./dep", HasFrom: true}},
		},
		{
			name: "star as namespace",
			src:  "export * as ns from './dep';",
			want: []formSummary{{Kind: ExportStarAs, Source: "./dep", HasFrom: true, Alias: "ns"}},
		},
		{
			name: "mixed file keeps source order",
			src:  "export const a = 1;\nexport default a;\nexport * from './x';",
			want: []formSummary{
				{Kind: ExportNamedDecl, Names: []string{"a"}},
				{Kind: ExportDefault},
				{Kind: ExportStar, Source: "./x", HasFrom: true},
			},
		},
		{
			name:    "typescript interface and type alias",
			dialect: DialectTypeScript,
			src:     "export interface Shape {}\nexport type ID = string;",
			want: []formSummary{
				{Kind: ExportNamedDecl, Names: []string{"Shape"}},
				{Kind: ExportNamedDecl, Names: []string{"ID"}},
			},
		},
		{
			name:    "typescript enum",
			dialect: DialectTypeScript,
			src:     "export enum Color { Red, Green }",
			want:    []formSummary{{Kind: ExportNamedDecl, Names: []string{"Color"}}},
		},
		{
			name:    "typescript export equals",
			dialect: DialectTypeScript,
			src:     "const api = {};\nexport = api;",
			want: []formSummary{
				{Kind: ExportDefault},
			},
		},
		{
			name:    "typescript export declare",
			dialect: DialectTypeScript,
			src:     "export declare function init(): void;",
			want:    []formSummary{{Kind: ExportNamedDecl, Names: []string{"init"}}},
		},
		{
			name: "no exports",
			src:  "const a = 1;\nfunction f() {}",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseSrc(t, tt.src, Options{Dialect: tt.dialect})
			got := summarize(f.ExportForms())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExportForms() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExportFormLocalAlias(t *testing.T) {
	f := parseSrc(t, "const b = 1;\nexport { b as c };", Options{})
	forms := f.ExportForms()
	if len(forms) != 1 || len(forms[0].Bindings) != 1 {
		t.Fatalf("got %d forms", len(forms))
	}
	b := forms[0].Bindings[0]
	if b.Name != "c" || b.Local != "b" {
		t.Errorf("binding = {Name: %q, Local: %q}, want {c, b}", b.Name, b.Local)
	}
}

func TestNamespaceImport(t *testing.T) {
	f := parseSrc(t, "import * as utils from './utils';\nimport { a } from './a';", Options{})
	stmts := f.Statements()
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}

	local, source, ok := f.NamespaceImport(stmts[0])
	if !ok || local != "utils" || source != "./utils" {
		t.Errorf("NamespaceImport = (%q, %q, %v), want (utils, ./utils, true)", local, source, ok)
	}
	if _, _, ok := f.NamespaceImport(stmts[1]); ok {
		t.Error("named import misread as namespace import")
	}
}

func TestParseDiagnostics(t *testing.T) {
	f := parseSrc(t, "export const = ;\nexport const ok = 1;", Options{})
	if len(f.Diags) == 0 {
		t.Fatal("no diagnostics for invalid syntax")
	}
	if f.Diags[0].Line != 1 {
		t.Errorf("diagnostic line = %d, want 1", f.Diags[0].Line)
	}
}

func TestParseCleanFileHasNoDiagnostics(t *testing.T) {
	f := parseSrc(t, "export const a = 1;\n", Options{})
	if len(f.Diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", f.Diags)
	}
}

func TestParseUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.js")
	f := New().Parse(context.Background(), path, Options{})
	if f.Root != nil {
		t.Error("unreadable file produced a tree")
	}
	if len(f.Diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(f.Diags))
	}
	if f.Path != path {
		t.Errorf("Path = %q, want %q", f.Path, path)
	}
}

func TestCollectComments(t *testing.T) {
	src := "/** File doc. */\n\n/** Adds. */\nexport function add() {}\n"
	f := parseSrc(t, src, Options{AttachComments: true})
	if len(f.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(f.Comments))
	}
	if f.Comments[0].Text != "/** File doc. */" {
		t.Errorf("first comment = %q", f.Comments[0].Text)
	}

	bare := parseSrc(t, src, Options{AttachComments: false})
	if len(bare.Comments) != 0 {
		t.Errorf("comments collected despite AttachComments=false: %d", len(bare.Comments))
	}
}

func TestDialectForPath(t *testing.T) {
	tests := []struct {
		path string
		want Dialect
	}{
		{"a.js", DialectJavaScript},
		{"a.mjs", DialectJavaScript},
		{"a.cjs", DialectJavaScript},
		{"a.jsx", DialectJavaScript},
		{"a.ts", DialectTypeScript},
		{"a.mts", DialectTypeScript},
		{"a.tsx", DialectTSX},
		{"a.txt", DialectJavaScript},
	}
	for _, tt := range tests {
		if got := DialectForPath(tt.path); got != tt.want {
			t.Errorf("DialectForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

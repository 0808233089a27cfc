package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ExportKind is the closed set of export statement variants the builder
// recognizes. The analyzed module grammar is fixed, so dispatch is a tagged
// enum rather than open-ended node-type matching.
type ExportKind int

const (
	// ExportNamedDecl is `export const x = …`, `export function f() {}`,
	// `export class C {}` and the TypeScript declaration forms.
	ExportNamedDecl ExportKind = iota
	// ExportNamedList is `export { a, b as c }`, with or without `from`.
	ExportNamedList
	// ExportDefault is `export default …` and TypeScript `export = …`.
	ExportDefault
	// ExportStar is `export * from './x'`.
	ExportStar
	// ExportStarAs is `export * as ns from './x'`.
	ExportStarAs
)

// Binding is one exported name with the node that carries its source
// position. For chained variable declarations each declarator is its own
// binding so documentation lookups stay per-binding.
type Binding struct {
	Name  string
	Local string // pre-alias local name for list exports; "" when identical
	Decl  *sitter.Node
}

// ExportForm is one recognized export statement, normalized across the
// javascript, typescript and tsx grammars.
type ExportForm struct {
	Kind     ExportKind
	Bindings []Binding    // ExportNamedDecl, ExportNamedList
	Value    *sitter.Node // ExportDefault: exported declaration or expression
	Source   string       // re-export module specifier
	HasFrom  bool
	Alias    string // ExportStarAs: the namespace name
	Stmt     *sitter.Node
}

// ExportForms classifies the file's top-level export statements in source
// order. Unrecognized statements are skipped.
func (f *File) ExportForms() []ExportForm {
	var forms []ExportForm
	for _, stmt := range f.Statements() {
		if stmt.Type() != "export_statement" {
			continue
		}
		if form, ok := f.classifyExport(stmt); ok {
			forms = append(forms, form)
		}
	}
	return forms
}

func (f *File) classifyExport(stmt *sitter.Node) (ExportForm, bool) {
	form := ExportForm{Stmt: stmt}

	if src := stmt.ChildByFieldName("source"); src != nil {
		form.Source = f.stringValue(src)
		form.HasFrom = true
	}

	for i := 0; i < int(stmt.ChildCount()); i++ {
		child := stmt.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "namespace_export":
			// export * as ns from './x'
			form.Kind = ExportStarAs
			form.Alias = f.moduleExportName(child)
			return form, form.Alias != ""

		case "*":
			form.Kind = ExportStar
			return form, form.HasFrom

		case "default":
			form.Kind = ExportDefault
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				form.Value = decl
			} else if val := stmt.ChildByFieldName("value"); val != nil {
				form.Value = val
			}
			return form, true

		case "=":
			// TypeScript `export = expr`: the module's single export,
			// analyzed as the default binding.
			form.Kind = ExportDefault
			form.Value = lastNamedChild(stmt)
			return form, form.Value != nil

		case "export_clause":
			form.Kind = ExportNamedList
			form.Bindings = f.clauseBindings(child)
			return form, len(form.Bindings) > 0
		}
	}

	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		form.Kind = ExportNamedDecl
		form.Bindings = f.declarationBindings(decl)
		return form, len(form.Bindings) > 0
	}

	return form, false
}

// clauseBindings extracts `export { a, b as c }` specifiers. The exported
// name is the alias when present, otherwise the local name.
func (f *File) clauseBindings(clause *sitter.Node) []Binding {
	var bindings []Binding
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec == nil || spec.Type() != "export_specifier" {
			continue
		}
		name := spec.ChildByFieldName("name")
		if name == nil {
			continue
		}
		local := f.moduleExportNameText(name)
		exported := local
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			exported = f.moduleExportNameText(alias)
		}
		if exported == "" {
			continue
		}
		b := Binding{Name: exported, Decl: spec}
		if local != exported {
			b.Local = local
		}
		bindings = append(bindings, b)
	}
	return bindings
}

// declarationBindings extracts the names bound by an exported declaration.
func (f *File) declarationBindings(decl *sitter.Node) []Binding {
	switch decl.Type() {
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "abstract_class_declaration",
		"interface_declaration", "type_alias_declaration",
		"enum_declaration", "function_signature", "internal_module", "module":
		if name := decl.ChildByFieldName("name"); name != nil {
			return []Binding{{Name: f.Text(name), Decl: decl}}
		}
		return nil

	case "lexical_declaration", "variable_declaration":
		var bindings []Binding
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			declarator := decl.NamedChild(i)
			if declarator == nil || declarator.Type() != "variable_declarator" {
				continue
			}
			name := declarator.ChildByFieldName("name")
			for _, id := range f.patternIdentifiers(name) {
				bindings = append(bindings, Binding{Name: id, Decl: declarator})
			}
		}
		return bindings

	case "ambient_declaration":
		// TypeScript `export declare …` wraps the real declaration.
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			if inner := decl.NamedChild(i); inner != nil {
				if bindings := f.declarationBindings(inner); len(bindings) > 0 {
					return bindings
				}
			}
		}
		return nil
	}
	return nil
}

// patternIdentifiers collects the identifiers bound by a destructuring
// pattern, e.g. `export const {a, b: {c}, ...rest} = obj`.
func (f *File) patternIdentifiers(n *sitter.Node) []string {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{f.Text(n)}

	case "object_pattern", "array_pattern":
		var ids []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ids = append(ids, f.patternIdentifiers(n.NamedChild(i))...)
		}
		return ids

	case "pair_pattern":
		return f.patternIdentifiers(n.ChildByFieldName("value"))

	case "assignment_pattern", "object_assignment_pattern":
		return f.patternIdentifiers(n.ChildByFieldName("left"))

	case "rest_pattern":
		var ids []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ids = append(ids, f.patternIdentifiers(n.NamedChild(i))...)
		}
		return ids
	}
	return nil
}

// NamespaceImport reports whether stmt is `import * as local from 'source'`.
func (f *File) NamespaceImport(stmt *sitter.Node) (local, source string, ok bool) {
	if stmt.Type() != "import_statement" {
		return "", "", false
	}
	srcNode := stmt.ChildByFieldName("source")
	if srcNode == nil {
		return "", "", false
	}
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		clause := stmt.NamedChild(i)
		if clause == nil || clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			ns := clause.NamedChild(j)
			if ns == nil || ns.Type() != "namespace_import" {
				continue
			}
			for k := 0; k < int(ns.NamedChildCount()); k++ {
				if id := ns.NamedChild(k); id != nil && id.Type() == "identifier" {
					return f.Text(id), f.stringValue(srcNode), true
				}
			}
		}
	}
	return "", "", false
}

// moduleExportName extracts the exported name from a namespace_export node,
// which holds either an identifier or a string literal.
func (f *File) moduleExportName(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil {
			return f.moduleExportNameText(child)
		}
	}
	return ""
}

func (f *File) moduleExportNameText(n *sitter.Node) string {
	if n.Type() == "string" {
		return f.stringValue(n)
	}
	return f.Text(n)
}

// stringValue returns the unquoted content of a string literal node.
func (f *File) stringValue(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if frag := n.NamedChild(i); frag != nil && frag.Type() == "string_fragment" {
			return f.Text(frag)
		}
	}
	// Empty string literal has no fragment child.
	text := f.Text(n)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	return n.NamedChild(count - 1)
}

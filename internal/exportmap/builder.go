package exportmap

import (
	sitter "github.com/smacker/go-tree-sitter"

	"esmap/internal/jsdoc"
	"esmap/internal/parser"
)

// starLink is a deferred `export * from …`: the target's names are
// flattened into the map by the namespace resolver after the single pass.
type starLink struct {
	source string
	stmt   *sitter.Node
}

// nsLink marks an entry whose value is a module namespace; the resolver
// fills the entry's Namespace field with the target's map.
type nsLink struct {
	name   string
	source string
}

// buildResult carries the deferred work the namespace resolver completes.
type buildResult struct {
	stars      []starLink
	namespaces []nsLink
}

// build walks the file's top-level statements once, in source order, and
// fills m with one entry per exported binding. Star re-exports and
// namespace-valued entries are returned as deferred links.
func build(m *ExportMap, file *parser.File) buildResult {
	m.Errors = append(m.Errors, file.Diags...)

	docs := newDocIndex(file)
	m.Doc = docs.fileDoc()

	// `import * as ns from './x'` bindings, so namespace-valued exports
	// (`export default ns`, `export { ns }`) can be linked to their source.
	nsImports := make(map[string]string)
	for _, stmt := range file.Statements() {
		if local, source, ok := file.NamespaceImport(stmt); ok {
			nsImports[local] = source
		}
	}

	var res buildResult
	for _, form := range file.ExportForms() {
		switch form.Kind {
		case parser.ExportNamedDecl:
			for _, b := range form.Bindings {
				m.set(b.Name, &ExportEntry{
					Node: ref(file.Path, b.Decl),
					Doc:  docs.forBinding(form.Stmt, b.Decl),
				})
			}

		case parser.ExportNamedList:
			// Entries are created whether or not a `from` target exists:
			// `export { bar } from './missing'` still declares bar, which
			// is how intentionally-external modules pre-declare names.
			for _, b := range form.Bindings {
				m.set(b.Name, &ExportEntry{
					Node: ref(file.Path, b.Decl),
					Doc:  docs.forBinding(form.Stmt, b.Decl),
				})
				if !form.HasFrom {
					local := b.Local
					if local == "" {
						local = b.Name
					}
					if source, ok := nsImports[local]; ok {
						res.namespaces = append(res.namespaces, nsLink{name: b.Name, source: source})
					}
				}
			}

		case parser.ExportDefault:
			node := form.Value
			if node == nil {
				node = form.Stmt
			}
			m.set(DefaultName, &ExportEntry{
				Node: ref(file.Path, node),
				Doc:  docs.forBinding(form.Stmt, form.Stmt),
			})
			if form.Value != nil && form.Value.Type() == "identifier" {
				if source, ok := nsImports[file.Text(form.Value)]; ok {
					res.namespaces = append(res.namespaces, nsLink{name: DefaultName, source: source})
				}
			}

		case parser.ExportStar:
			res.stars = append(res.stars, starLink{source: form.Source, stmt: form.Stmt})

		case parser.ExportStarAs:
			m.set(form.Alias, &ExportEntry{
				Node: ref(file.Path, form.Stmt),
				Doc:  docs.forBinding(form.Stmt, form.Stmt),
			})
			res.namespaces = append(res.namespaces, nsLink{name: form.Alias, source: form.Source})
		}
	}

	return res
}

func ref(path string, n *sitter.Node) SourceRef {
	if n == nil {
		return SourceRef{Path: path, StartLine: 1, EndLine: 1}
	}
	return SourceRef{
		Path:      path,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
	}
}

// docIndex answers "which doc comment is attached to this declaration".
// A comment is attached when it directly precedes the declaration (ends on
// the line above or the same line) with no statement in between.
type docIndex struct {
	file     *parser.File
	comments []parser.Comment // whole tree, source order
	stmts    []*sitter.Node
}

func newDocIndex(file *parser.File) *docIndex {
	return &docIndex{
		file:     file,
		comments: allComments(file),
		stmts:    file.Statements(),
	}
}

// allComments walks the full tree: doc comments between chained variable
// declarators live inside the declaration node, not at top level.
func allComments(file *parser.File) []parser.Comment {
	if file.Root == nil {
		return nil
	}
	var comments []parser.Comment
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "comment" {
			comments = append(comments, parser.Comment{
				Text:      file.Text(n),
				StartByte: n.StartByte(),
				EndByte:   n.EndByte(),
				StartRow:  n.StartPoint().Row,
				EndRow:    n.EndPoint().Row,
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(file.Root)
	return comments
}

// fileDoc returns the module-level doc block: a leading doc comment that
// precedes the first statement but is not attached to it (separated by a
// blank line), or any leading doc comment in a file with no statements.
func (d *docIndex) fileDoc() *jsdoc.Block {
	if len(d.comments) == 0 {
		return nil
	}
	first := d.comments[0]
	if len(d.stmts) > 0 {
		stmt := d.stmts[0]
		if first.StartByte > stmt.StartByte() {
			return nil
		}
		if int(stmt.StartPoint().Row)-int(first.EndRow) <= 1 {
			// Directly precedes the first statement: attached there.
			return nil
		}
	}
	if block, ok := jsdoc.Parse(first.Text); ok {
		return block
	}
	return nil
}

// forBinding finds the doc block for one exported binding. A comment
// inside the statement directly preceding the binding's own declarator
// wins (chained `export const a = …, b = …` with per-binding docs);
// otherwise the comment directly preceding the whole statement applies.
func (d *docIndex) forBinding(stmt, decl *sitter.Node) *jsdoc.Block {
	if stmt == nil {
		return nil
	}
	if decl != nil && decl != stmt && decl.StartByte() > stmt.StartByte() {
		if c := d.precedingComment(decl.StartByte(), decl.StartPoint().Row); c != nil && c.StartByte > stmt.StartByte() {
			if block, ok := jsdoc.Parse(c.Text); ok {
				return block
			}
		}
	}
	c := d.precedingComment(stmt.StartByte(), stmt.StartPoint().Row)
	if c == nil {
		return nil
	}
	// No intervening statement: the next statement after the comment must
	// be this one.
	for _, s := range d.stmts {
		if s.StartByte() >= c.EndByte {
			if s.StartByte() != stmt.StartByte() {
				return nil
			}
			break
		}
	}
	if block, ok := jsdoc.Parse(c.Text); ok {
		return block
	}
	return nil
}

// precedingComment returns the last comment ending at or before startByte,
// provided it ends within one line of startRow. Only the nearest comment
// can directly precede a declaration.
func (d *docIndex) precedingComment(startByte uint32, startRow uint32) *parser.Comment {
	var last *parser.Comment
	for i := range d.comments {
		c := &d.comments[i]
		if c.EndByte > startByte {
			break
		}
		last = c
	}
	if last == nil || int(startRow)-int(last.EndRow) > 1 {
		return nil
	}
	return last
}

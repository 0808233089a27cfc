// Package parser wraps tree-sitter parsing of ECMAScript module sources.
//
// Three interchangeable grammar back-ends (javascript, typescript, tsx) are
// normalized behind one Parser type. Parsing never fails hard for bad input:
// syntax problems surface as Diagnostics on the returned File, and an
// unreadable file yields an empty File with a diagnostic, so callers always
// get a usable result.
package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// Options selects the grammar back-end and parse behavior for one file.
// Options participate in the analysis cache fingerprint: two different
// Options values never share cached results.
type Options struct {
	Dialect        Dialect `json:"dialect"`
	SourceType     string  `json:"sourceType"`     // "module", "script" or "unambiguous"
	AttachComments bool    `json:"attachComments"` // collect comment nodes for doc attachment
}

// DefaultOptions returns the options used when a caller passes the zero value.
func DefaultOptions() Options {
	return Options{
		Dialect:        DialectJavaScript,
		SourceType:     "module",
		AttachComments: true,
	}
}

func (o Options) withDefaults() Options {
	if o.Dialect == "" {
		o.Dialect = DialectJavaScript
	}
	if o.SourceType == "" {
		o.SourceType = "module"
	}
	return o
}

// Diagnostic is one recoverable parse problem in a file.
type Diagnostic struct {
	Message string `json:"message"`
	Line    int    `json:"line"` // 1-indexed
	Column  int    `json:"column"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Comment is a comment node with enough position information to decide
// whether it directly precedes a declaration.
type Comment struct {
	Text      string
	StartByte uint32
	EndByte   uint32
	StartRow  uint32
	EndRow    uint32
}

// File is the result of parsing one source file. Root is nil only when the
// file could not be read at all; Diags then explains why.
type File struct {
	Path     string
	Source   []byte
	Root     *sitter.Node
	Comments []Comment
	Diags    []Diagnostic
	Dialect  Dialect

	tree *sitter.Tree // keeps the tree alive alongside Root
}

// Parser parses ECMAScript sources with a dialect-selectable grammar.
type Parser struct {
	inner *sitter.Parser
}

// New creates a Parser.
func New() *Parser {
	return &Parser{inner: sitter.NewParser()}
}

// Parse reads and parses the file at path. It never returns an error for
// syntactically invalid input; problems are reported on File.Diags.
func (p *Parser) Parse(ctx context.Context, path string, opts Options) *File {
	source, err := os.ReadFile(path)
	if err != nil {
		return &File{
			Path:    path,
			Dialect: opts.withDefaults().Dialect,
			Diags: []Diagnostic{{
				Message: fmt.Sprintf("cannot read file: %v", err),
				Line:    1,
				Column:  1,
			}},
		}
	}
	return p.ParseSource(ctx, path, source, opts)
}

// ParseSource parses source bytes already in memory.
func (p *Parser) ParseSource(ctx context.Context, path string, source []byte, opts Options) *File {
	opts = opts.withDefaults()

	f := &File{
		Path:    path,
		Source:  source,
		Dialect: opts.Dialect,
	}

	lang, err := language(opts.Dialect)
	if err != nil {
		f.Diags = append(f.Diags, Diagnostic{Message: err.Error(), Line: 1, Column: 1})
		return f
	}

	p.inner.SetLanguage(lang)
	tree, err := p.inner.ParseCtx(ctx, nil, source)
	if err != nil {
		f.Diags = append(f.Diags, Diagnostic{
			Message: fmt.Sprintf("parse failed: %v", err),
			Line:    1,
			Column:  1,
		})
		return f
	}

	f.tree = tree
	f.Root = tree.RootNode()
	f.Diags = append(f.Diags, collectDiags(f.Root, source)...)
	if opts.AttachComments {
		f.Comments = collectComments(f.Root, source)
	}
	return f
}

// collectDiags walks the tree for ERROR and MISSING nodes, which tree-sitter
// inserts for recoverable syntax errors.
func collectDiags(root *sitter.Node, source []byte) []Diagnostic {
	var diags []Diagnostic

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.IsError() || n.IsMissing() {
			msg := "syntax error"
			if n.IsMissing() {
				msg = fmt.Sprintf("missing %s", n.Type())
			} else if text := nodeText(n, source); text != "" && len(text) <= 40 {
				msg = fmt.Sprintf("syntax error near %q", text)
			}
			diags = append(diags, Diagnostic{
				Message: msg,
				Line:    int(n.StartPoint().Row) + 1,
				Column:  int(n.StartPoint().Column) + 1,
			})
			return // children of an ERROR node are noise
		}
		if !n.HasError() {
			return // no errors anywhere below
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return diags
}

// collectComments gathers top-level comment nodes in source order. Doc
// attachment only considers comments that are siblings of the statements
// they precede, so nested comments are not collected.
func collectComments(root *sitter.Node, source []byte) []Comment {
	var comments []Comment
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil || child.Type() != "comment" {
			continue
		}
		comments = append(comments, Comment{
			Text:      nodeText(child, source),
			StartByte: child.StartByte(),
			EndByte:   child.EndByte(),
			StartRow:  child.StartPoint().Row,
			EndRow:    child.EndPoint().Row,
		})
	}
	return comments
}

func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// Text returns the source text of a node in this file.
func (f *File) Text(n *sitter.Node) string {
	return nodeText(n, f.Source)
}

// Statements returns the top-level statement nodes of the file in source
// order, skipping comments. Returns nil for an unreadable file.
func (f *File) Statements() []*sitter.Node {
	if f.Root == nil {
		return nil
	}
	var stmts []*sitter.Node
	for i := 0; i < int(f.Root.ChildCount()); i++ {
		child := f.Root.Child(i)
		if child == nil || child.Type() == "comment" || child.Type() == "hash_bang_line" {
			continue
		}
		stmts = append(stmts, child)
	}
	return stmts
}

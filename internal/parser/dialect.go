package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect identifies a grammar back-end. The three grammars differ in AST
// shape for some constructs; the accessors in exports.go hide that.
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
)

// ParseDialect validates a dialect string from configuration.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(s)) {
	case DialectJavaScript:
		return DialectJavaScript, nil
	case DialectTypeScript:
		return DialectTypeScript, nil
	case DialectTSX:
		return DialectTSX, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (want javascript, typescript or tsx)", s)
	}
}

// DialectForPath guesses the dialect from a file extension, defaulting to
// javascript for unknown extensions.
func DialectForPath(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".tsx":
		return DialectTSX
	default:
		return DialectJavaScript
	}
}

func language(d Dialect) (*sitter.Language, error) {
	switch d {
	case DialectJavaScript, "":
		return javascript.GetLanguage(), nil
	case DialectTypeScript:
		return typescript.GetLanguage(), nil
	case DialectTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", d)
	}
}

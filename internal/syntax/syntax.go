// Package syntax glues internal/lexer and internal/parser behind the
// single external-collaborator boundary the query engine depends on:
// turning a file's contents into an ast.File plus diagnostics. The core
// never imports internal/lexer or internal/parser directly, only this
// interface, so a host embedding the query engine can swap in a
// different front end without touching anything downstream of HIR.
package syntax

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/parser"
)

// Parser turns a file's path, contents, and dialect into a parse tree.
// It never fails outright: malformed input lowers to BadExpr/empty-body
// placeholders plus diagnostics, so the query engine always has a File
// to build a HIR module from, even one riddled with parse errors.
type Parser interface {
	Parse(path, contents string, dialect ast.Dialect) (*ast.File, []errors.Diagnostic)
}

// DefaultParser is the reference Parser backed by internal/lexer and
// internal/parser.
type DefaultParser struct{}

// Parse implements Parser.
func (DefaultParser) Parse(path, contents string, dialect ast.Dialect) (*ast.File, []errors.Diagnostic) {
	return parser.Parse(path, contents, dialect)
}

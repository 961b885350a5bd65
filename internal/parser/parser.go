// Package parser implements a recursive-descent, tolerant-of-errors
// parser from lexer.Token streams to internal/ast trees. It never panics
// on malformed input: a syntactically broken construct lowers to a
// BadExpr/empty-body placeholder and a diagnostic, and parsing continues
// from the next likely statement boundary, the way spec.md §4.2 requires
// lowering to stay "total".
package parser

import (
	"fmt"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/lexer"
)

func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// Parser holds the full pre-lexed token buffer for one file plus the
// cursor and diagnostics accumulated so far. Pre-lexing the whole file up
// front (rather than streaming) keeps lookahead for the parser's
// postfix/ternary grammar trivial.
type Parser struct {
	path    string
	dialect ast.Dialect
	toks    []lexer.Token
	pos     int
	li      *ast.LineIndex
	diags   []errors.Diagnostic
}

// New tokenizes src in full and returns a Parser ready to produce a File.
func New(path string, src string, dialect ast.Dialect) *Parser {
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return &Parser{path: path, dialect: dialect, toks: toks, li: ast.NewLineIndex(src)}
}

// Diagnostics returns every diagnostic collected while parsing.
func (p *Parser) Diagnostics() []errors.Diagnostic {
	return p.diags
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise records a
// PAR001/PAR002 diagnostic and returns the unconsumed current token so
// the caller can still read its position for span-building.
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.at(tt) {
		return p.advance()
	}
	tok := p.cur()
	code := errors.PAR001
	if tt == lexer.RPAREN || tt == lexer.RBRACK || tt == lexer.RBRACE {
		code = errors.PAR002
	}
	p.errorf(code, p.spanAt(tok), "expected %s, found %s %q", tt, tok.Type, tok.Literal)
	return tok
}

func (p *Parser) errorf(code string, span ast.Span, format string, args ...interface{}) {
	p.diags = append(p.diags, errors.Diagnostic{
		Kind:     code,
		Severity: errors.SeverityError,
		Message:  sprintf(format, args...),
		Span:     span,
	})
}

func (p *Parser) spanAt(tok lexer.Token) ast.Span {
	start := ast.Pos{Line: tok.Line, Column: tok.Column, Offset: tok.Offset}
	end := ast.Pos{Line: tok.Line, Column: tok.Column + len(tok.Literal), Offset: tok.Offset + len(tok.Literal)}
	return ast.Span{Start: start, End: end}
}

func (p *Parser) spanFrom(startTok lexer.Token) ast.Span {
	start := ast.Pos{Line: startTok.Line, Column: startTok.Column, Offset: startTok.Offset}
	endTok := p.toks[max(0, p.pos-1)]
	end := ast.Pos{Line: endTok.Line, Column: endTok.Column + len(endTok.Literal), Offset: endTok.Offset + len(endTok.Literal)}
	return ast.Span{Start: start, End: end}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// skipNewlines consumes any run of NEWLINE tokens, used at points where a
// blank logical line is legal but carries no meaning (top level, suite
// start).
func (p *Parser) skipNewlines() {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
}

// synchronize advances past tokens until a likely statement boundary
// (NEWLINE or DEDENT or EOF), so one malformed statement doesn't cascade
// into spurious errors for the rest of the file.
func (p *Parser) synchronize() {
	for !p.at(lexer.NEWLINE) && !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
		p.advance()
	}
	if p.at(lexer.NEWLINE) {
		p.advance()
	}
}

// ParseFile parses the full token stream into a File.
func (p *Parser) ParseFile() *ast.File {
	startTok := p.cur()
	p.skipNewlines()
	stmts := p.parseStmtList(lexer.EOF)
	last := p.toks[len(p.toks)-1]
	span := ast.Span{
		Start: ast.Pos{Line: startTok.Line, Column: startTok.Column, Offset: startTok.Offset},
		End:   ast.Pos{Line: last.Line, Column: last.Column, Offset: last.Offset},
	}
	return ast.NewFile(span, p.path, p.dialect, stmts)
}

// Parse is the convenience entry point: tokenize+parse src in one call.
func Parse(path, src string, dialect ast.Dialect) (*ast.File, []errors.Diagnostic) {
	p := New(path, src, dialect)
	f := p.ParseFile()
	return f, p.Diagnostics()
}

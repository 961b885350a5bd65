package parser

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/lexer"
)

// parseStmtList parses statements until the current token is stop or EOF.
// It is used both for the top-level program and for a suite's body (with
// stop == DEDENT).
func (p *Parser) parseStmtList(stop lexer.TokenType) []ast.Stmt {
	var out []ast.Stmt
	for !p.at(stop) && !p.at(lexer.EOF) {
		if p.at(lexer.NEWLINE) {
			p.advance()
			continue
		}
		out = append(out, p.parseStatement()...)
	}
	return out
}

// parseSuite parses `: NEWLINE INDENT stmt+ DEDENT`.
func (p *Parser) parseSuite() []ast.Stmt {
	p.expect(lexer.COLON)
	if !p.at(lexer.NEWLINE) {
		// Tolerate a same-line body by treating the rest of the line as a
		// single simple-statement suite instead of cascading errors.
		return p.parseSimpleStmtLine()
	}
	p.advance()
	if !p.at(lexer.INDENT) {
		p.errorf(errors.PAR003, p.spanAt(p.cur()), "expected an indented block")
		return nil
	}
	p.advance()
	body := p.parseStmtList(lexer.DEDENT)
	if p.at(lexer.DEDENT) {
		p.advance()
	}
	return body
}

// parseStatement parses one compound statement, or every small_stmt on one
// simple-statement line.
func (p *Parser) parseStatement() []ast.Stmt {
	switch p.cur().Type {
	case lexer.DEF:
		return []ast.Stmt{p.parseDef()}
	case lexer.IF:
		return []ast.Stmt{p.parseIf()}
	case lexer.FOR:
		return []ast.Stmt{p.parseFor()}
	default:
		return p.parseSimpleStmtLine()
	}
}

func (p *Parser) parseDef() ast.Stmt {
	startTok := p.advance() // 'def'
	name := ""
	if p.at(lexer.IDENT) {
		name = p.advance().Literal
	} else {
		p.errorf(errors.PAR003, p.spanAt(p.cur()), "expected function name after 'def'")
	}
	params := p.parseParamList()
	body := p.parseSuite()
	return ast.NewDefStmt(p.spanFrom(startTok), name, params, body)
}

// parseParamList parses `( [param (, param)* [,]] )`.
func (p *Parser) parseParamList() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		param := p.parseParam()
		if p.at(lexer.COLON) {
			// Annotation: a string literal becomes the TypeRef; any other expression is parsed and dropped.
			p.advance()
			if p.at(lexer.STRING) {
				param.TypeRef = p.advance().Literal
			} else {
				p.parseTest()
			}
			if param.PKind == ast.ParamSimple && p.at(lexer.ASSIGN) {
				p.advance()
				param.Default = p.parseTest()
			}
		}
		params = append(params, param)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseParam() *ast.Param {
	startTok := p.cur()
	if p.at(lexer.STAR) {
		p.advance()
		if p.at(lexer.STAR) {
			p.advance()
			name := p.identOrBad()
			return ast.NewParam(p.spanFrom(startTok), ast.ParamKwargsList, name, "", nil)
		}
		name := p.identOrBad()
		return ast.NewParam(p.spanFrom(startTok), ast.ParamArgsList, name, "", nil)
	}
	name := p.identOrBad()
	var def ast.Expr
	if p.at(lexer.ASSIGN) {
		p.advance()
		def = p.parseTest()
	}
	return ast.NewParam(p.spanFrom(startTok), ast.ParamSimple, name, "", def)
}

func (p *Parser) identOrBad() string {
	if p.at(lexer.IDENT) {
		return p.advance().Literal
	}
	p.errorf(errors.PAR003, p.spanAt(p.cur()), "expected identifier, found %s", p.cur().Type)
	return ""
}

func (p *Parser) parseIf() ast.Stmt {
	startTok := p.advance() // 'if'
	test := p.parseTest()
	body := p.parseSuite()
	stmt := ast.NewIfStmt(p.spanFrom(startTok), test, body, nil, nil)
	switch p.cur().Type {
	case lexer.ELIF:
		elifStart := p.cur()
		p.advance()
		elifTest := p.parseTest()
		elifBody := p.parseSuite()
		elif := p.parseElifOrElseTail(elifStart, elifTest, elifBody)
		return ast.NewIfStmt(stmt.Span(), test, body, elif, nil)
	case lexer.ELSE:
		p.advance()
		elseBody := p.parseSuite()
		return ast.NewIfStmt(stmt.Span(), test, body, nil, elseBody)
	default:
		return stmt
	}
}

// parseElifOrElseTail builds the *ast.IfStmt for an already-consumed elif
// clause, recursing to pick up any further elif/else chained after it.
func (p *Parser) parseElifOrElseTail(startTok lexer.Token, test ast.Expr, body []ast.Stmt) *ast.IfStmt {
	switch p.cur().Type {
	case lexer.ELIF:
		nextStart := p.cur()
		p.advance()
		nextTest := p.parseTest()
		nextBody := p.parseSuite()
		nested := p.parseElifOrElseTail(nextStart, nextTest, nextBody)
		return ast.NewIfStmt(p.spanFrom(startTok), test, body, nested, nil)
	case lexer.ELSE:
		p.advance()
		elseBody := p.parseSuite()
		return ast.NewIfStmt(p.spanFrom(startTok), test, body, nil, elseBody)
	default:
		return ast.NewIfStmt(p.spanFrom(startTok), test, body, nil, nil)
	}
}

func (p *Parser) parseFor() ast.Stmt {
	startTok := p.advance() // 'for'
	targets := p.parseTargetList()
	p.expect(lexer.IN)
	iterable := p.parseExprList()
	body := p.parseSuite()
	return ast.NewForStmt(p.spanFrom(startTok), targets, iterable, body)
}

// parseTargetList parses a comma-separated list of assignment/for targets.
func (p *Parser) parseTargetList() []ast.Expr {
	var targets []ast.Expr
	targets = append(targets, p.parsePostfix())
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.IN) || p.at(lexer.COLON) {
			break
		}
		targets = append(targets, p.parsePostfix())
	}
	return targets
}

// parseSimpleStmtLine parses `small_stmt (';' small_stmt)* [';'] NEWLINE`.
func (p *Parser) parseSimpleStmtLine() []ast.Stmt {
	var out []ast.Stmt
	for {
		out = append(out, p.parseSmallStmt())
		if p.at(lexer.SEMI) {
			p.advance()
			if p.at(lexer.NEWLINE) || p.at(lexer.EOF) || p.at(lexer.DEDENT) {
				break
			}
			continue
		}
		break
	}
	if p.at(lexer.NEWLINE) {
		p.advance()
	} else if !p.at(lexer.EOF) && !p.at(lexer.DEDENT) {
		p.errorf(errors.PAR001, p.spanAt(p.cur()), "expected newline, found %s %q", p.cur().Type, p.cur().Literal)
		p.synchronize()
	}
	return out
}

func (p *Parser) parseSmallStmt() ast.Stmt {
	startTok := p.cur()
	switch p.cur().Type {
	case lexer.RETURN:
		p.advance()
		if p.at(lexer.NEWLINE) || p.at(lexer.SEMI) || p.at(lexer.EOF) || p.at(lexer.DEDENT) {
			return ast.NewReturnStmt(p.spanFrom(startTok), nil)
		}
		x := p.parseExprList()
		return ast.NewReturnStmt(p.spanFrom(startTok), x)
	case lexer.BREAK:
		p.advance()
		return ast.NewBreakStmt(p.spanFrom(startTok))
	case lexer.CONTINUE:
		p.advance()
		return ast.NewContinueStmt(p.spanFrom(startTok))
	case lexer.PASS:
		p.advance()
		return ast.NewPassStmt(p.spanFrom(startTok))
	case lexer.LOAD:
		return p.parseLoad()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseAssignOrExprStmt() ast.Stmt {
	startTok := p.cur()
	lhs := p.parseExprList()
	if p.at(lexer.ASSIGN) {
		p.advance()
		rhs := p.parseExprList()
		return ast.NewAssignStmt(p.spanFrom(startTok), lhs, rhs)
	}
	return ast.NewExprStmt(p.spanFrom(startTok), lhs)
}

// parseLoad parses `load("module/path", "a", b = "c", ...)`.
func (p *Parser) parseLoad() ast.Stmt {
	startTok := p.advance() // 'load'
	p.expect(lexer.LPAREN)

	modulePath := ""
	if p.at(lexer.STRING) {
		modulePath = p.advance().Literal
	} else {
		p.errorf(errors.PAR005, p.spanAt(p.cur()), "load() requires a string module path")
	}

	var items []*ast.LoadItem
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RPAREN) {
			break
		}
		items = append(items, p.parseLoadItem())
	}
	p.expect(lexer.RPAREN)
	return ast.NewLoadStmt(p.spanFrom(startTok), modulePath, items)
}

func (p *Parser) parseLoadItem() *ast.LoadItem {
	itemStart := p.cur()
	if p.at(lexer.STRING) {
		name := p.advance().Literal
		return ast.NewLoadItem(p.spanFrom(itemStart), name, name)
	}
	if p.at(lexer.IDENT) {
		local := p.advance().Literal
		p.expect(lexer.ASSIGN)
		source := local
		if p.at(lexer.STRING) {
			source = p.advance().Literal
		} else {
			p.errorf(errors.PAR005, p.spanAt(p.cur()), "load() item must bind to a string name")
		}
		return ast.NewLoadItem(p.spanFrom(itemStart), local, source)
	}
	p.errorf(errors.PAR005, p.spanAt(p.cur()), "invalid load() item")
	p.advance()
	return ast.NewLoadItem(p.spanFrom(itemStart), "", "")
}

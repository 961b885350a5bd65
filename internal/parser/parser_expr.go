package parser

import (
	"strconv"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/lexer"
)

// parseExprList parses a comma-separated list of test expressions. A
// single element is returned as-is; more than one (or a trailing comma)
// is wrapped in an implicit Tuple, matching Starlark's bare-tuple literal
// rule (`x, y = 1, 2`).
func (p *Parser) parseExprList() ast.Expr {
	startTok := p.cur()
	first := p.parseTest()
	if !p.at(lexer.COMMA) {
		return first
	}
	elems := []ast.Expr{first}
	trailingComma := false
	for p.at(lexer.COMMA) {
		p.advance()
		trailingComma = true
		if p.atExprListEnd() {
			break
		}
		elems = append(elems, p.parseTest())
		trailingComma = false
	}
	_ = trailingComma
	return ast.NewTuple(p.spanFrom(startTok), elems)
}

func (p *Parser) atExprListEnd() bool {
	switch p.cur().Type {
	case lexer.NEWLINE, lexer.SEMI, lexer.EOF, lexer.DEDENT, lexer.ASSIGN, lexer.COLON,
		lexer.RPAREN, lexer.RBRACK, lexer.RBRACE, lexer.IN:
		return true
	default:
		return false
	}
}

// parseTest parses `or_expr ['if' or_expr 'else' test]`.
func (p *Parser) parseTest() ast.Expr {
	startTok := p.cur()
	expr := p.parseOrExpr()
	if p.at(lexer.IF) {
		p.advance()
		cond := p.parseOrExpr()
		p.expect(lexer.ELSE)
		elseExpr := p.parseTest()
		return ast.NewIfExpr(p.spanFrom(startTok), cond, expr, elseExpr)
	}
	return expr
}

func (p *Parser) parseOrExpr() ast.Expr {
	startTok := p.cur()
	left := p.parseAndExpr()
	for p.at(lexer.OR) {
		p.advance()
		right := p.parseAndExpr()
		left = ast.NewBinary(p.spanFrom(startTok), ast.OpOr, left, right)
	}
	return left
}

func (p *Parser) parseAndExpr() ast.Expr {
	startTok := p.cur()
	left := p.parseNotExpr()
	for p.at(lexer.AND) {
		p.advance()
		right := p.parseNotExpr()
		left = ast.NewBinary(p.spanFrom(startTok), ast.OpAnd, left, right)
	}
	return left
}

func (p *Parser) parseNotExpr() ast.Expr {
	if p.at(lexer.NOT) {
		startTok := p.advance()
		x := p.parseNotExpr()
		return ast.NewUnary(p.spanFrom(startTok), ast.OpNot, x)
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expr {
	startTok := p.cur()
	left := p.parseBitOr()
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		right := p.parseBitOr()
		left = ast.NewBinary(p.spanFrom(startTok), op, left, right)
	}
	return left
}

func (p *Parser) compareOp() (ast.BinaryOp, bool) {
	switch p.cur().Type {
	case lexer.EQ:
		p.advance()
		return ast.OpEq, true
	case lexer.NE:
		p.advance()
		return ast.OpNe, true
	case lexer.LT:
		p.advance()
		return ast.OpLt, true
	case lexer.LE:
		p.advance()
		return ast.OpLe, true
	case lexer.GT:
		p.advance()
		return ast.OpGt, true
	case lexer.GE:
		p.advance()
		return ast.OpGe, true
	case lexer.IN:
		p.advance()
		return ast.OpIn, true
	case lexer.NOT:
		if p.peek(1).Type == lexer.IN {
			p.advance()
			p.advance()
			return ast.OpNotIn, true
		}
		return ast.OpBinaryUnknown, false
	default:
		return ast.OpBinaryUnknown, false
	}
}

func (p *Parser) parseBitOr() ast.Expr {
	startTok := p.cur()
	left := p.parseBitXor()
	for p.at(lexer.PIPE) {
		p.advance()
		right := p.parseBitXor()
		left = ast.NewBinary(p.spanFrom(startTok), ast.OpBitOr, left, right)
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expr {
	startTok := p.cur()
	left := p.parseBitAnd()
	for p.at(lexer.CARET) {
		p.advance()
		right := p.parseBitAnd()
		left = ast.NewBinary(p.spanFrom(startTok), ast.OpBitXor, left, right)
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	startTok := p.cur()
	left := p.parseShift()
	for p.at(lexer.AMP) {
		p.advance()
		right := p.parseShift()
		left = ast.NewBinary(p.spanFrom(startTok), ast.OpBitAnd, left, right)
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	startTok := p.cur()
	left := p.parseAddSub()
	for p.at(lexer.SHL) || p.at(lexer.SHR) {
		op := ast.OpShiftLeft
		if p.cur().Type == lexer.SHR {
			op = ast.OpShiftRight
		}
		p.advance()
		right := p.parseAddSub()
		left = ast.NewBinary(p.spanFrom(startTok), op, left, right)
	}
	return left
}

func (p *Parser) parseAddSub() ast.Expr {
	startTok := p.cur()
	left := p.parseMulDiv()
	for p.at(lexer.PLUS) || p.at(lexer.MINUS) {
		op := ast.OpAdd
		if p.cur().Type == lexer.MINUS {
			op = ast.OpSub
		}
		p.advance()
		right := p.parseMulDiv()
		left = ast.NewBinary(p.spanFrom(startTok), op, left, right)
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expr {
	startTok := p.cur()
	left := p.parseUnary()
	for {
		var op ast.BinaryOp
		switch p.cur().Type {
		case lexer.STAR:
			op = ast.OpMul
		case lexer.SLASH:
			op = ast.OpDiv
		case lexer.DSLASH:
			op = ast.OpFloorDiv
		case lexer.PERCENT:
			op = ast.OpMod
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		left = ast.NewBinary(p.spanFrom(startTok), op, left, right)
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Type {
	case lexer.MINUS:
		startTok := p.advance()
		x := p.parseUnary()
		return ast.NewUnary(p.spanFrom(startTok), ast.OpNeg, x)
	case lexer.PLUS:
		startTok := p.advance()
		x := p.parseUnary()
		return ast.NewUnary(p.spanFrom(startTok), ast.OpPos, x)
	case lexer.TILDE:
		startTok := p.advance()
		x := p.parseUnary()
		return ast.NewUnary(p.spanFrom(startTok), ast.OpInvert, x)
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	startTok := p.cur()
	x := p.parseAtom()
	for {
		switch p.cur().Type {
		case lexer.DOT:
			p.advance()
			if p.at(lexer.IDENT) {
				name := p.advance().Literal
				x = ast.NewDot(p.spanFrom(startTok), x, name, true)
			} else {
				p.errorf(errors.PAR004, p.spanAt(p.cur()), "expected field name after '.'")
				x = ast.NewDot(p.spanFrom(startTok), x, "", false)
			}
		case lexer.LPAREN:
			args := p.parseArgs()
			x = ast.NewCall(p.spanFrom(startTok), x, args)
		case lexer.LBRACK:
			p.advance()
			idx := p.parseTest()
			p.expect(lexer.RBRACK)
			x = ast.NewIndex(p.spanFrom(startTok), x, idx)
		default:
			return x
		}
	}
}

func (p *Parser) parseArgs() []ast.Argument {
	p.expect(lexer.LPAREN)
	var args []ast.Argument
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		args = append(args, p.parseOneArg())
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parseOneArg() ast.Argument {
	if p.at(lexer.STAR) && p.peek(1).Type == lexer.STAR {
		p.advance()
		p.advance()
		return ast.Argument{ArgKind: ast.ArgUnpackedDict, X: p.parseTest()}
	}
	if p.at(lexer.STAR) {
		p.advance()
		return ast.Argument{ArgKind: ast.ArgUnpackedList, X: p.parseTest()}
	}
	if p.at(lexer.IDENT) && p.peek(1).Type == lexer.ASSIGN {
		name := p.advance().Literal
		p.advance() // '='
		return ast.Argument{ArgKind: ast.ArgKeyword, Name: name, X: p.parseTest()}
	}
	return ast.Argument{ArgKind: ast.ArgSimple, X: p.parseTest()}
}

func (p *Parser) parseAtom() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case lexer.IDENT:
		p.advance()
		return ast.NewName(p.spanAt(tok), tok.Literal)
	case lexer.INT:
		p.advance()
		v, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return ast.NewLiteral(p.spanAt(tok), ast.IntLit, v)
	case lexer.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		return ast.NewLiteral(p.spanAt(tok), ast.FloatLit, v)
	case lexer.STRING:
		p.advance()
		return ast.NewLiteral(p.spanAt(tok), ast.StringLit, tok.Literal)
	case lexer.BYTES:
		p.advance()
		return ast.NewLiteral(p.spanAt(tok), ast.BytesLit, []byte(tok.Literal))
	case lexer.TRUE:
		p.advance()
		return ast.NewLiteral(p.spanAt(tok), ast.BoolLit, true)
	case lexer.FALSE:
		p.advance()
		return ast.NewLiteral(p.spanAt(tok), ast.BoolLit, false)
	case lexer.NONE:
		p.advance()
		return ast.NewLiteral(p.spanAt(tok), ast.NoneLit, nil)
	case lexer.LPAREN:
		return p.parseParenOrTuple()
	case lexer.LBRACK:
		return p.parseListOrComp()
	case lexer.LBRACE:
		return p.parseDictOrComp()
	case lexer.LAMBDA:
		return p.parseLambda()
	default:
		p.errorf(errors.PAR004, p.spanAt(tok), "unexpected token %s %q in expression", tok.Type, tok.Literal)
		if tok.Type != lexer.EOF {
			p.advance()
		}
		return ast.NewBadExpr(p.spanAt(tok))
	}
}

func (p *Parser) parseParenOrTuple() ast.Expr {
	startTok := p.advance() // '('
	if p.at(lexer.RPAREN) {
		p.advance()
		return ast.NewTuple(p.spanFrom(startTok), nil)
	}
	first := p.parseTest()
	if p.at(lexer.COMMA) {
		elems := []ast.Expr{first}
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RPAREN) {
				break
			}
			elems = append(elems, p.parseTest())
		}
		p.expect(lexer.RPAREN)
		return ast.NewTuple(p.spanFrom(startTok), elems)
	}
	p.expect(lexer.RPAREN)
	return ast.NewParen(p.spanFrom(startTok), first)
}

func (p *Parser) parseListOrComp() ast.Expr {
	startTok := p.advance() // '['
	if p.at(lexer.RBRACK) {
		p.advance()
		return ast.NewList(p.spanFrom(startTok), nil)
	}
	first := p.parseTest()
	if p.at(lexer.FOR) {
		clauses := p.parseCompClauses()
		p.expect(lexer.RBRACK)
		return ast.NewListComp(p.spanFrom(startTok), first, clauses)
	}
	elems := []ast.Expr{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACK) {
			break
		}
		elems = append(elems, p.parseTest())
	}
	p.expect(lexer.RBRACK)
	return ast.NewList(p.spanFrom(startTok), elems)
}

func (p *Parser) parseDictOrComp() ast.Expr {
	startTok := p.advance() // '{'
	if p.at(lexer.RBRACE) {
		p.advance()
		return ast.NewDict(p.spanFrom(startTok), nil)
	}
	firstKey := p.parseTest()
	p.expect(lexer.COLON)
	firstVal := p.parseTest()
	if p.at(lexer.FOR) {
		clauses := p.parseCompClauses()
		p.expect(lexer.RBRACE)
		return ast.NewDictComp(p.spanFrom(startTok), firstKey, firstVal, clauses)
	}
	entries := []ast.DictEntry{{Key: firstKey, Value: firstVal}}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACE) {
			break
		}
		k := p.parseTest()
		p.expect(lexer.COLON)
		v := p.parseTest()
		entries = append(entries, ast.DictEntry{Key: k, Value: v})
	}
	p.expect(lexer.RBRACE)
	return ast.NewDict(p.spanFrom(startTok), entries)
}

// parseCompClauses parses one or more `for target in iter` / `if test`
// clauses following the first `for` of a comprehension.
func (p *Parser) parseCompClauses() []ast.CompClause {
	var clauses []ast.CompClause
	for {
		switch p.cur().Type {
		case lexer.FOR:
			p.advance()
			targets := p.parseTargetList()
			p.expect(lexer.IN)
			iterable := p.parseOrExpr()
			clauses = append(clauses, ast.CompClause{ClauseKind: ast.CompFor, Targets: targets, Iterable: iterable})
		case lexer.IF:
			p.advance()
			test := p.parseOrExpr()
			clauses = append(clauses, ast.CompClause{ClauseKind: ast.CompIf, Test: test})
		default:
			return clauses
		}
	}
}

func (p *Parser) parseLambda() ast.Expr {
	startTok := p.advance() // 'lambda'
	var params []*ast.Param
	for !p.at(lexer.COLON) && !p.at(lexer.EOF) {
		params = append(params, p.parseParam())
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.COLON)
	body := p.parseTest()
	return ast.NewLambda(p.spanFrom(startTok), params, body)
}

package hir

import "github.com/starlark-lsp/semcore/internal/ast"

// lowerer holds the in-progress arenas and source map for one Lower
// call. It is discarded once lowering finishes; nothing about it
// survives into the returned ModuleInfo except what was appended to mod
// and sm.
type lowerer struct {
	mod *Module
	sm  *SourceMap
}

// Lower walks a parsed file and produces its HIR: three dense arenas
// plus a bidirectional source map. Lowering is total on any syntactically
// valid tree and tolerant of error nodes — there is no failure return,
// matching spec.md §4.2 ("No semantic checking happens here").
func Lower(file *ast.File) *ModuleInfo {
	l := &lowerer{mod: &Module{}, sm: newSourceMap()}
	top := make([]StmtId, len(file.TopLevel))
	for i, s := range file.TopLevel {
		top[i] = l.lowerStmt(s)
	}
	l.mod.TopLevel = top
	return &ModuleInfo{File: file, Module: l.mod, SourceMap: l.sm}
}

func (l *lowerer) allocExpr(ptr ast.AstPtr, record bool, build func(ExprId) Expr) ExprId {
	id := ExprId(len(l.mod.Exprs))
	l.mod.Exprs = append(l.mod.Exprs, build(id))
	l.sm.exprBack = append(l.sm.exprBack, ptr)
	if record {
		l.sm.exprFwd[ptr] = id
	}
	return id
}

func (l *lowerer) allocStmt(ptr ast.AstPtr, build func(StmtId) Stmt) StmtId {
	id := StmtId(len(l.mod.Stmts))
	l.mod.Stmts = append(l.mod.Stmts, build(id))
	l.sm.stmtBack = append(l.sm.stmtBack, ptr)
	l.sm.stmtFwd[ptr] = id
	return id
}

func (l *lowerer) allocParam(ptr ast.AstPtr, p Param) ParamId {
	id := ParamId(len(l.mod.Params))
	p.id = id
	l.mod.Params = append(l.mod.Params, p)
	l.sm.paramBack = append(l.sm.paramBack, ptr)
	l.sm.paramFwd[ptr] = id
	return id
}

func (l *lowerer) allocLoadItem(ptr ast.AstPtr, it LoadItem) LoadItemId {
	id := LoadItemId(len(l.mod.LoadItems))
	it.id = id
	l.mod.LoadItems = append(l.mod.LoadItems, it)
	l.sm.loadItemBack = append(l.sm.loadItemBack, ptr)
	l.sm.loadItemFwd[ptr] = id
	return id
}

// lowerExpr lowers e, or allocates an unregistered Unknown placeholder
// if e is nil (an intentionally-absent optional child, not an AstPtr
// lowering could ever be asked to round-trip).
func (l *lowerer) lowerExpr(e ast.Expr) ExprId {
	if e == nil {
		return l.allocExpr(ast.AstPtr{}, false, func(id ExprId) Expr { return &Unknown{exprBase{id}} })
	}
	ptr := ast.PtrOf(e)
	switch x := e.(type) {
	case *ast.BadExpr:
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Unknown{exprBase{id}} })
	case *ast.Name:
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Name{exprBase{id}, x.Ident} })
	case *ast.Literal:
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Literal{exprBase{id}, x.LitKind, x.Value} })
	case *ast.List:
		elems := l.lowerExprSlice(x.Elems)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &List{exprBase{id}, elems} })
	case *ast.Tuple:
		elems := l.lowerExprSlice(x.Elems)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Tuple{exprBase{id}, elems} })
	case *ast.Dict:
		entries := make([]DictEntry, len(x.Entries))
		for i, en := range x.Entries {
			entries[i] = DictEntry{Key: l.lowerExpr(en.Key), Value: l.lowerExpr(en.Value)}
		}
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Dict{exprBase{id}, entries} })
	case *ast.ListComp:
		body := l.lowerExpr(x.Body)
		clauses := l.lowerClauses(x.Clauses)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &ListComp{exprBase{id}, body, clauses} })
	case *ast.DictComp:
		key := l.lowerExpr(x.Key)
		value := l.lowerExpr(x.Value)
		clauses := l.lowerClauses(x.Clauses)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &DictComp{exprBase{id}, key, value, clauses} })
	case *ast.Unary:
		xi := l.lowerExpr(x.X)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Unary{exprBase{id}, x.Op, xi} })
	case *ast.Binary:
		xi := l.lowerExpr(x.X)
		yi := l.lowerExpr(x.Y)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Binary{exprBase{id}, x.Op, xi, yi} })
	case *ast.Dot:
		r := l.lowerExpr(x.Receiver)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Dot{exprBase{id}, r, x.Name, x.HasName} })
	case *ast.Index:
		r := l.lowerExpr(x.Receiver)
		idx := l.lowerExpr(x.Index)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Index{exprBase{id}, r, idx} })
	case *ast.Call:
		callee := l.lowerExpr(x.Callee)
		args := make([]Argument, len(x.Args))
		for i, a := range x.Args {
			args[i] = Argument{ArgKind: a.ArgKind, Name: a.Name, X: l.lowerExpr(a.X)}
		}
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Call{exprBase{id}, callee, args} })
	case *ast.Paren:
		xi := l.lowerExpr(x.X)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Paren{exprBase{id}, xi} })
	case *ast.Lambda:
		params := l.lowerParams(x.Params)
		body := l.lowerExpr(x.Body)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Lambda{exprBase{id}, params, body} })
	case *ast.IfExpr:
		test := l.lowerExpr(x.Test)
		then := l.lowerExpr(x.Then)
		els := l.lowerExpr(x.Else)
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &IfExpr{exprBase{id}, test, then, els} })
	default:
		return l.allocExpr(ptr, true, func(id ExprId) Expr { return &Unknown{exprBase{id}} })
	}
}

func (l *lowerer) lowerExprSlice(exprs []ast.Expr) []ExprId {
	if len(exprs) == 0 {
		return nil
	}
	out := make([]ExprId, len(exprs))
	for i, e := range exprs {
		out[i] = l.lowerExpr(e)
	}
	return out
}

func (l *lowerer) lowerClauses(clauses []ast.CompClause) []CompClause {
	if len(clauses) == 0 {
		return nil
	}
	out := make([]CompClause, len(clauses))
	for i, c := range clauses {
		hc := CompClause{ClauseKind: c.ClauseKind, Iterable: InvalidExprId, Test: InvalidExprId}
		if c.ClauseKind == ast.CompFor {
			hc.Targets = l.lowerExprSlice(c.Targets)
			hc.Iterable = l.lowerExpr(c.Iterable)
		} else {
			hc.Test = l.lowerExpr(c.Test)
		}
		out[i] = hc
	}
	return out
}

func (l *lowerer) lowerParam(p *ast.Param) ParamId {
	def := InvalidExprId
	if p.Default != nil {
		def = l.lowerExpr(p.Default)
	}
	return l.allocParam(ast.PtrOf(p), Param{PKind: p.PKind, Name: p.Name, TypeRef: p.TypeRef, Default: def})
}

func (l *lowerer) lowerParams(params []*ast.Param) []ParamId {
	if len(params) == 0 {
		return nil
	}
	out := make([]ParamId, len(params))
	for i, p := range params {
		out[i] = l.lowerParam(p)
	}
	return out
}

func (l *lowerer) lowerLoadItem(it *ast.LoadItem) LoadItemId {
	return l.allocLoadItem(ast.PtrOf(it), LoadItem{LocalName: it.LocalName, SourceName: it.SourceName})
}

func (l *lowerer) lowerLoadItems(items []*ast.LoadItem) []LoadItemId {
	if len(items) == 0 {
		return nil
	}
	out := make([]LoadItemId, len(items))
	for i, it := range items {
		out[i] = l.lowerLoadItem(it)
	}
	return out
}

func (l *lowerer) lowerStmtSlice(stmts []ast.Stmt) []StmtId {
	if len(stmts) == 0 {
		return nil
	}
	out := make([]StmtId, len(stmts))
	for i, s := range stmts {
		out[i] = l.lowerStmt(s)
	}
	return out
}

func (l *lowerer) lowerStmt(s ast.Stmt) StmtId {
	ptr := ast.PtrOf(s)
	switch x := s.(type) {
	case *ast.AssignStmt:
		lhs := l.lowerExpr(x.Lhs)
		rhs := l.lowerExpr(x.Rhs)
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &Assign{stmtBase{id}, lhs, rhs} })
	case *ast.DefStmt:
		params := l.lowerParams(x.Params)
		body := l.lowerStmtSlice(x.Body)
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &Def{stmtBase{id}, x.Name, params, body} })
	case *ast.IfStmt:
		test := l.lowerExpr(x.Test)
		body := l.lowerStmtSlice(x.Body)
		elif := InvalidStmtId
		if x.ElifStmt != nil {
			elif = l.lowerStmt(x.ElifStmt)
		}
		elseBody := l.lowerStmtSlice(x.ElseStmts)
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &If{stmtBase{id}, test, body, elif, elseBody} })
	case *ast.ForStmt:
		targets := l.lowerExprSlice(x.Targets)
		iterable := l.lowerExpr(x.Iterable)
		body := l.lowerStmtSlice(x.Body)
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &For{stmtBase{id}, targets, iterable, body} })
	case *ast.ReturnStmt:
		xi := InvalidExprId
		if x.X != nil {
			xi = l.lowerExpr(x.X)
		}
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &Return{stmtBase{id}, xi} })
	case *ast.ExprStmt:
		xi := l.lowerExpr(x.X)
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &ExprStmt{stmtBase{id}, xi} })
	case *ast.LoadStmt:
		items := l.lowerLoadItems(x.Items)
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &Load{stmtBase{id}, x.ModulePath, items} })
	case *ast.BreakStmt:
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &Break{stmtBase{id}} })
	case *ast.ContinueStmt:
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &Continue{stmtBase{id}} })
	case *ast.PassStmt:
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &Pass{stmtBase{id}} })
	default:
		return l.allocStmt(ptr, func(id StmtId) Stmt { return &Pass{stmtBase{id}} })
	}
}

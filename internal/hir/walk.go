package hir

// WalkChildExprs calls fn for each immediate child expression of e. It is
// the HIR-level analogue of internal/ast's WalkChildExprs, over ExprIds
// rather than Expr values: consumers that don't care about a node's
// specific kind (internal/codeflow's default case, for one) can walk any
// expression uniformly instead of hand-rolling the same switch.
func WalkChildExprs(m *Module, e Expr, fn func(ExprId)) {
	switch x := e.(type) {
	case *Unknown, *Name, *Literal:
		// leaves
	case *List:
		for _, el := range x.Elems {
			fn(el)
		}
	case *Tuple:
		for _, el := range x.Elems {
			fn(el)
		}
	case *Dict:
		for _, entry := range x.Entries {
			fn(entry.Key)
			fn(entry.Value)
		}
	case *ListComp:
		fn(x.Body)
		walkCompClauseExprs(x.Clauses, fn)
	case *DictComp:
		fn(x.Key)
		fn(x.Value)
		walkCompClauseExprs(x.Clauses, fn)
	case *Unary:
		fn(x.X)
	case *Binary:
		fn(x.X)
		fn(x.Y)
	case *Dot:
		fn(x.Receiver)
	case *Index:
		fn(x.Receiver)
		fn(x.Index)
	case *Call:
		fn(x.Callee)
		for _, a := range x.Args {
			fn(a.X)
		}
	case *Paren:
		fn(x.X)
	case *Lambda:
		for _, pid := range x.Params {
			if p := m.Param(pid); p.Default.Valid() {
				fn(p.Default)
			}
		}
		fn(x.Body)
	case *IfExpr:
		fn(x.Test)
		fn(x.Then)
		fn(x.Else)
	}
}

func walkCompClauseExprs(clauses []CompClause, fn func(ExprId)) {
	for _, c := range clauses {
		if c.Iterable.Valid() {
			fn(c.Iterable)
		}
		for _, t := range c.Targets {
			fn(t)
		}
		if c.Test.Valid() {
			fn(c.Test)
		}
	}
}

package ast

// WalkChildExprs calls fn for each immediate child expression of x. It is
// the syntax-tree analogue of the HIR-level walker internal/hir uses for
// the same purpose; keeping both means neither layer needs to import the
// other just to enumerate children.
func WalkChildExprs(x Expr, fn func(Expr)) {
	switch e := x.(type) {
	case *BadExpr, *Name, *Literal:
		// leaves
	case *List:
		for _, el := range e.Elems {
			fn(el)
		}
	case *Tuple:
		for _, el := range e.Elems {
			fn(el)
		}
	case *Dict:
		for _, entry := range e.Entries {
			fn(entry.Key)
			fn(entry.Value)
		}
	case *ListComp:
		fn(e.Body)
		walkCompClauses(e.Clauses, fn)
	case *DictComp:
		fn(e.Key)
		fn(e.Value)
		walkCompClauses(e.Clauses, fn)
	case *Unary:
		fn(e.X)
	case *Binary:
		fn(e.X)
		fn(e.Y)
	case *Dot:
		fn(e.Receiver)
	case *Index:
		fn(e.Receiver)
		fn(e.Index)
	case *Call:
		fn(e.Callee)
		for _, arg := range e.Args {
			fn(arg.X)
		}
	case *Paren:
		fn(e.X)
	case *Lambda:
		for _, p := range e.Params {
			if p.Default != nil {
				fn(p.Default)
			}
		}
		fn(e.Body)
	case *IfExpr:
		fn(e.Test)
		fn(e.Then)
		fn(e.Else)
	}
}

func walkCompClauses(clauses []CompClause, fn func(Expr)) {
	for _, c := range clauses {
		switch c.ClauseKind {
		case CompFor:
			fn(c.Iterable)
			for _, t := range c.Targets {
				fn(t)
			}
		case CompIf:
			fn(c.Test)
		}
	}
}

// IsDestructuringTarget reports whether x is a syntactic shape that
// assignment-target lowering recurses into (List, Tuple, Paren) rather
// than treating as a single leaf name.
func IsDestructuringTarget(x Expr) bool {
	switch x.(type) {
	case *List, *Tuple, *Paren:
		return true
	default:
		return false
	}
}

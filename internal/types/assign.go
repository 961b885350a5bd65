package types

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/hir"
)

// assignKind distinguishes the two shapes infer_source_expr_assign
// handles: a plain `lhs = rhs` statement (a single lhs expression, which
// may itself be a destructuring List/Tuple/Paren), versus a for-statement
// or for-comp clause (a flat list of targets, one per comma-separated
// name, fed by iterating the rhs rather than reading it directly).
type assignKind int

const (
	assignSimple assignKind = iota
	assignForLike
)

// assignSource records, for one rhs/iterable ExprId, the syntactic
// assignment it belongs to — the back-pointer spec.md's
// infer_source_expr_assign locates "via the source map's back-pointer."
// Built once per Context from the module's Assign/For statements and
// comprehension for-clauses, since nothing in the HIR stores a direct
// child-to-parent pointer.
type assignSource struct {
	kind    assignKind
	lhs     hir.ExprId // assignSimple only
	targets []hir.ExprId
}

func (c *Context) indexAssignSources() {
	m := c.mi.Module
	for _, st := range m.Stmts {
		switch s := st.(type) {
		case *hir.Assign:
			c.assignInfo[s.Rhs] = assignSource{kind: assignSimple, lhs: s.Lhs}
		case *hir.For:
			c.assignInfo[s.Iterable] = assignSource{kind: assignForLike, targets: s.Targets}
		}
	}
	for _, e := range m.Exprs {
		switch x := e.(type) {
		case *hir.ListComp:
			c.indexCompClauses(x.Clauses)
		case *hir.DictComp:
			c.indexCompClauses(x.Clauses)
		}
	}
}

func (c *Context) indexCompClauses(clauses []hir.CompClause) {
	for _, cl := range clauses {
		if cl.ClauseKind != ast.CompFor {
			continue
		}
		c.assignInfo[cl.Iterable] = assignSource{kind: assignForLike, targets: cl.Targets}
	}
}

// inferSourceExprAssign is infer_source_expr_assign(file, source): it
// drives the rhs/iterable's own type, then pushes that type (or its
// element type, for the for-like shape) down onto every lhs leaf,
// populating their exprTy entries directly rather than through the
// normal memoized inferExpr path — Name's inference rule reads those
// entries back out once this has run.
func (c *Context) inferSourceExprAssign(source hir.ExprId) {
	info, ok := c.assignInfo[source]
	if !ok {
		return
	}
	sourceTy := c.inferExpr(source)
	if sourceTy.Kind() == KindUnbound {
		sourceTy = c.in.Unknown()
	}

	switch info.kind {
	case assignSimple:
		c.assignExprSourceTy(info.lhs, info.lhs, sourceTy)
	case assignForLike:
		subTy, iterable := c.subTy(sourceTy)
		if !iterable {
			c.diagnose(errors.TYP007, source, "Type %q is not iterable", sourceTy.String())
			for _, t := range info.targets {
				c.assignExprUnknownRec(t)
			}
			return
		}
		if len(info.targets) == 1 {
			c.assignExprSourceTy(info.targets[0], info.targets[0], subTy)
		} else {
			c.assignExprsSourceTy(source, info.targets, subTy)
		}
	}
}

// subTy computes the per-element type an iterable's rhs type yields, per
// spec.md's `sub_ty` rule: List(T) -> T; Tuple or Any -> Any; Range ->
// Int; anything else is not iterable. Unknown/Unbound propagate Unknown
// without a diagnostic, since nothing is actually known to be wrong.
func (c *Context) subTy(ty Ty) (Ty, bool) {
	switch ty.Kind() {
	case KindList:
		return ty.Elem(), true
	case KindTuple, KindAny:
		return c.in.Any(), true
	case KindRange:
		return c.in.Int(), true
	case KindUnknown, KindUnbound:
		return c.in.Unknown(), true
	default:
		return Ty{}, false
	}
}

// assignExprSourceTy assigns sourceTy to expr, recursing through the
// destructuring shapes a simple assign's lhs or a single for-target can
// take. root stays fixed at the original target for diagnostic spans.
func (c *Context) assignExprSourceTy(root, expr hir.ExprId, sourceTy Ty) {
	switch e := c.mi.Module.Expr(expr).(type) {
	case *hir.Name:
		c.exprTy[expr] = sourceTy
	case *hir.List:
		c.assignExprsSourceTy(root, e.Elems, sourceTy)
	case *hir.Tuple:
		c.assignExprsSourceTy(root, e.Elems, sourceTy)
	case *hir.Paren:
		c.assignExprSourceTy(root, e.X, sourceTy)
	default:
		// Not a valid assignment target syntactically; nothing to record.
	}
}

// assignExprsSourceTy is the destructuring step, shared by a
// multi-target for/for-comp clause and a List/Tuple lhs pattern: a
// Tuple(Fixed) rhs is matched pairwise against the leaves (spec.md's
// Tuple destructuring rule), a List/Any rhs broadcasts its element type
// to every leaf, anything else is not iterable.
func (c *Context) assignExprsSourceTy(root hir.ExprId, exprs []hir.ExprId, sourceTy Ty) {
	switch sourceTy.Kind() {
	case KindList:
		elem := sourceTy.Elem()
		for _, e := range exprs {
			c.assignExprSourceTy(root, e, elem)
		}
	case KindTuple:
		if sourceTy.IsVariableTuple() {
			elem := sourceTy.TupleVariable()
			for _, e := range exprs {
				c.assignExprSourceTy(root, e, elem)
			}
			return
		}
		fixed := sourceTy.TupleFixed()
		n := len(exprs)
		if len(fixed) < n {
			n = len(fixed)
		}
		for i := 0; i < n; i++ {
			c.assignExprSourceTy(root, exprs[i], fixed[i])
		}
		if len(exprs) != len(fixed) {
			for _, e := range exprs[n:] {
				c.assignExprUnknownRec(e)
			}
			c.diagnose(errors.TYP008, root, "Tuple size mismatch, %d on left-hand side and %d on right-hand side", len(exprs), len(fixed))
		}
	case KindAny:
		for _, e := range exprs {
			c.assignExprSourceTy(root, e, c.in.Any())
		}
	default:
		c.diagnose(errors.TYP007, root, "Type %q is not iterable", sourceTy.String())
		for _, e := range exprs {
			c.assignExprUnknownRec(e)
		}
	}
}

// assignExprUnknownRec sets expr and every descendant leaf of a
// destructuring pattern to Unknown, used once an iterability/arity
// mismatch means no better type is recoverable.
func (c *Context) assignExprUnknownRec(expr hir.ExprId) {
	c.exprTy[expr] = c.in.Unknown()
	hir.WalkChildExprs(c.mi.Module, c.mi.Module.Expr(expr), c.assignExprUnknownRec)
}

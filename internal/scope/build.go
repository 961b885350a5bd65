package scope

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/hir"
)

// Build runs the single pass spec.md §4.3 describes: for every execution
// scope, record its declarations in source order and tag every HIR id it
// encloses. A comprehension's scope is parented to the enclosing function
// scope rather than the scope it lexically sits in, so the code-flow
// graph attributes its iterator variables to the function, not to
// whatever nested comprehension or branch happened to contain it.
func Build(mod *hir.Module) *Tree {
	t := newTree()
	b := &builder{mod: mod, tree: t}
	module := t.newScope(Exec{Kind: KindModule}, InvalidId)
	b.walkStmts(mod.TopLevel, module, module)
	return t
}

type builder struct {
	mod  *hir.Module
	tree *Tree
}

func (b *builder) walkStmts(ids []hir.StmtId, scope, fn *Scope) {
	for _, id := range ids {
		b.walkStmt(id, scope, fn)
	}
}

func (b *builder) walkStmt(id hir.StmtId, scope, fn *Scope) {
	b.tree.stmtScope[id] = scope.id
	switch s := b.mod.Stmt(id).(type) {
	case *hir.Assign:
		b.walkExpr(s.Rhs, scope, fn)
		b.declareTargets(s.Lhs, s.Rhs, scope, fn)
	case *hir.Def:
		scope.Declare(s.Name, Function{Def: id})
		for _, pid := range s.Params {
			p := b.mod.Param(pid)
			if p.Default.Valid() {
				b.walkExpr(p.Default, scope, fn)
			}
		}
		def := b.tree.newScope(Exec{Kind: KindDef, Def: id}, scope.id)
		for _, pid := range s.Params {
			def.Declare(b.mod.Param(pid).Name, Parameter{Param: pid})
		}
		b.walkStmts(s.Body, def, def)
	case *hir.If:
		b.walkExpr(s.Test, scope, fn)
		b.walkStmts(s.Body, scope, fn)
		if s.Elif != hir.InvalidStmtId {
			b.walkStmt(s.Elif, scope, fn)
		}
		b.walkStmts(s.Else, scope, fn)
	case *hir.For:
		b.walkExpr(s.Iterable, scope, fn)
		for _, target := range s.Targets {
			b.declareTargets(target, s.Iterable, scope, fn)
		}
		b.walkStmts(s.Body, scope, fn)
	case *hir.Return:
		if s.X.Valid() {
			b.walkExpr(s.X, scope, fn)
		}
	case *hir.ExprStmt:
		b.walkExpr(s.X, scope, fn)
	case *hir.Load:
		for _, itemId := range s.Items {
			item := b.mod.LoadItem(itemId)
			scope.Declare(item.LocalName, LoadItem{Item: itemId})
		}
	case *hir.Break, *hir.Continue, *hir.Pass:
		// no declarations, no children
	}
}

// declareTargets walks an assignment or for-loop target, declaring each
// leaf Name it finds as a Variable sourced from source. List/Tuple/Paren
// nest arbitrarily for destructuring assignment; anything else (an
// Unknown from malformed syntax, say) is walked for scope membership but
// declares nothing.
func (b *builder) declareTargets(target, source hir.ExprId, scope, fn *Scope) {
	b.tree.exprScope[target] = scope.id
	switch e := b.mod.Expr(target).(type) {
	case *hir.Name:
		scope.Declare(e.Ident, Variable{Defining: target, Source: source})
	case *hir.List:
		for _, el := range e.Elems {
			b.declareTargets(el, source, scope, fn)
		}
	case *hir.Tuple:
		for _, el := range e.Elems {
			b.declareTargets(el, source, scope, fn)
		}
	case *hir.Paren:
		b.declareTargets(e.X, source, scope, fn)
	default:
		b.walkExpr(target, scope, fn)
	}
}

func (b *builder) walkExpr(id hir.ExprId, scope, fn *Scope) {
	b.tree.exprScope[id] = scope.id
	switch e := b.mod.Expr(id).(type) {
	case *hir.Name, *hir.Literal, *hir.Unknown:
		// leaves
	case *hir.List:
		for _, el := range e.Elems {
			b.walkExpr(el, scope, fn)
		}
	case *hir.Tuple:
		for _, el := range e.Elems {
			b.walkExpr(el, scope, fn)
		}
	case *hir.Dict:
		for _, entry := range e.Entries {
			b.walkExpr(entry.Key, scope, fn)
			b.walkExpr(entry.Value, scope, fn)
		}
	case *hir.ListComp:
		comp := b.tree.newScope(Exec{Kind: KindComp, Comp: id}, fn.id)
		b.walkClauses(e.Clauses, comp, fn)
		b.walkExpr(e.Body, comp, fn)
	case *hir.DictComp:
		comp := b.tree.newScope(Exec{Kind: KindComp, Comp: id}, fn.id)
		b.walkClauses(e.Clauses, comp, fn)
		b.walkExpr(e.Key, comp, fn)
		b.walkExpr(e.Value, comp, fn)
	case *hir.Unary:
		b.walkExpr(e.X, scope, fn)
	case *hir.Binary:
		b.walkExpr(e.X, scope, fn)
		b.walkExpr(e.Y, scope, fn)
	case *hir.Dot:
		b.walkExpr(e.Receiver, scope, fn)
	case *hir.Index:
		b.walkExpr(e.Receiver, scope, fn)
		b.walkExpr(e.Index, scope, fn)
	case *hir.Call:
		b.walkExpr(e.Callee, scope, fn)
		for _, a := range e.Args {
			b.walkExpr(a.X, scope, fn)
		}
	case *hir.Paren:
		b.walkExpr(e.X, scope, fn)
	case *hir.Lambda:
		for _, pid := range e.Params {
			p := b.mod.Param(pid)
			if p.Default.Valid() {
				b.walkExpr(p.Default, scope, fn)
			}
		}
		lam := b.tree.newScope(Exec{Kind: KindLambda, Lambda: id}, scope.id)
		for _, pid := range e.Params {
			lam.Declare(b.mod.Param(pid).Name, Parameter{Param: pid})
		}
		b.walkExpr(e.Body, lam, lam)
	case *hir.IfExpr:
		b.walkExpr(e.Test, scope, fn)
		b.walkExpr(e.Then, scope, fn)
		b.walkExpr(e.Else, scope, fn)
	}
}

// walkClauses declares each `for` clause's targets into comp (which
// comprehensions share with their body) before descending into the
// iterable/test expressions, so a later clause can reference an earlier
// one's targets the way nested comprehension clauses do in real sources.
func (b *builder) walkClauses(clauses []hir.CompClause, comp, fn *Scope) {
	for _, c := range clauses {
		if c.ClauseKind == ast.CompFor {
			for _, target := range c.Targets {
				b.declareTargets(target, c.Iterable, comp, fn)
			}
			b.walkExpr(c.Iterable, comp, fn)
		} else {
			b.walkExpr(c.Test, comp, fn)
		}
	}
}

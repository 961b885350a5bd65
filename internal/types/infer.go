package types

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/resolver"
	"github.com/starlark-lsp/semcore/internal/scope"
)

// inferExpr is infer_expr's memoized, cancellable core: a cache hit
// returns directly, a cycle (an expression whose own inference recurses
// back into itself, e.g. through a malformed self-referential assignment)
// yields Unknown rather than looping, and a genuine miss dispatches by
// node kind and caches the result before returning.
func (c *Context) inferExpr(id hir.ExprId) Ty {
	c.checkpoint()
	if ty, ok := c.exprTy[id]; ok {
		return ty
	}
	if c.inferring[id] {
		return c.in.Unknown()
	}
	c.inferring[id] = true
	ty := c.computeExpr(id)
	delete(c.inferring, id)
	c.exprTy[id] = ty
	return ty
}

func (c *Context) computeExpr(id hir.ExprId) Ty {
	switch e := c.mi.Module.Expr(id).(type) {
	case *hir.Unknown:
		return c.in.Unknown()
	case *hir.Literal:
		return c.inferLiteral(e)
	case *hir.Name:
		return c.inferName(id, e)
	case *hir.List:
		return c.in.List(c.commonType(e.Elems, c.in.Unknown()))
	case *hir.Tuple:
		elems := make([]Ty, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = c.inferExpr(el)
		}
		return c.in.TupleFixed(elems)
	case *hir.Dict:
		keys := make([]hir.ExprId, len(e.Entries))
		values := make([]hir.ExprId, len(e.Entries))
		for i, entry := range e.Entries {
			keys[i] = entry.Key
			values[i] = entry.Value
		}
		return c.in.Dict(c.commonType(keys, c.in.Any()), c.commonType(values, c.in.Unknown()))
	case *hir.ListComp:
		return c.in.List(c.inferExpr(e.Body))
	case *hir.DictComp:
		return c.in.Dict(c.inferExpr(e.Key), c.inferExpr(e.Value))
	case *hir.Unary:
		return c.inferUnary(id, e)
	case *hir.Binary:
		return c.inferBinary(id, e)
	case *hir.Dot:
		return c.inferDot(id, e)
	case *hir.Index:
		return c.inferIndex(id, e)
	case *hir.Call:
		return c.inferCall(id, e)
	case *hir.Paren:
		return c.inferExpr(e.X)
	case *hir.Lambda:
		return c.in.Function(LambdaFnID(uint32(id)))
	case *hir.IfExpr:
		c.inferExpr(e.Test)
		thenTy := c.inferExpr(e.Then)
		elseTy := c.inferExpr(e.Else)
		if thenTy == elseTy {
			return thenTy
		}
		return c.in.Unknown()
	default:
		return c.in.Unknown()
	}
}

func (c *Context) inferLiteral(e *hir.Literal) Ty {
	switch e.LitKind {
	case ast.IntLit:
		return c.in.Int()
	case ast.FloatLit:
		return c.in.Float()
	case ast.StringLit:
		return c.in.String()
	case ast.BytesLit:
		return c.in.Bytes()
	case ast.BoolLit:
		return c.in.Bool()
	case ast.NoneLit:
		return c.in.None()
	default:
		return c.in.Unknown()
	}
}

// commonType implements spec.md's "common type" rule shared by List and
// Dict literals: every element's inferred type must agree for the
// collection to get a precise element type, else default falls back.
func (c *Context) commonType(exprs []hir.ExprId, def Ty) Ty {
	if len(exprs) == 0 {
		return def
	}
	first := c.inferExpr(exprs[0])
	for _, e := range exprs[1:] {
		if c.inferExpr(e) != first {
			return def
		}
	}
	return first
}

func (c *Context) inferName(id hir.ExprId, e *hir.Name) Ty {
	r := resolver.NewForExpr(c.tree, c.builtins, id)
	decls, ok := r.ResolveName(e.Ident)
	if !ok {
		c.diagnose(errors.NAM001, id, "%q is not defined", e.Ident)
		return c.in.Unbound()
	}
	return c.inferDeclaration(decls[len(decls)-1])
}

func (c *Context) inferDeclaration(d scope.Declaration) Ty {
	switch decl := d.(type) {
	case scope.Variable:
		if decl.Source.Valid() {
			c.inferSourceExprAssign(decl.Source)
			if ty, ok := c.exprTy[decl.Defining]; ok {
				return ty
			}
		}
		return c.in.Unknown()
	case scope.Function:
		return c.in.Function(DefFnID(uint32(decl.Def)))
	case scope.Parameter:
		return c.inferParam(decl.Param)
	case scope.LoadItem:
		return c.in.Any()
	case scope.BuiltinFunction:
		sig, ok := c.catalog.BuiltinFuncSig(decl.ID)
		if !ok {
			return c.in.Unknown()
		}
		return c.in.BuiltinFunction(decl.ID, identitySubstitution(c.in, sig.NumVars))
	case scope.BuiltinVariable:
		if ty, ok := c.catalog.VarType(decl.ID); ok {
			return ty
		}
		return c.in.Unknown()
	case scope.CustomFunction:
		return c.in.CustomFunction(decl.ID)
	case scope.CustomVariable:
		if ty, ok := c.catalog.ResolveTypeRef(decl.TypeRef); ok {
			return ty
		}
		return c.in.Unknown()
	default:
		return c.in.Unknown()
	}
}

// identitySubstitution builds the "identity substitution over its
// binders" spec.md's BuiltinFunction Name rule asks for: BoundVar(i)
// bound to itself, so a bare reference to a builtin like `enumerate`
// carries its own unapplied generic slots until a Call site substitutes
// concrete argument types in.
func identitySubstitution(in *Interner, numVars int) Substitution {
	if numVars == 0 {
		return nil
	}
	subst := make(Substitution, numVars)
	for i := range subst {
		subst[i] = in.BoundVar(i)
	}
	return subst
}

func (c *Context) inferUnary(id hir.ExprId, e *hir.Unary) Ty {
	xTy := c.inferExpr(e.X)
	switch xTy.Kind() {
	case KindAny:
		return c.in.Any()
	case KindUnknown, KindUnbound:
		return c.in.Unknown()
	}
	switch e.Op {
	case ast.OpNeg, ast.OpPos:
		switch xTy.Kind() {
		case KindInt:
			return c.in.Int()
		case KindFloat:
			return c.in.Float()
		}
	case ast.OpInvert:
		if xTy.Kind() == KindInt {
			return c.in.Int()
		}
	case ast.OpNot:
		return c.in.Bool()
	}
	c.diagnose(errors.TYP009, id, "Operator %q is not supported for type %q", unaryOpName(e.Op), xTy.String())
	return c.in.Unknown()
}

func (c *Context) inferBinary(id hir.ExprId, e *hir.Binary) Ty {
	xTy := c.inferExpr(e.X)
	yTy := c.inferExpr(e.Y)
	if xTy.Kind() == KindAny || yTy.Kind() == KindAny {
		return c.in.Any()
	}

	switch e.Op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe,
		ast.OpAnd, ast.OpOr, ast.OpIn, ast.OpNotIn:
		return c.in.Bool()
	case ast.OpAdd:
		if xTy.Kind() == KindString && yTy.Kind() == KindString {
			return c.in.String()
		}
		if ty, ok := numericResult(c.in, xTy, yTy); ok {
			return ty
		}
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpFloorDiv, ast.OpMod:
		if ty, ok := numericResult(c.in, xTy, yTy); ok {
			return ty
		}
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShiftLeft, ast.OpShiftRight:
		if xTy.Kind() == KindInt && yTy.Kind() == KindInt {
			return c.in.Int()
		}
	}
	c.diagnose(errors.TYP009, id, "Operator %q not supported for types %q and %q", binaryOpName(e.Op), xTy.String(), yTy.String())
	return c.in.Unknown()
}

// numericResult implements the Int/Float arithmetic widening rule
// shared by `+`/`-`/`*`/`/`/`//`/`%`: (Int, Int) -> Int, any mix of
// Int/Float with at least one Float -> Float.
func numericResult(in *Interner, x, y Ty) (Ty, bool) {
	if x.Kind() == KindInt && y.Kind() == KindInt {
		return in.Int(), true
	}
	isNum := func(t Ty) bool { return t.Kind() == KindInt || t.Kind() == KindFloat }
	if isNum(x) && isNum(y) && (x.Kind() == KindFloat || y.Kind() == KindFloat) {
		return in.Float(), true
	}
	return Ty{}, false
}

func unaryOpName(op ast.UnaryOp) string {
	switch op {
	case ast.OpNeg:
		return "-"
	case ast.OpPos:
		return "+"
	case ast.OpInvert:
		return "~"
	case ast.OpNot:
		return "not"
	default:
		return "?"
	}
}

func binaryOpName(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpFloorDiv:
		return "//"
	case ast.OpMod:
		return "%"
	case ast.OpBitAnd:
		return "&"
	case ast.OpBitOr:
		return "|"
	case ast.OpBitXor:
		return "^"
	case ast.OpShiftLeft:
		return "<<"
	case ast.OpShiftRight:
		return ">>"
	case ast.OpEq:
		return "=="
	case ast.OpNe:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLe:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGe:
		return ">="
	case ast.OpAnd:
		return "and"
	case ast.OpOr:
		return "or"
	case ast.OpIn:
		return "in"
	case ast.OpNotIn:
		return "not in"
	default:
		return "?"
	}
}

// bazelStructCatchAll is the opaque Bazel struct-like CustomType name
// Dot treats as a black box rather than looking up fields for (spec.md's
// "special case" carve-out): `struct(...)`'s own return type has no
// fixed field set the catalog could describe.
const bazelStructCatchAll = "struct"

func (c *Context) inferDot(id hir.ExprId, e *hir.Dot) Ty {
	recvTy := c.inferExpr(e.Receiver)
	if recvTy.Kind() == KindAny {
		return c.in.Any()
	}
	if recvTy.Kind() == KindUnknown || recvTy.Kind() == KindUnbound || !e.HasName {
		return c.in.Unknown()
	}
	if recvTy.Kind() == KindCustomType && recvTy.ID() == bazelStructCatchAll {
		return c.in.Unknown()
	}
	fields, ok := c.catalog.Fields(recvTy)
	if ok {
		for _, f := range fields {
			if f.Name == e.Name {
				return f.Ty
			}
		}
	}
	c.diagnose(errors.TYP006, id, "Cannot access field %q for type %q", e.Name, recvTy.String())
	return c.in.Unknown()
}

func (c *Context) inferIndex(id hir.ExprId, e *hir.Index) Ty {
	recvTy := c.inferExpr(e.Receiver)
	idxTy := c.inferExpr(e.Index)
	switch recvTy.Kind() {
	case KindAny, KindUnknown, KindUnbound:
		return c.in.Unknown()
	case KindList:
		if idxTy.Kind() == KindInt {
			return recvTy.Elem()
		}
		c.diagnose(errors.TYP005, id, "Cannot index list with type %q", idxTy.String())
		return c.in.Unknown()
	case KindDict:
		if assignTys(idxTy, recvTy.DictKey()) {
			return recvTy.DictValue()
		}
		c.diagnose(errors.TYP005, id, "Cannot index dict with type %q", idxTy.String())
		return c.in.Unknown()
	case KindString:
		if idxTy.Kind() == KindInt {
			return c.in.String()
		}
		c.diagnose(errors.TYP005, id, "Cannot index string with type %q", idxTy.String())
		return c.in.Unknown()
	case KindBytes:
		if idxTy.Kind() == KindInt {
			return c.in.Int()
		}
		c.diagnose(errors.TYP005, id, "Cannot index bytes with type %q", idxTy.String())
		return c.in.Unknown()
	default:
		c.diagnose(errors.TYP005, id, "Type %q is not indexable", recvTy.String())
		return c.in.Unknown()
	}
}

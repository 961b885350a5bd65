package types

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/hir"
)

// inferParam is infer_param(file, param_id): memoized and cancellable
// the same way inferExpr is, but over the Param arena rather than Expr,
// since a parameter's type comes from its declared annotation (or a
// fixed shape for */** forms) rather than from evaluating an expression.
func (c *Context) inferParam(id hir.ParamId) Ty {
	c.checkpoint()
	if ty, ok := c.paramTy[id]; ok {
		return ty
	}
	ty := c.computeParamTy(c.mi.Module.Param(id))
	c.paramTy[id] = ty
	return ty
}

// computeParamTy is spec.md's param_ty rule: a Simple parameter's type
// comes from resolving its annotation, diagnosing an annotation that
// names nothing the catalog knows; *args always yields a List of its
// (optionally annotated) element type; **kwargs always yields
// Dict(Any, Any), regardless of any annotation it carries.
func (c *Context) computeParamTy(p hir.Param) Ty {
	switch p.PKind {
	case ast.ParamSimple:
		return c.resolveParamTypeRef(p)
	case ast.ParamArgsList:
		elem := c.in.Unknown()
		if p.TypeRef != "" {
			if ty, ok := c.catalog.ResolveTypeRef(p.TypeRef); ok {
				elem = ty
			}
		}
		return c.in.List(elem)
	case ast.ParamKwargsList:
		return c.in.Dict(c.in.Any(), c.in.Any())
	default:
		return c.in.Unknown()
	}
}

func (c *Context) resolveParamTypeRef(p hir.Param) Ty {
	if p.TypeRef == "" {
		return c.in.Unknown()
	}
	if ty, ok := c.catalog.ResolveTypeRef(p.TypeRef); ok {
		return ty
	}
	c.diagnoseParam(errors.RES003, p.ID(), "Unknown type %q in type comment", p.TypeRef)
	return c.in.Unknown()
}

package types

import (
	"fmt"

	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/resolver"
	"github.com/starlark-lsp/semcore/internal/scope"
)

// Canceller is the cooperative cancellation flag spec.md §5 describes:
// "every inference step polls the flag at infer_expr entry." Satisfied
// by internal/query.CancelToken without this package importing
// internal/query, the same narrow-interface trick internal/types.Catalog
// uses against internal/builtins.
type Canceller interface {
	Cancelled() bool
}

// cancelledSignal is panicked at a cancellation checkpoint and recovered
// only by Context's exported entry points, unwinding every recursive
// inferExpr/inferParam frame in between without each of them needing an
// explicit error return.
type cancelledSignal struct{}

// ErrCancelled is returned by a Context's exported entry points when a
// computation was unwound by a cancellation checkpoint.
var ErrCancelled = fmt.Errorf("types: inference cancelled")

// Context is the per-file inference engine: the teacher's
// InferenceContext (internal/types/inference.go's env/constraints/
// diagnostics bundle), generalized from AILANG's bidirectional
// Hindley-Milner engine down to this spec's flow-sensitive, monomorphic
// one — no unification variables, no type classes, just a memoized
// expr/param -> Ty map plus the rule set in infer.go/call.go/assign.go.
//
// One Context serves exactly one file. spec.md's "memoized by
// (file, ExprId)" requirement is therefore just "memoized by ExprId"
// here, since a Context never sees another file's ids.
type Context struct {
	mi       *hir.ModuleInfo
	tree     *scope.Tree
	builtins resolver.Builtins
	catalog  Catalog
	in       *Interner
	token    Canceller

	exprTy    map[hir.ExprId]Ty
	paramTy   map[hir.ParamId]Ty
	inferring map[hir.ExprId]bool

	assignInfo map[hir.ExprId]assignSource

	diags []errors.Diagnostic
}

// NewContext builds an inference Context for one lowered file. token may
// be nil, in which case cancellation is never observed.
func NewContext(mi *hir.ModuleInfo, tree *scope.Tree, builtins resolver.Builtins, catalog Catalog, in *Interner, token Canceller) *Context {
	c := &Context{
		mi:         mi,
		tree:       tree,
		builtins:   builtins,
		catalog:    catalog,
		in:         in,
		token:      token,
		exprTy:     make(map[hir.ExprId]Ty),
		paramTy:    make(map[hir.ParamId]Ty),
		inferring:  make(map[hir.ExprId]bool),
		assignInfo: make(map[hir.ExprId]assignSource),
	}
	c.indexAssignSources()
	return c
}

// InferExpr is the infer_expr(file, expr_id) entry point: memoized,
// idempotent, cooperatively cancellable.
func (c *Context) InferExpr(id hir.ExprId) (ty Ty, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(cancelledSignal); ok {
				err = ErrCancelled
				ty = c.in.Unknown()
				return
			}
			panic(r)
		}
	}()
	return c.inferExpr(id), nil
}

// InferParam is the infer_param(file, param_id) entry point.
func (c *Context) InferParam(id hir.ParamId) (ty Ty, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(cancelledSignal); ok {
				err = ErrCancelled
				ty = c.in.Unknown()
				return
			}
			panic(r)
		}
	}()
	return c.inferParam(id), nil
}

// Diagnostics returns every diagnostic accumulated so far, in the order
// inference produced them (dependency order: spec.md §5's ordering
// guarantee for assignment chains).
func (c *Context) Diagnostics() []errors.Diagnostic {
	out := make([]errors.Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

func (c *Context) checkpoint() {
	if c.token != nil && c.token.Cancelled() {
		panic(cancelledSignal{})
	}
}

func (c *Context) diagnose(code string, expr hir.ExprId, format string, args ...interface{}) {
	c.diags = append(c.diags, errors.Diagnostic{
		Kind:     code,
		Severity: errors.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Span:     c.mi.SourceMap.ExprPtr(expr).Span,
	})
}

func (c *Context) diagnoseParam(code string, param hir.ParamId, format string, args ...interface{}) {
	c.diags = append(c.diags, errors.Diagnostic{
		Kind:     code,
		Severity: errors.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Span:     c.mi.SourceMap.ParamPtr(param).Span,
	})
}

// Package facade implements the semantic query surface spec.md §4.7
// describes: a Semantics value bound to one lowered file, exposing
// stable handles (Type, Function, Variable, Parameter, LoadItem,
// SemanticsScope) over the HIR ids and inferred Tys that
// internal/hir/internal/scope/internal/types otherwise speak in.
//
// It is grounded on the original analyzer's crates/starpls_hir/src/api.rs
// Semantics/Type/Function/ScopeDef façade, adapted from a Salsa-database
// query surface spanning every file in a workspace down to a plain Go
// struct bound to the single file its caller (internal/engine) already
// has a *hir.ModuleInfo, *scope.Tree, and *types.Context for. Multi-file
// concerns (which file a load() statement resolves to) are delegated to
// the FileResolver collaborator rather than this package reaching across
// files itself.
package facade

import (
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/resolver"
	"github.com/starlark-lsp/semcore/internal/scope"
	"github.com/starlark-lsp/semcore/internal/store"
	"github.com/starlark-lsp/semcore/internal/types"
)

// FileResolver is the host collaborator resolve_load_stmt needs to turn
// a load() statement's module path into the FileId it names. A thin
// restatement of internal/module.LoadResolver's (from, modulePath) shape
// that reports ok/not-ok instead of a diagnostic, since a façade query
// either has an answer or it doesn't (the diagnostic, if any, was
// already raised by whatever pass first loaded the file).
type FileResolver interface {
	ResolveLoadStmt(from store.FileId, modulePath string) (store.FileId, bool)
}

// Semantics answers the type_of_*/resolve_*/scope_for_* queries for one
// file: file identifies it to FileResolver, mi/tree are its lowering and
// scope-build output, ctx is the inference Context already constructed
// over them, builtins/catalog are the dialect's loaded catalog (doubling
// as both the resolver.Builtins and types.Catalog narrow interfaces, the
// same *builtins.Catalog value satisfies both), and in is the shared
// Interner that produced every Ty ctx and catalog hand back.
type Semantics struct {
	file     store.FileId
	mi       *hir.ModuleInfo
	tree     *scope.Tree
	ctx      *types.Context
	builtins resolver.Builtins
	catalog  types.Catalog
	in       *types.Interner
	loads    FileResolver
}

// New builds a Semantics over one file's lowering and inference state.
// loads may be nil, in which case ResolveLoadStmt always reports false.
func New(file store.FileId, mi *hir.ModuleInfo, tree *scope.Tree, ctx *types.Context, builtins resolver.Builtins, catalog types.Catalog, in *types.Interner, loads FileResolver) *Semantics {
	return &Semantics{file: file, mi: mi, tree: tree, ctx: ctx, builtins: builtins, catalog: catalog, in: in, loads: loads}
}

// TypeOfExpr is type_of_expr(file, expr): the inferred Type of a lowered
// expression, or false if inference was cancelled.
func (s *Semantics) TypeOfExpr(expr hir.ExprId) (Type, bool) {
	ty, err := s.ctx.InferExpr(expr)
	if err != nil {
		return Type{}, false
	}
	return Type{ty: ty}, true
}

// TypeOfParam is type_of_param(file, param): the inferred Type of a
// formal parameter, or false if inference was cancelled.
func (s *Semantics) TypeOfParam(param hir.ParamId) (Type, bool) {
	ty, err := s.ctx.InferParam(param)
	if err != nil {
		return Type{}, false
	}
	return Type{ty: ty}, true
}

// ResolveCallExpr is resolve_call_expr(file, expr): the Function a call
// expression's callee resolves to, or false if expr is not a Call, its
// callee's type could not be inferred, or the callee's type is not one
// of the callable kinds.
func (s *Semantics) ResolveCallExpr(expr hir.ExprId) (Function, bool) {
	call, ok := s.mi.Module.Expr(expr).(*hir.Call)
	if !ok {
		return Function{}, false
	}
	ty, err := s.ctx.InferExpr(call.Callee)
	if err != nil {
		return Function{}, false
	}
	if !isCallableKind(ty.Kind()) {
		return Function{}, false
	}
	return Function{ty: ty}, true
}

// ResolveCallExprActiveParam is resolve_call_expr_active_param(file,
// call_expr, active_arg): which declared parameter slot an argument
// position binds to, a thin pass-through to internal/types since the
// slot-binding algorithm lives there (it already needs the builtin
// function's signature, which this package has no separate access to).
func (s *Semantics) ResolveCallExprActiveParam(call hir.ExprId, activeArg int) (int, bool) {
	return s.ctx.ResolveCallExprActiveParam(call, activeArg)
}

// ResolveLoadStmt is resolve_load_stmt(file, load_stmt): the FileId a
// load() statement's module path resolves to, via the FileResolver
// supplied at construction.
func (s *Semantics) ResolveLoadStmt(stmt hir.StmtId) (store.FileId, bool) {
	load, ok := s.mi.Module.Stmt(stmt).(*hir.Load)
	if !ok || s.loads == nil {
		return 0, false
	}
	return s.loads.ResolveLoadStmt(s.file, load.ModulePath)
}

// FunctionForDef is function_for_def(file, stmt): the Function handle
// for a top-level or nested `def`, or false if stmt does not name one.
func (s *Semantics) FunctionForDef(stmt hir.StmtId) (Function, bool) {
	if _, ok := s.mi.Module.Stmt(stmt).(*hir.Def); !ok {
		return Function{}, false
	}
	return Function{ty: s.in.Function(types.DefFnID(uint32(stmt)))}, true
}

// FunctionForLambda mirrors FunctionForDef for a `lambda` expression;
// the original analyzer has no equivalent (its HirDefFunction is always
// backed by a DefStmt) since this port represents both `def` and
// `lambda` under the same Function(FnId) Ty kind.
func (s *Semantics) FunctionForLambda(expr hir.ExprId) (Function, bool) {
	if _, ok := s.mi.Module.Expr(expr).(*hir.Lambda); !ok {
		return Function{}, false
	}
	return Function{ty: s.in.Function(types.LambdaFnID(uint32(expr)))}, true
}

// ScopeForModule is scope_for_module(file): names visible at the top of
// the module.
func (s *Semantics) ScopeForModule() SemanticsScope {
	return SemanticsScope{sem: s, r: resolver.NewForModule(s.tree, s.builtins)}
}

// ScopeForExpr is scope_for_expr(file, expr): names visible at expr's
// position.
func (s *Semantics) ScopeForExpr(expr hir.ExprId) SemanticsScope {
	return SemanticsScope{sem: s, r: resolver.NewForExpr(s.tree, s.builtins, expr)}
}

// ScopeForOffset is scope_for_offset(file, offset): names visible at a
// raw byte offset into the file's source.
func (s *Semantics) ScopeForOffset(offset int) SemanticsScope {
	return SemanticsScope{sem: s, r: resolver.NewForOffset(s.mi, s.tree, s.builtins, offset)}
}

func isCallableKind(k types.Kind) bool {
	switch k {
	case types.KindFunction, types.KindBuiltinFunction, types.KindCustomFunction:
		return true
	default:
		return false
	}
}

package facade

import (
	"testing"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/builtins"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/parser"
	"github.com/starlark-lsp/semcore/internal/scope"
	"github.com/starlark-lsp/semcore/internal/store"
	"github.com/starlark-lsp/semcore/internal/types"
)

func newSemantics(t *testing.T, src string) (*hir.ModuleInfo, *Semantics) {
	t.Helper()
	file, diags := parser.Parse("test.star", src, ast.Standard)
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}
	mi := hir.Lower(file)
	tree := scope.Build(mi.Module)
	in := types.NewInterner()
	cat, err := builtins.ForDialect(in, ast.Standard)
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	ctx := types.NewContext(mi, tree, cat, cat, in, nil)
	sem := New(store.FileId(1), mi, tree, ctx, cat, cat, in, nil)
	return mi, sem
}

func nthAssignRhs(t *testing.T, mi *hir.ModuleInfo, n int) hir.ExprId {
	t.Helper()
	count := 0
	for _, sid := range mi.Module.TopLevel {
		if a, ok := mi.Module.Stmt(sid).(*hir.Assign); ok {
			if count == n {
				return a.Rhs
			}
			count++
		}
	}
	t.Fatalf("want at least %d top-level assignments", n+1)
	return hir.InvalidExprId
}

func nthTopLevelStmt(t *testing.T, mi *hir.ModuleInfo, n int, kind string) hir.StmtId {
	t.Helper()
	if n >= len(mi.Module.TopLevel) {
		t.Fatalf("want at least %d top-level statements", n+1)
	}
	return mi.Module.TopLevel[n]
}

func TestTypeOfExprMatchesInference(t *testing.T) {
	mi, sem := newSemantics(t, "a = 1\n")
	ty, ok := sem.TypeOfExpr(nthAssignRhs(t, mi, 0))
	if !ok {
		t.Fatal("want ok")
	}
	if ty.String() != "int" {
		t.Fatalf("want int, got %s", ty.String())
	}
	if ty.IsUnknown() || ty.IsFunction() {
		t.Fatalf("want a plain scalar type, got %+v", ty)
	}
}

func TestFunctionForDefReportsUserDefinedFunction(t *testing.T) {
	mi, sem := newSemantics(t, "def f(x):\n    return x\n")
	stmt := nthTopLevelStmt(t, mi, 0, "def")
	fn, ok := sem.FunctionForDef(stmt)
	if !ok {
		t.Fatal("want ok")
	}
	if !fn.IsUserDefined() {
		t.Fatal("want IsUserDefined")
	}
	if !fn.Type().IsFunction() || !fn.Type().IsUserDefinedFunction() {
		t.Fatal("want IsFunction and IsUserDefinedFunction")
	}
	name, ok := fn.Name(sem)
	if !ok || name != "f" {
		t.Fatalf("want name \"f\", got %q ok=%v", name, ok)
	}
	params := fn.Params(sem)
	if len(params) != 1 || params[0].Name != "x" {
		t.Fatalf("want one param named x, got %+v", params)
	}
}

func TestFunctionForDefOnNonDefStmtReportsNotOk(t *testing.T) {
	mi, sem := newSemantics(t, "a = 1\n")
	stmt := nthTopLevelStmt(t, mi, 0, "assign")
	if _, ok := sem.FunctionForDef(stmt); ok {
		t.Fatal("want not-ok for a non-Def statement")
	}
}

func TestFunctionForDefExtractsLeadingDocstring(t *testing.T) {
	mi, sem := newSemantics(t, "def f():\n    \"does a thing\"\n    return 1\n")
	stmt := nthTopLevelStmt(t, mi, 0, "def")
	fn, ok := sem.FunctionForDef(stmt)
	if !ok {
		t.Fatal("want ok")
	}
	doc, ok := fn.Doc(sem)
	if !ok || doc != "does a thing" {
		t.Fatalf("want docstring %q, got %q ok=%v", "does a thing", doc, ok)
	}
}

func TestResolveCallExprReturnsBuiltinFunction(t *testing.T) {
	mi, sem := newSemantics(t, "xs = [1, 2]\na = sorted(xs, reverse=True, key=None)\n")
	rhs := nthAssignRhs(t, mi, 1)
	fn, ok := sem.ResolveCallExpr(rhs)
	if !ok {
		t.Fatal("want ok")
	}
	if fn.IsUserDefined() {
		t.Fatal("want a built-in function, not user-defined")
	}
	name, ok := fn.Name(sem)
	if !ok || name != "sorted" {
		t.Fatalf("want name \"sorted\", got %q ok=%v", name, ok)
	}
	retTy, ok := fn.RetTy(sem)
	if !ok || retTy.String() != "list[int]" {
		t.Fatalf("want list[int], got %v ok=%v", retTy, ok)
	}
	params := fn.Params(sem)
	if len(params) == 0 {
		t.Fatal("want at least one param for sorted's signature")
	}
}

func TestResolveCallExprOnNonCallReportsNotOk(t *testing.T) {
	mi, sem := newSemantics(t, "a = 1\n")
	rhs := nthAssignRhs(t, mi, 0)
	if _, ok := sem.ResolveCallExpr(rhs); ok {
		t.Fatal("want not-ok for a non-Call expression")
	}
}

func TestTypeOfExprDotFieldReportsDictValueField(t *testing.T) {
	mi, sem := newSemantics(t, "d = {\"a\": 1}\nk = d.keys\n")
	ty, ok := sem.TypeOfExpr(nthAssignRhs(t, mi, 1))
	if !ok {
		t.Fatal("want ok")
	}
	if ty.String() != "list[string]" {
		t.Fatalf("want list[string], got %s", ty.String())
	}
}

func TestScopeForModuleResolvesTopLevelVariable(t *testing.T) {
	_, sem := newSemantics(t, "a = 1\n")
	sc := sem.ScopeForModule()
	defs, ok := sc.ResolveName("a")
	if !ok || len(defs) != 1 {
		t.Fatalf("want one declaration for a, got %+v ok=%v", defs, ok)
	}
	if defs[0].Kind != ScopeDefVariable || !defs[0].Variable.IsUserDefined() {
		t.Fatalf("want a user-defined Variable, got %+v", defs[0])
	}
}

func TestScopeForModuleResolvesBuiltinAsNonUserDefined(t *testing.T) {
	_, sem := newSemantics(t, "a = 1\n")
	sc := sem.ScopeForModule()
	defs, ok := sc.ResolveName("len")
	if !ok || len(defs) != 1 {
		t.Fatalf("want one declaration for len, got %+v ok=%v", defs, ok)
	}
	if defs[0].Kind != ScopeDefFunction || defs[0].Function.IsUserDefined() {
		t.Fatalf("want a non-user-defined Function, got %+v", defs[0])
	}
}

func TestScopeForModuleResolveUndefinedNameReportsNotOk(t *testing.T) {
	_, sem := newSemantics(t, "a = 1\n")
	sc := sem.ScopeForModule()
	if _, ok := sc.ResolveName("nope"); ok {
		t.Fatal("want not-ok for an undefined name")
	}
}

func TestScopeForExprResolvesParameterInsideDef(t *testing.T) {
	mi, sem := newSemantics(t, "def f(x):\n    y = x\n    return y\n")
	def := mi.Module.Stmt(mi.Module.TopLevel[0]).(*hir.Def)
	inner := mi.Module.Stmt(def.Body[0]).(*hir.Assign)
	sc := sem.ScopeForExpr(inner.Rhs)
	defs, ok := sc.ResolveName("x")
	if !ok || len(defs) != 1 || defs[0].Kind != ScopeDefParameter {
		t.Fatalf("want one Parameter declaration for x, got %+v ok=%v", defs, ok)
	}
	if defs[0].Parameter.Name(sem) != "x" {
		t.Fatalf("want parameter name x, got %q", defs[0].Parameter.Name(sem))
	}
}

func TestResolveLoadStmtUsesFileResolver(t *testing.T) {
	mi, sem := newSemantics(t, "load(\"//pkg:dep.bzl\", \"y\")\n")
	sem.loads = stubLoads{from: sem.file, modulePath: "//pkg:dep.bzl", to: store.FileId(7)}
	stmt := nthTopLevelStmt(t, mi, 0, "load")
	id, ok := sem.ResolveLoadStmt(stmt)
	if !ok || id != store.FileId(7) {
		t.Fatalf("want FileId(7), got %v ok=%v", id, ok)
	}
}

func TestResolveLoadStmtWithoutResolverReportsNotOk(t *testing.T) {
	mi, sem := newSemantics(t, "load(\"//pkg:dep.bzl\", \"y\")\n")
	stmt := nthTopLevelStmt(t, mi, 0, "load")
	if _, ok := sem.ResolveLoadStmt(stmt); ok {
		t.Fatal("want not-ok with no FileResolver configured")
	}
}

type stubLoads struct {
	from       store.FileId
	modulePath string
	to         store.FileId
}

func (s stubLoads) ResolveLoadStmt(from store.FileId, modulePath string) (store.FileId, bool) {
	if from == s.from && modulePath == s.modulePath {
		return s.to, true
	}
	return 0, false
}

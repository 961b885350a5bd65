package resolver

import (
	"testing"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/parser"
	"github.com/starlark-lsp/semcore/internal/scope"
)

type fakeBuiltins map[string]scope.Declaration

func (f fakeBuiltins) Lookup(name string) (scope.Declaration, bool) {
	d, ok := f[name]
	return d, ok
}

func (f fakeBuiltins) Names() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	return names
}

func build(t *testing.T, src string) (*hir.ModuleInfo, *scope.Tree) {
	t.Helper()
	file, diags := parser.Parse("test.star", src, ast.Standard)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	mi := hir.Lower(file)
	return mi, scope.Build(mi.Module)
}

func TestResolveNameFindsModuleDeclaration(t *testing.T) {
	_, tree := build(t, "x = 1\n")
	r := NewForModule(tree, nil)
	decls, ok := r.ResolveName("x")
	if !ok || len(decls) != 1 {
		t.Fatalf("want 1 declaration for x, got %v ok=%v", decls, ok)
	}
}

func TestResolveNameReturnsNotFoundForUndefined(t *testing.T) {
	_, tree := build(t, "x = 1\n")
	r := NewForModule(tree, nil)
	if _, ok := r.ResolveName("undefined_name"); ok {
		t.Fatal("want undefined_name to be unresolved")
	}
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	mi, tree := build(t, "x = 1\ndef f():\n    x = 2\n    return x\n")
	def := mi.Module.Stmt(mi.Module.TopLevel[1]).(*hir.Def)
	retStmt := mi.Module.Stmt(def.Body[1]).(*hir.Return)
	r := NewForExpr(tree, nil, retStmt.X)
	decls, ok := r.ResolveName("x")
	if !ok || len(decls) != 1 {
		t.Fatalf("want the def-scope x only, got %v", decls)
	}
	v, ok := decls[0].(scope.Variable)
	if !ok {
		t.Fatalf("want scope.Variable, got %T", decls[0])
	}
	inner, _ := tree.ScopeOfExpr(v.Defining)
	if inner == tree.Module().ID() {
		t.Fatal("resolved declaration should come from the inner def scope, not the module")
	}
}

func TestShadowingWithinSameScopeReturnsLatestLast(t *testing.T) {
	_, tree := build(t, "x = 1\nx = 2\n")
	r := NewForModule(tree, nil)
	decls, ok := r.ResolveName("x")
	if !ok || len(decls) != 2 {
		t.Fatalf("want 2 declarations in source order, got %v", decls)
	}
}

func TestBuiltinIsLowestPriorityAboveModule(t *testing.T) {
	_, tree := build(t, "x = 1\n")
	builtins := fakeBuiltins{"len": scope.BuiltinFunction{ID: "len"}}
	r := NewForModule(tree, builtins)
	if _, ok := r.ResolveName("x"); !ok {
		t.Fatal("want module-scope x resolved")
	}
	decls, ok := r.ResolveName("len")
	if !ok || len(decls) != 1 {
		t.Fatalf("want builtin len resolved, got %v", decls)
	}
	if _, ok := decls[0].(scope.BuiltinFunction); !ok {
		t.Fatalf("want BuiltinFunction, got %T", decls[0])
	}
}

func TestModuleShadowsBuiltin(t *testing.T) {
	_, tree := build(t, "len = 1\n")
	builtins := fakeBuiltins{"len": scope.BuiltinFunction{ID: "len"}}
	r := NewForModule(tree, builtins)
	decls, ok := r.ResolveName("len")
	if !ok {
		t.Fatal("want len resolved")
	}
	if _, ok := decls[0].(scope.Variable); !ok {
		t.Fatalf("want the module-level binding to shadow the builtin, got %T", decls[0])
	}
}

func TestResolveNameIsMemoized(t *testing.T) {
	_, tree := build(t, "x = 1\n")
	r := NewForModule(tree, nil)
	d1, _ := r.ResolveName("x")
	d2, _ := r.ResolveName("x")
	if len(d1) != len(d2) {
		t.Fatal("expected consistent memoized result")
	}
}

func TestNewForOffsetFindsEnclosingScope(t *testing.T) {
	src := "def f():\n    y = 1\n    return y\n"
	mi, tree := build(t, src)
	offset := len(src) - 2 // inside `return y`
	r := NewForOffset(mi, tree, nil, offset)
	if _, ok := r.ResolveName("y"); !ok {
		t.Fatal("want y resolvable from inside the function body")
	}
}

func TestNamesIncludesScopeChainAndBuiltins(t *testing.T) {
	_, tree := build(t, "x = 1\n")
	builtins := fakeBuiltins{"len": scope.BuiltinFunction{ID: "len"}}
	r := NewForModule(tree, builtins)
	names := map[string]bool{}
	for _, nd := range r.Names() {
		names[nd.Name] = true
	}
	if !names["x"] || !names["len"] {
		t.Fatalf("want both x and len in Names(), got %v", names)
	}
}

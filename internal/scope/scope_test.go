package scope

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/parser"
)

func buildSrc(t *testing.T, src string) (*hir.ModuleInfo, *Tree) {
	t.Helper()
	file, diags := parser.Parse("test.star", src, ast.Standard)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	mi := hir.Lower(file)
	return mi, Build(mi.Module)
}

func TestModuleScopeDeclaresTopLevelNames(t *testing.T) {
	_, tree := buildSrc(t, "x = 1\ndef f():\n    pass\n")
	mod := tree.Module()
	if diff := cmp.Diff([]string{"x", "f"}, mod.Names()); diff != "" {
		t.Fatalf("module names mismatch (-want +got):\n%s", diff)
	}
	if _, ok := mod.Lookup("x"); !ok {
		t.Fatal("want x declared in module scope")
	}
	if _, ok := mod.Lookup("f"); !ok {
		t.Fatal("want f declared in module scope")
	}
}

func TestReassignmentKeepsBothDeclarationsInOrder(t *testing.T) {
	_, tree := buildSrc(t, "x = 1\nx = 2\n")
	decls, ok := tree.Module().Lookup("x")
	if !ok || len(decls) != 2 {
		t.Fatalf("want 2 declarations for x, got %v", decls)
	}
}

func TestDefParamsScopedToDefNotModule(t *testing.T) {
	_, tree := buildSrc(t, "def f(a, b=1):\n    return a\n")
	mod := tree.Module()
	if _, ok := mod.Lookup("a"); ok {
		t.Fatal("param a must not leak into module scope")
	}
	if len(tree.Scopes) != 2 {
		t.Fatalf("want module scope + def scope, got %d scopes", len(tree.Scopes))
	}
	def := tree.Scopes[1]
	if def.Exec.Kind != KindDef {
		t.Fatalf("want KindDef, got %v", def.Exec.Kind)
	}
	if def.Parent != mod.ID() {
		t.Fatalf("want def scope parented to module, got %v", def.Parent)
	}
	if _, ok := def.Lookup("a"); !ok {
		t.Fatal("want a declared in def scope")
	}
	if _, ok := def.Lookup("b"); !ok {
		t.Fatal("want b declared in def scope")
	}
}

func TestComprehensionScopeParentedToEnclosingFunctionNotModule(t *testing.T) {
	_, tree := buildSrc(t, "def f():\n    if True:\n        y = [a for a in b]\n")
	var comp *Scope
	for _, s := range tree.Scopes {
		if s.Exec.Kind == KindComp {
			comp = s
		}
	}
	if comp == nil {
		t.Fatal("want a comprehension scope")
	}
	var def *Scope
	for _, s := range tree.Scopes {
		if s.Exec.Kind == KindDef {
			def = s
		}
	}
	if def == nil {
		t.Fatal("want a def scope")
	}
	if comp.Parent != def.ID() {
		t.Fatalf("want comprehension scope parented to the enclosing def (%v), got %v", def.ID(), comp.Parent)
	}
	if _, ok := comp.Lookup("a"); !ok {
		t.Fatal("want comprehension target a declared in comp scope")
	}
}

func TestForLoopDeclaresTargetInEnclosingScope(t *testing.T) {
	_, tree := buildSrc(t, "for x in y:\n    pass\n")
	if _, ok := tree.Module().Lookup("x"); !ok {
		t.Fatal("want for-loop target declared in module scope")
	}
}

func TestLoadItemsDeclaredWithLocalName(t *testing.T) {
	_, tree := buildSrc(t, `load("//foo:bar.bzl", "baz", qux = "quux")`+"\n")
	if _, ok := tree.Module().Lookup("baz"); !ok {
		t.Fatal("want baz declared")
	}
	if _, ok := tree.Module().Lookup("qux"); !ok {
		t.Fatal("want qux declared under its local name")
	}
	if _, ok := tree.Module().Lookup("quux"); ok {
		t.Fatal("must not declare under the source name")
	}
}

func TestLambdaParamsGetOwnScope(t *testing.T) {
	_, tree := buildSrc(t, "f = lambda x: x\n")
	var lam *Scope
	for _, s := range tree.Scopes {
		if s.Exec.Kind == KindLambda {
			lam = s
		}
	}
	if lam == nil {
		t.Fatal("want a lambda scope")
	}
	if _, ok := tree.Module().Lookup("x"); ok {
		t.Fatal("lambda param must not leak into module scope")
	}
	if _, ok := lam.Lookup("x"); !ok {
		t.Fatal("want x declared in lambda scope")
	}
}

func TestDestructuringAssignmentDeclaresEachLeaf(t *testing.T) {
	_, tree := buildSrc(t, "a, (b, c) = 1, (2, 3)\n")
	for _, name := range []string{"a", "b", "c"} {
		if _, ok := tree.Module().Lookup(name); !ok {
			t.Fatalf("want %s declared from destructuring assignment", name)
		}
	}
}

func TestExprAndStmtMembershipRecorded(t *testing.T) {
	mi, tree := buildSrc(t, "x = 1 + 2\n")
	assign := mi.Module.Stmt(mi.Module.TopLevel[0]).(*hir.Assign)
	if _, ok := tree.ScopeOfStmt(mi.Module.TopLevel[0]); !ok {
		t.Fatal("want the assign statement to have a recorded scope")
	}
	if _, ok := tree.ScopeOfExpr(assign.Rhs); !ok {
		t.Fatal("want the rhs expression to have a recorded scope")
	}
}

package types_test

import (
	"testing"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/types"
)

func TestInferCallWithKeywordArgument(t *testing.T) {
	mi, c, in := newCtx(t, "xs = [1, 2]\na = sorted(xs, reverse=True, key=None)\n")
	ty, err := c.InferExpr(nthAssignRhs(t, mi, 1))
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.List(in.Int()) {
		t.Fatalf("want sorted(list[int], reverse=True, key=None) -> list[int], got %v", ty)
	}
	for _, d := range c.Diagnostics() {
		t.Fatalf("want no diagnostics, got %v: %s", d.Kind, d.Message)
	}
}

func TestInferCallMissingKeywordArgumentDiagnoses(t *testing.T) {
	mi, c, _ := newCtx(t, "xs = [1, 2]\na = sorted(xs, reverse=True)\n")
	if _, err := c.InferExpr(nthAssignRhs(t, mi, 1)); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP002 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP002 diagnostic for sorted's unfilled key keyword slot")
	}
}

func TestInferCallVarArgListAbsorbsExtraPositionals(t *testing.T) {
	mi, c, in := newCtx(t, "r = range(1, 2, 3)\n")
	ty, err := c.InferExpr(nthAssignRhs(t, mi, 0))
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.Range() {
		t.Fatalf("want range(1,2,3) -> range, got %v", ty)
	}
	for _, d := range c.Diagnostics() {
		t.Fatalf("want no diagnostics for fully vararg-absorbed positionals, got %v: %s", d.Kind, d.Message)
	}
}

func TestInferCallArgumentTypeMismatchDiagnoses(t *testing.T) {
	mi, c, _ := newCtx(t, "a = int(1, base=\"not an int\")\n")
	if _, err := c.InferExpr(nthAssignRhs(t, mi, 0)); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP001 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP001 diagnostic for base=\"not an int\"")
	}
}

func TestResolveCallExprActiveParam(t *testing.T) {
	mi, tree, cat, in := build(t, ast.Standard, "xs = [1, 2]\na = sorted(xs, reverse=True)\n")
	c := types.NewContext(mi, tree, cat, cat, in, nil)
	rhs := nthAssignRhs(t, mi, 1)
	call := mi.Module.Expr(rhs).(*hir.Call)

	slot0, ok := c.ResolveCallExprActiveParam(rhs, 0)
	if !ok || slot0 != 0 {
		t.Fatalf("want argument 0 (xs) to bind slot 0, got %d ok=%v", slot0, ok)
	}
	slot1, ok := c.ResolveCallExprActiveParam(rhs, 1)
	if !ok || slot1 != 1 {
		t.Fatalf("want argument 1 (reverse=True) to bind slot 1, got %d ok=%v", slot1, ok)
	}
	if _, ok := c.ResolveCallExprActiveParam(rhs, len(call.Args)); ok {
		t.Fatal("want an out-of-range argument index to report not-ok")
	}
}

func TestInferCallAnyCalleeYieldsUnknownWithoutDiagnostic(t *testing.T) {
	mi, c, _ := newCtx(t, "def f(x):\n    y = x(1, 2, 3)\n")
	def := mi.Module.Stmt(mi.Module.TopLevel[0]).(*hir.Def)
	inner := mi.Module.Stmt(def.Body[0]).(*hir.Assign)
	ty, err := c.InferExpr(inner.Rhs)
	if err != nil {
		t.Fatal(err)
	}
	if ty.Kind() != types.KindUnknown {
		t.Fatalf("want calling an untyped parameter to yield Unknown, got %v", ty)
	}
	for _, d := range c.Diagnostics() {
		t.Fatalf("want no diagnostics for calling an Unknown-typed value, got %v: %s", d.Kind, d.Message)
	}
}

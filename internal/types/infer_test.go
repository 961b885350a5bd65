package types_test

import (
	"testing"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/builtins"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/parser"
	"github.com/starlark-lsp/semcore/internal/scope"
	"github.com/starlark-lsp/semcore/internal/types"
)

// build lowers src and loads dialect's catalog, returning
// everything a Context needs plus the interner it was built with.
func build(t *testing.T, dialect ast.Dialect, src string) (*hir.ModuleInfo, *scope.Tree, *builtins.Catalog, *types.Interner) {
	t.Helper()
	file, diags := parser.Parse("test.star", src, dialect)
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}
	mi := hir.Lower(file)
	tree := scope.Build(mi.Module)
	in := types.NewInterner()
	cat, err := builtins.ForDialect(in, dialect)
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return mi, tree, cat, in
}

func newCtx(t *testing.T, src string) (*hir.ModuleInfo, *types.Context, *types.Interner) {
	t.Helper()
	mi, tree, cat, in := build(t, ast.Standard, src)
	return mi, types.NewContext(mi, tree, cat, cat, in, nil), in
}

// nthAssignRhs returns the ExprId of the rhs of the n'th (0-indexed)
// top-level Assign statement.
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

func nthAssignLhs(t *testing.T, mi *hir.ModuleInfo, n int) hir.ExprId {
	t.Helper()
	count := 0
	for _, sid := range mi.Module.TopLevel {
		if a, ok := mi.Module.Stmt(sid).(*hir.Assign); ok {
			if count == n {
				return a.Lhs
			}
			count++
		}
	}
	t.Fatalf("want at least %d top-level assignments", n+1)
	return hir.InvalidExprId
}

func TestInferLiterals(t *testing.T) {
	mi, c, in := newCtx(t, "a = 1\nb = 1.5\nc = \"s\"\nd = True\ne = None\n")
	cases := []struct {
		n    int
		want types.Ty
	}{
		{0, in.Int()},
		{1, in.Float()},
		{2, in.String()},
		{3, in.Bool()},
		{4, in.None()},
	}
	for _, tc := range cases {
		id := nthAssignRhs(t, mi, tc.n)
		ty, err := c.InferExpr(id)
		if err != nil {
			t.Fatalf("case %d: %v", tc.n, err)
		}
		if ty != tc.want {
			t.Fatalf("case %d: want %v, got %v", tc.n, tc.want, ty)
		}
	}
}

func TestInferNameAndAssignPropagation(t *testing.T) {
	mi, c, in := newCtx(t, "x = 1\ny = x\n")
	rhs := nthAssignRhs(t, mi, 1)
	ty, err := c.InferExpr(rhs)
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.Int() {
		t.Fatalf("want y's rhs (x) to infer as int, got %v", ty)
	}
}

func TestInferUndefinedNameDiagnoses(t *testing.T) {
	mi, c, in := newCtx(t, "y = undefined_name\n")
	rhs := nthAssignRhs(t, mi, 0)
	ty, err := c.InferExpr(rhs)
	if err != nil {
		t.Fatal(err)
	}
	if ty.Kind() != types.KindUnbound {
		t.Fatalf("want Unbound for an undefined name, got %v", ty)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.NAM001 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a NAM001 diagnostic for the undefined name")
	}
	_ = in
}

func TestInferListCommonType(t *testing.T) {
	mi, c, in := newCtx(t, "a = [1, 2, 3]\nb = [1, \"s\"]\nc = []\n")
	ty, err := c.InferExpr(nthAssignRhs(t, mi, 0))
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.List(in.Int()) {
		t.Fatalf("want list[int], got %v", ty)
	}

	ty, err = c.InferExpr(nthAssignRhs(t, mi, 1))
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.List(in.Unknown()) {
		t.Fatalf("want list[unknown] for a mixed-type list, got %v", ty)
	}

	ty, err = c.InferExpr(nthAssignRhs(t, mi, 2))
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.List(in.Unknown()) {
		t.Fatalf("want list[unknown] for an empty list, got %v", ty)
	}
}

func TestInferDictCommonType(t *testing.T) {
	mi, c, in := newCtx(t, "d = {\"a\": 1, \"b\": 2}\n")
	ty, err := c.InferExpr(nthAssignRhs(t, mi, 0))
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.Dict(in.String(), in.Int()) {
		t.Fatalf("want dict[string, int], got %v", ty)
	}
}

func TestInferTupleDestructuring(t *testing.T) {
	mi, c, in := newCtx(t, "a, b = (1, \"s\")\n")
	lhs := nthAssignLhs(t, mi, 0)
	tup := mi.Module.Expr(lhs).(*hir.Tuple)

	rhs := nthAssignRhs(t, mi, 0)
	if _, err := c.InferExpr(rhs); err != nil {
		t.Fatal(err)
	}

	aTy, err := c.InferExpr(tup.Elems[0])
	if err != nil {
		t.Fatal(err)
	}
	if aTy != in.Int() {
		t.Fatalf("want a to be int, got %v", aTy)
	}
	bTy, err := c.InferExpr(tup.Elems[1])
	if err != nil {
		t.Fatal(err)
	}
	if bTy != in.String() {
		t.Fatalf("want b to be string, got %v", bTy)
	}
}

func TestInferTupleArityMismatchDiagnoses(t *testing.T) {
	mi, c, in := newCtx(t, "a, b, c = (1, 2)\n")
	rhs := nthAssignRhs(t, mi, 0)
	if _, err := c.InferExpr(rhs); err != nil {
		t.Fatal(err)
	}
	lhs := nthAssignLhs(t, mi, 0)
	tup := mi.Module.Expr(lhs).(*hir.Tuple)
	cTy, err := c.InferExpr(tup.Elems[2])
	if err != nil {
		t.Fatal(err)
	}
	if cTy != in.Unknown() {
		t.Fatalf("want excess target c to be Unknown, got %v", cTy)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP008 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP008 diagnostic for the arity mismatch")
	}
}

func TestInferForLoopTargetFromListElement(t *testing.T) {
	mi, c, in := newCtx(t, "xs = [1, 2]\nfor v in xs:\n    y = v\n")

	forStmt := mi.Module.Stmt(mi.Module.TopLevel[1]).(*hir.For)
	innerAssign := mi.Module.Stmt(forStmt.Body[0]).(*hir.Assign)
	ty, err := c.InferExpr(innerAssign.Rhs)
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.Int() {
		t.Fatalf("want the for-target v to carry xs's element type, got %v", ty)
	}
}

func TestInferBinaryArithmeticWidening(t *testing.T) {
	mi, c, in := newCtx(t, "a = 1 + 1\nb = 1 + 1.5\nc = \"x\" + \"y\"\n")
	if ty, _ := c.InferExpr(nthAssignRhs(t, mi, 0)); ty != in.Int() {
		t.Fatalf("want int+int -> int, got %v", ty)
	}
	if ty, _ := c.InferExpr(nthAssignRhs(t, mi, 1)); ty != in.Float() {
		t.Fatalf("want int+float -> float, got %v", ty)
	}
	if ty, _ := c.InferExpr(nthAssignRhs(t, mi, 2)); ty != in.String() {
		t.Fatalf("want string+string -> string, got %v", ty)
	}
}

func TestInferBinaryOperatorMismatchDiagnoses(t *testing.T) {
	mi, c, _ := newCtx(t, "a = 1 + \"s\"\n")
	rhs := nthAssignRhs(t, mi, 0)
	ty, err := c.InferExpr(rhs)
	if err != nil {
		t.Fatal(err)
	}
	if ty.Kind() != types.KindUnknown {
		t.Fatalf("want Unknown for an unsupported operator/operand combination, got %v", ty)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP009 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP009 diagnostic")
	}
}

func TestInferIndexListAndDict(t *testing.T) {
	mi, c, in := newCtx(t, "xs = [1, 2]\na = xs[0]\nd = {\"k\": 1}\nb = d[\"k\"]\n")
	if ty, _ := c.InferExpr(nthAssignRhs(t, mi, 1)); ty != in.Int() {
		t.Fatalf("want xs[0] to be int, got %v", ty)
	}
	if ty, _ := c.InferExpr(nthAssignRhs(t, mi, 3)); ty != in.Int() {
		t.Fatalf("want d[\"k\"] to be int, got %v", ty)
	}
}

func TestInferIndexNonIndexableDiagnoses(t *testing.T) {
	mi, c, _ := newCtx(t, "x = 1\na = x[0]\n")
	rhs := nthAssignRhs(t, mi, 1)
	ty, err := c.InferExpr(rhs)
	if err != nil {
		t.Fatal(err)
	}
	if ty.Kind() != types.KindUnknown {
		t.Fatalf("want Unknown, got %v", ty)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP005 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP005 diagnostic")
	}
}

func TestInferCallBuiltinFunction(t *testing.T) {
	mi, c, in := newCtx(t, "xs = [\"a\", \"b\"]\na = len(xs)\n")
	ty, err := c.InferExpr(nthAssignRhs(t, mi, 1))
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.Int() {
		t.Fatalf("want len(xs) to be int, got %v", ty)
	}
}

func TestInferCallMissingArgumentDiagnoses(t *testing.T) {
	mi, c, _ := newCtx(t, "a = len()\n")
	if _, err := c.InferExpr(nthAssignRhs(t, mi, 0)); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP002 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP002 diagnostic for a missing required argument")
	}
}

func TestInferCallUnexpectedArgumentDiagnoses(t *testing.T) {
	mi, c, _ := newCtx(t, "a = len(1, 2)\n")
	if _, err := c.InferExpr(nthAssignRhs(t, mi, 0)); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP003 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP003 diagnostic for an unexpected extra argument")
	}
}

func TestInferCallNotCallableDiagnoses(t *testing.T) {
	mi, c, _ := newCtx(t, "x = 1\na = x()\n")
	ty, err := c.InferExpr(nthAssignRhs(t, mi, 1))
	if err != nil {
		t.Fatal(err)
	}
	if ty.Kind() != types.KindUnknown {
		t.Fatalf("want Unknown, got %v", ty)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP004 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP004 diagnostic for calling a non-callable value")
	}
}

func TestInferParamSimpleAndVarArgForms(t *testing.T) {
	mi, tree, cat, in := build(t, ast.Standard, "def f(x: \"int\", *args, **kwargs):\n    pass\n")
	c := types.NewContext(mi, tree, cat, cat, in, nil)
	def := mi.Module.Stmt(mi.Module.TopLevel[0]).(*hir.Def)

	xTy, err := c.InferParam(def.Params[0])
	if err != nil {
		t.Fatal(err)
	}
	if xTy != in.Int() {
		t.Fatalf("want x: \"int\" to resolve to int, got %v", xTy)
	}

	argsTy, err := c.InferParam(def.Params[1])
	if err != nil {
		t.Fatal(err)
	}
	if argsTy != in.List(in.Unknown()) {
		t.Fatalf("want *args to be list[unknown], got %v", argsTy)
	}

	kwargsTy, err := c.InferParam(def.Params[2])
	if err != nil {
		t.Fatal(err)
	}
	if kwargsTy != in.Dict(in.Any(), in.Any()) {
		t.Fatalf("want **kwargs to be dict[any, any], got %v", kwargsTy)
	}
}

func TestInferParamUnknownTypeRefDiagnoses(t *testing.T) {
	mi, tree, cat, in := build(t, ast.Standard, "def f(x: \"not_a_real_type\"):\n    pass\n")
	c := types.NewContext(mi, tree, cat, cat, in, nil)
	def := mi.Module.Stmt(mi.Module.TopLevel[0]).(*hir.Def)

	ty, err := c.InferParam(def.Params[0])
	if err != nil {
		t.Fatal(err)
	}
	if ty.Kind() != types.KindUnknown {
		t.Fatalf("want Unknown for an unresolvable annotation, got %v", ty)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.RES003 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a RES003 diagnostic for the unresolvable annotation")
	}
}

func TestInferLambdaAndDefYieldDistinctFunctionTypes(t *testing.T) {
	mi, c, _ := newCtx(t, "def f():\n    pass\ng = lambda: 1\nh = f\n")
	gTy, err := c.InferExpr(nthAssignRhs(t, mi, 0))
	if err != nil {
		t.Fatal(err)
	}
	if gTy.Kind() != types.KindFunction {
		t.Fatalf("want lambda to infer as a Function, got %v", gTy)
	}

	hTy, err := c.InferExpr(nthAssignRhs(t, mi, 1))
	if err != nil {
		t.Fatal(err)
	}
	if hTy.Kind() != types.KindFunction {
		t.Fatalf("want a reference to def f to infer as a Function, got %v", hTy)
	}
	if hTy == gTy {
		t.Fatal("want f and the lambda to carry distinct FnIds")
	}
}

func TestInferDotAccessOnDictLike(t *testing.T) {
	mi, c, in := newCtx(t, "d = {\"a\": 1}\nk = d.keys\n")
	ty, err := c.InferExpr(nthAssignRhs(t, mi, 1))
	if err != nil {
		t.Fatal(err)
	}
	if ty != in.List(in.String()) {
		t.Fatalf("want d.keys to be list[string], got %v", ty)
	}
}

func TestInferDotUnknownFieldDiagnoses(t *testing.T) {
	mi, c, _ := newCtx(t, "d = {\"a\": 1}\nk = d.not_a_field\n")
	ty, err := c.InferExpr(nthAssignRhs(t, mi, 1))
	if err != nil {
		t.Fatal(err)
	}
	if ty.Kind() != types.KindUnknown {
		t.Fatalf("want Unknown, got %v", ty)
	}
	found := false
	for _, d := range c.Diagnostics() {
		if d.Kind == errors.TYP006 {
			found = true
		}
	}
	if !found {
		t.Fatal("want a TYP006 diagnostic for an unknown field")
	}
}

func TestCancellationUnwindsToErrCancelled(t *testing.T) {
	mi, tree, cat, in := build(t, ast.Standard, "x = 1\ny = x\n")
	c := types.NewContext(mi, tree, cat, cat, in, alwaysCancelled{})
	_, err := c.InferExpr(nthAssignRhs(t, mi, 1))
	if err != types.ErrCancelled {
		t.Fatalf("want ErrCancelled, got %v", err)
	}
}

type alwaysCancelled struct{}

func (alwaysCancelled) Cancelled() bool { return true }

package codeflow

import (
	"testing"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/parser"
	"github.com/starlark-lsp/semcore/internal/scope"
)

func buildGraph(t *testing.T, src string) (*hir.ModuleInfo, *Graph) {
	t.Helper()
	file, diags := parser.Parse("test.star", src, ast.Standard)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	mi := hir.Lower(file)
	tree := scope.Build(mi.Module)
	return mi, Build(mi.Module, tree)
}

func TestEmptyModuleHasStartAndUnreachableOnly(t *testing.T) {
	_, g := buildGraph(t, "")
	if len(g.Nodes) != 2 {
		t.Fatalf("want 2 nodes, got %d", len(g.Nodes))
	}
	if g.Nodes[0].Kind != KindUnreachable {
		t.Fatalf("want node 0 Unreachable, got %v", g.Nodes[0].Kind)
	}
	if g.Nodes[1].Kind != KindStart {
		t.Fatalf("want node 1 Start, got %v", g.Nodes[1].Kind)
	}
}

func TestSequentialAssignmentsChainAntecedents(t *testing.T) {
	_, g := buildGraph(t, "x = 1\ny = \"a\"\n")
	if len(g.Nodes) != 4 {
		t.Fatalf("want 4 nodes, got %d", len(g.Nodes))
	}
	xNode := g.Nodes[2]
	if xNode.Kind != KindAssign || xNode.Name != "x" || xNode.Antecedent != 1 {
		t.Fatalf("unexpected x node: %#v", xNode)
	}
	yNode := g.Nodes[3]
	if yNode.Kind != KindAssign || yNode.Name != "y" || yNode.Antecedent != 2 {
		t.Fatalf("unexpected y node: %#v", yNode)
	}
}

func TestIfWithoutElseFallsThroughToPreIf(t *testing.T) {
	_, g := buildGraph(t, "if x > 0:\n    y = 1\n")
	var branch *FlowNode
	for i := range g.Nodes {
		if g.Nodes[i].Kind == KindBranch {
			branch = &g.Nodes[i]
		}
	}
	if branch == nil {
		t.Fatal("want a Branch node")
	}
	if len(branch.Antecedents) != 2 {
		t.Fatalf("want 2 antecedents (if-body end + pre-if fallthrough), got %v", branch.Antecedents)
	}
}

func TestDefBodyGetsSeparateExecutionScope(t *testing.T) {
	mi, g := buildGraph(t, "def f():\n    x = 1\n\nx = 3\n")
	var moduleAssign, defAssign *FlowNode
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Kind != KindAssign || n.Name != "x" {
			continue
		}
		if n.ExecutionScope.Kind == scope.KindModule {
			moduleAssign = n
		} else if n.ExecutionScope.Kind == scope.KindDef {
			defAssign = n
		}
	}
	if moduleAssign == nil || defAssign == nil {
		t.Fatalf("want one module-scope and one def-scope assignment to x")
	}
	if defAssign.ExecutionScope.Def != mi.Module.TopLevel[0] {
		t.Fatalf("want def-scope assignment's Exec.Def to name the enclosing def, got %v", defAssign.ExecutionScope.Def)
	}
}

func TestListComprehensionTargetUsesCompScope(t *testing.T) {
	_, g := buildGraph(t, "nums = [x for x in range(10)]\n")
	var compAssign *FlowNode
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Kind == KindAssign && n.Name == "x" {
			compAssign = n
		}
	}
	if compAssign == nil {
		t.Fatal("want an assign node for the comprehension target x")
	}
	if compAssign.ExecutionScope.Kind != scope.KindComp {
		t.Fatalf("want comprehension target scoped to Comp, got %v", compAssign.ExecutionScope.Kind)
	}
}

func TestForLoopAllocatesLoopAndBranchNodes(t *testing.T) {
	_, g := buildGraph(t, "for x in range(1, 5):\n    pass\n")
	var loopCount, branchCount int
	for _, n := range g.Nodes {
		if n.Kind == KindLoop {
			loopCount++
		}
		if n.Kind == KindBranch {
			branchCount++
		}
	}
	if loopCount != 1 || branchCount != 1 {
		t.Fatalf("want 1 Loop and 1 Branch node, got loop=%d branch=%d", loopCount, branchCount)
	}
}

func TestBreakTargetsPostForBranch(t *testing.T) {
	_, g := buildGraph(t, "for x in range(1, 5):\n    break\n")
	var branch *FlowNode
	for i := range g.Nodes {
		if g.Nodes[i].Kind == KindBranch {
			branch = &g.Nodes[i]
		}
	}
	if branch == nil || len(branch.Antecedents) != 1 {
		t.Fatalf("want post-for branch with exactly the break antecedent, got %#v", branch)
	}
}

func TestCodeAfterBreakIsUnreachableAndNotRecorded(t *testing.T) {
	mi, g := buildGraph(t, "for x in range(1, 5):\n    y = 1\n    break\n    z = 1\n\na = 1\n")
	forStmt := mi.Module.Stmt(mi.Module.TopLevel[0]).(*hir.For)
	// z = 1 is the third body statement; it must never have a recorded
	// flow node since it's unreachable.
	zStmt := forStmt.Body[2]
	if _, ok := g.FlowNodeForStmt(zStmt); ok {
		t.Fatal("statement after break must not have a recorded flow node")
	}
	// a = 1 after the loop must still be reachable.
	aStmt := mi.Module.TopLevel[1]
	if _, ok := g.FlowNodeForStmt(aStmt); !ok {
		t.Fatal("statement after the loop must be reachable")
	}
}

func TestContinueTargetsPreForLoopNode(t *testing.T) {
	_, g := buildGraph(t, "for x in range(5):\n    y = 1\n    continue\n    z = 2\n")
	var loop *FlowNode
	for i := range g.Nodes {
		if g.Nodes[i].Kind == KindLoop {
			loop = &g.Nodes[i]
		}
	}
	if loop == nil {
		t.Fatal("want a Loop node")
	}
	if len(loop.Antecedents) != 2 {
		t.Fatalf("want 2 antecedents (loop entry + continue), got %v", loop.Antecedents)
	}
}

func TestModuleFlowNodeRecordedAfterLastStatement(t *testing.T) {
	_, g := buildGraph(t, "x = 1\n")
	if _, ok := g.FlowNodeForModule(); !ok {
		t.Fatal("want a recorded flow node for the module position")
	}
}

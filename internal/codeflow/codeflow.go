// Package codeflow builds, for one lowered module, the flow-sensitive
// substrate type inference needs to pick up a name's most recent
// assignment on every path reaching a use site.
//
// The construction rules are transcribed closely from
// original_source/crates/starpls_hir/src/def/codeflow.rs (spec.md §4.4 is
// itself a close paraphrase of that file): a single forward walk over the
// HIR allocating Assign/Branch/Loop nodes as it goes, threading a current
// node plus break/continue targets the way a textbook CFG builder would,
// generalized only in naming (FlowNode/FlowNodeId here vs. the original's
// id_arena-based Arena<FlowNode>/Id<FlowNode>).
package codeflow

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/scope"
)

// FlowNodeId is a dense index into a Graph's Nodes arena.
type FlowNodeId uint32

// Kind tags a FlowNode's variant.
type Kind int

const (
	KindStart Kind = iota
	KindAssign
	KindBranch
	KindLoop
	KindUnreachable
)

// FlowNode is one node of the graph. Only the fields relevant to Kind are
// populated: Assign fields for KindAssign, Antecedents for
// KindBranch/KindLoop, nothing extra for KindStart/KindUnreachable.
type FlowNode struct {
	Kind Kind

	Expr           hir.ExprId
	Name           string
	ExecutionScope scope.Exec
	Source         hir.ExprId
	Antecedent     FlowNodeId

	Antecedents []FlowNodeId
}

// HirKind tags which of Graph's three addressable HIR positions a HirId
// names.
type HirKind int

const (
	HirModule HirKind = iota
	HirExpr
	HirStmt
)

// HirId addresses one position lowering recorded a current flow node for:
// the module as a whole (after its last top-level statement), a specific
// expression, or a specific statement.
type HirId struct {
	Kind HirKind
	Expr hir.ExprId
	Stmt hir.StmtId
}

// Graph is the code-flow graph for one module: a dense Nodes arena plus
// the map from HIR positions to the flow node current at that position.
// Exactly one Unreachable node exists, always at index 0.
type Graph struct {
	Nodes   []FlowNode
	ByHirId map[HirId]FlowNodeId
}

// Node returns the node stored at id.
func (g *Graph) Node(id FlowNodeId) FlowNode { return g.Nodes[id] }

// FlowNodeForExpr returns the flow node current at expr's position.
func (g *Graph) FlowNodeForExpr(id hir.ExprId) (FlowNodeId, bool) {
	n, ok := g.ByHirId[HirId{Kind: HirExpr, Expr: id}]
	return n, ok
}

// FlowNodeForStmt returns the flow node current at stmt's position.
func (g *Graph) FlowNodeForStmt(id hir.StmtId) (FlowNodeId, bool) {
	n, ok := g.ByHirId[HirId{Kind: HirStmt, Stmt: id}]
	return n, ok
}

// FlowNodeForModule returns the flow node current after the module's last
// top-level statement.
func (g *Graph) FlowNodeForModule() (FlowNodeId, bool) {
	n, ok := g.ByHirId[HirId{Kind: HirModule}]
	return n, ok
}

// Build runs the forward CFG construction pass over mod's top-level
// statements, using tree only to look up the ExecutionScope an assignment
// target belongs to.
func Build(mod *hir.Module, tree *scope.Tree) *Graph {
	g := &Graph{ByHirId: make(map[HirId]FlowNodeId)}
	b := &builder{mod: mod, tree: tree, graph: g}
	b.unreachable = b.alloc(FlowNode{Kind: KindUnreachable})
	b.curr = b.alloc(FlowNode{Kind: KindStart})
	b.lowerStmts(mod.TopLevel)
	g.ByHirId[HirId{Kind: HirModule}] = b.curr
	return g
}

type builder struct {
	mod   *hir.Module
	tree  *scope.Tree
	graph *Graph

	curr        FlowNodeId
	unreachable FlowNodeId

	breakTarget    *FlowNodeId
	continueTarget *FlowNodeId
}

func (b *builder) alloc(n FlowNode) FlowNodeId {
	id := FlowNodeId(len(b.graph.Nodes))
	b.graph.Nodes = append(b.graph.Nodes, n)
	return id
}

func (b *builder) pushAntecedent(this, antecedent FlowNodeId) {
	if antecedent == b.unreachable {
		return
	}
	n := &b.graph.Nodes[this]
	for _, a := range n.Antecedents {
		if a == antecedent {
			return
		}
	}
	n.Antecedents = append(n.Antecedents, antecedent)
}

// lowerStmts lowers each statement in order, stopping as soon as curr
// reaches the Unreachable node: everything after a break/continue in the
// same suite has no representation in the graph.
func (b *builder) lowerStmts(ids []hir.StmtId) {
	for _, id := range ids {
		b.lowerStmt(id)
		if b.curr == b.unreachable {
			break
		}
	}
}

func (b *builder) lowerStmt(id hir.StmtId) {
	switch s := b.mod.Stmt(id).(type) {
	case *hir.Assign:
		b.lowerAssignmentTarget(s.Lhs, s.Rhs)
		b.graph.ByHirId[HirId{Kind: HirStmt, Stmt: id}] = b.curr

	case *hir.Def:
		saved := b.curr
		b.curr = b.alloc(FlowNode{Kind: KindStart})
		b.lowerStmts(s.Body)
		b.graph.ByHirId[HirId{Kind: HirStmt, Stmt: id}] = b.curr
		b.curr = saved

	case *hir.If:
		b.lowerExpr(s.Test)
		preIf := b.curr
		postIf := b.alloc(FlowNode{Kind: KindBranch})
		b.lowerStmts(s.Body)
		b.pushAntecedent(postIf, b.curr)
		switch {
		case s.Elif != hir.InvalidStmtId:
			b.curr = preIf
			b.lowerStmt(s.Elif)
			b.pushAntecedent(postIf, b.curr)
		case len(s.Else) > 0:
			b.curr = preIf
			b.lowerStmts(s.Else)
			b.pushAntecedent(postIf, b.curr)
		default:
			b.pushAntecedent(postIf, preIf)
		}
		b.curr = postIf

	case *hir.Return:
		if s.X.Valid() {
			b.lowerExpr(s.X)
		}

	case *hir.ExprStmt:
		b.lowerExpr(s.X)

	case *hir.For:
		for _, target := range s.Targets {
			b.lowerAssignmentTarget(target, s.Iterable)
		}

		preFor := b.alloc(FlowNode{Kind: KindLoop})
		postFor := b.alloc(FlowNode{Kind: KindBranch})

		prevBreak, prevContinue := b.breakTarget, b.continueTarget
		bt, ct := postFor, preFor
		b.breakTarget, b.continueTarget = &bt, &ct

		b.pushAntecedent(preFor, b.curr)
		b.curr = preFor
		b.lowerStmts(s.Body)

		b.pushAntecedent(preFor, b.curr)
		b.pushAntecedent(postFor, preFor)
		b.curr = postFor

		b.breakTarget, b.continueTarget = prevBreak, prevContinue

	case *hir.Continue:
		if b.continueTarget != nil {
			b.pushAntecedent(*b.continueTarget, b.curr)
		}
		b.curr = b.unreachable

	case *hir.Break:
		if b.breakTarget != nil {
			b.pushAntecedent(*b.breakTarget, b.curr)
		}
		b.curr = b.unreachable

	case *hir.Load, *hir.Pass:
		// no flow effect
	}
}

func (b *builder) lowerExpr(id hir.ExprId) {
	switch e := b.mod.Expr(id).(type) {
	case *hir.Name:
		b.graph.ByHirId[HirId{Kind: HirExpr, Expr: id}] = b.curr
	case *hir.DictComp:
		b.lowerCompClauses(e.Clauses)
		b.lowerExpr(e.Key)
		b.lowerExpr(e.Value)
	case *hir.ListComp:
		b.lowerCompClauses(e.Clauses)
		b.lowerExpr(e.Body)
	default:
		hir.WalkChildExprs(b.mod, e, b.lowerExpr)
	}
}

// lowerAssignmentTarget recurses through destructuring targets
// (Paren/Tuple/List), allocating one Assign node per leaf Name in
// left-to-right order so the rightmost leaf becomes the new current node,
// exactly mirroring a sequence of single assignments.
func (b *builder) lowerAssignmentTarget(id, source hir.ExprId) {
	b.lowerExpr(source)
	switch e := b.mod.Expr(id).(type) {
	case *hir.Name:
		execScope := scope.Exec{}
		if sid, ok := b.tree.ScopeOfExpr(id); ok {
			execScope = b.tree.Scope(sid).Exec
		}
		assignId := b.alloc(FlowNode{
			Kind:           KindAssign,
			Expr:           id,
			Name:           e.Ident,
			ExecutionScope: execScope,
			Source:         source,
			Antecedent:     b.curr,
		})
		b.curr = assignId
		b.graph.ByHirId[HirId{Kind: HirExpr, Expr: id}] = b.curr
	case *hir.Paren:
		b.lowerAssignmentTarget(e.X, source)
	case *hir.Tuple:
		for _, el := range e.Elems {
			b.lowerAssignmentTarget(el, source)
		}
	case *hir.List:
		for _, el := range e.Elems {
			b.lowerAssignmentTarget(el, source)
		}
	default:
		hir.WalkChildExprs(b.mod, e, b.lowerExpr)
	}
}

func (b *builder) lowerCompClauses(clauses []hir.CompClause) {
	for _, c := range clauses {
		if c.ClauseKind == ast.CompFor {
			b.lowerExpr(c.Iterable)
			for _, target := range c.Targets {
				b.lowerAssignmentTarget(target, c.Iterable)
			}
		} else {
			b.lowerExpr(c.Test)
		}
	}
}

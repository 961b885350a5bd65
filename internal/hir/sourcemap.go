package hir

import "github.com/starlark-lsp/semcore/internal/ast"

// SourceMap is the bidirectional mapping spec.md §3 requires between
// syntax-node pointers (ast.AstPtr, a stable (kind, text-range) pair)
// and the HIR IDs lowering assigned them: AstPtr<Expr> ⇄ ExprId,
// AstPtr<Stmt> ⇄ StmtId, AstPtr<Param> ⇄ ParamId, AstPtr<LoadItem> ⇄
// LoadItemId. Round-trip through either direction returns the original
// key for any ID Lower registered under a syntax node.
//
// Every *Back slice is grown in lockstep with the corresponding Module
// arena, one entry per allocated node, so index i of an arena and index
// i of its *Back slice always describe the same node. Optional children
// recorded as InvalidExprId/InvalidStmtId are never allocated and never
// appear here; a nil child passed to lowerExpr is allocated an Unknown
// node whose *Back entry is the zero AstPtr and which has no forward
// entry.
type SourceMap struct {
	exprFwd  map[ast.AstPtr]ExprId
	exprBack []ast.AstPtr

	stmtFwd  map[ast.AstPtr]StmtId
	stmtBack []ast.AstPtr

	paramFwd  map[ast.AstPtr]ParamId
	paramBack []ast.AstPtr

	loadItemFwd  map[ast.AstPtr]LoadItemId
	loadItemBack []ast.AstPtr
}

func newSourceMap() *SourceMap {
	return &SourceMap{
		exprFwd:     make(map[ast.AstPtr]ExprId),
		stmtFwd:     make(map[ast.AstPtr]StmtId),
		paramFwd:    make(map[ast.AstPtr]ParamId),
		loadItemFwd: make(map[ast.AstPtr]LoadItemId),
	}
}

// ExprID returns the ExprId registered for ptr, if lowering produced one.
func (sm *SourceMap) ExprID(ptr ast.AstPtr) (ExprId, bool) {
	id, ok := sm.exprFwd[ptr]
	return id, ok
}

// ExprPtr returns the AstPtr id was registered under, the zero AstPtr if
// id was allocated for an intentionally-absent child with no syntax node
// of its own.
func (sm *SourceMap) ExprPtr(id ExprId) ast.AstPtr { return sm.exprBack[id] }

// StmtID returns the StmtId registered for ptr, if lowering produced one.
func (sm *SourceMap) StmtID(ptr ast.AstPtr) (StmtId, bool) {
	id, ok := sm.stmtFwd[ptr]
	return id, ok
}

// StmtPtr returns the AstPtr id was registered under.
func (sm *SourceMap) StmtPtr(id StmtId) ast.AstPtr { return sm.stmtBack[id] }

// ParamID returns the ParamId registered for ptr, if lowering produced
// one.
func (sm *SourceMap) ParamID(ptr ast.AstPtr) (ParamId, bool) {
	id, ok := sm.paramFwd[ptr]
	return id, ok
}

// ParamPtr returns the AstPtr id was registered under.
func (sm *SourceMap) ParamPtr(id ParamId) ast.AstPtr { return sm.paramBack[id] }

// LoadItemID returns the LoadItemId registered for ptr, if lowering
// produced one.
func (sm *SourceMap) LoadItemID(ptr ast.AstPtr) (LoadItemId, bool) {
	id, ok := sm.loadItemFwd[ptr]
	return id, ok
}

// LoadItemPtr returns the AstPtr id was registered under.
func (sm *SourceMap) LoadItemPtr(id LoadItemId) ast.AstPtr { return sm.loadItemBack[id] }

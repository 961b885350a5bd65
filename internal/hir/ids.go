// Package hir implements the lowering pipeline from parsed syntax to a
// high-level intermediate representation: three dense-ID arenas (Expr,
// Stmt, Param, plus LoadItem) and a bidirectional source map back to the
// syntax tree's AstPtrs. It is structurally grounded on the teacher's
// internal/core (CoreNode{NodeID uint64}, arena-by-append) and
// internal/elaborate (per-node-kind recursive-descent lowering,
// placeholder nodes for malformed input) packages, generalized from
// AILANG's evaluation-oriented Core IR to this spec's IDE-query-oriented
// HIR.
package hir

// ExprId, StmtId, ParamId, and LoadItemId are dense indices into a
// Module's arenas. They are stable for the lifetime of the Module that
// produced them; a new lowering of the same file produces a structurally
// equivalent but distinct set of IDs.
type (
	ExprId     uint32
	StmtId     uint32
	ParamId    uint32
	LoadItemId uint32
)

// InvalidExprId/InvalidStmtId mark an intentionally absent optional
// child (a bare `return`, a parameter with no default) as distinct from
// an allocated placeholder. They are never valid indices into a Module's
// arenas.
const (
	InvalidExprId = ExprId(^uint32(0))
	InvalidStmtId = StmtId(^uint32(0))
)

// Valid reports whether id was actually allocated.
func (id ExprId) Valid() bool { return id != InvalidExprId }

// Valid reports whether id was actually allocated.
func (id StmtId) Valid() bool { return id != InvalidStmtId }

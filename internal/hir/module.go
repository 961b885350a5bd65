package hir

import "github.com/starlark-lsp/semcore/internal/ast"

// Expr is implemented by every HIR expression node. Unlike ast.Expr,
// HIR nodes never hold child nodes directly: every child is an ExprId
// indexing back into the owning Module's Exprs arena, so the tree can be
// walked without pointer-chasing through the syntax tree's lifetime.
type Expr interface {
	ID() ExprId
	hirExpr()
}

type exprBase struct{ id ExprId }

// ID implements Expr.
func (b exprBase) ID() ExprId { return b.id }

// Unknown stands in for an expression whose syntax was missing or
// unparseable. Inference treats it as the Unknown type but lowering
// still descends into whatever partial structure the parser recovered,
// per spec.md §4.2 ("lowering is total ... tolerant of error nodes").
type Unknown struct{ exprBase }

func (*Unknown) hirExpr() {}

// Name is a bare identifier reference.
type Name struct {
	exprBase
	Ident string
}

func (*Name) hirExpr() {}

// Literal is a primitive constant.
type Literal struct {
	exprBase
	LitKind ast.LiteralKind
	Value   interface{}
}

func (*Literal) hirExpr() {}

// List is a `[e1, e2, ...]` literal.
type List struct {
	exprBase
	Elems []ExprId
}

func (*List) hirExpr() {}

// Tuple is a `(e1, e2, ...)` literal or bare comma-expression.
type Tuple struct {
	exprBase
	Elems []ExprId
}

func (*Tuple) hirExpr() {}

// DictEntry is one `key: value` pair of a Dict literal.
type DictEntry struct {
	Key   ExprId
	Value ExprId
}

// Dict is a `{k1: v1, ...}` literal.
type Dict struct {
	exprBase
	Entries []DictEntry
}

func (*Dict) hirExpr() {}

// CompClause is one `for`/`if` clause of a list or dict comprehension.
type CompClause struct {
	ClauseKind ast.CompClauseKind
	Targets    []ExprId     // non-empty only for CompFor
	Iterable   ExprId       // valid only for CompFor
	Test       ExprId       // valid only for CompIf
}

// ListComp is `[body for ... if ...]`.
type ListComp struct {
	exprBase
	Body    ExprId
	Clauses []CompClause
}

func (*ListComp) hirExpr() {}

// DictComp is `{key: value for ... if ...}`.
type DictComp struct {
	exprBase
	Key     ExprId
	Value   ExprId
	Clauses []CompClause
}

func (*DictComp) hirExpr() {}

// Unary is a prefix-operator expression. Op may be ast.OpUnaryUnknown
// when the source spelled an operator token the parser did not
// recognize; inference treats the whole expression as Unknown but
// lowering still descends into X.
type Unary struct {
	exprBase
	Op ast.UnaryOp
	X  ExprId
}

func (*Unary) hirExpr() {}

// Binary is an infix-operator expression.
type Binary struct {
	exprBase
	Op   ast.BinaryOp
	X, Y ExprId
}

func (*Binary) hirExpr() {}

// Dot is `receiver.name` field access.
type Dot struct {
	exprBase
	Receiver ExprId
	Name     string
	HasName  bool
}

func (*Dot) hirExpr() {}

// Index is `receiver[index]`.
type Index struct {
	exprBase
	Receiver ExprId
	Index    ExprId
}

func (*Index) hirExpr() {}

// Argument is one argument of a Call expression.
type Argument struct {
	ArgKind ast.ArgumentKind
	Name    string // set only for ArgKeyword
	X       ExprId
}

// Call is `callee(args...)`.
type Call struct {
	exprBase
	Callee ExprId
	Args   []Argument
}

func (*Call) hirExpr() {}

// Paren is an explicitly parenthesized expression. It is never elided
// during lowering, even around another Paren: each gets its own ExprId,
// which is what lets the source map round-trip an AstPtr for each one.
type Paren struct {
	exprBase
	X ExprId
}

func (*Paren) hirExpr() {}

// Lambda is `lambda params: body`.
type Lambda struct {
	exprBase
	Params []ParamId
	Body   ExprId
}

func (*Lambda) hirExpr() {}

// IfExpr is the conditional expression `then if test else els`.
type IfExpr struct {
	exprBase
	Test ExprId
	Then ExprId
	Else ExprId
}

func (*IfExpr) hirExpr() {}

// Param is one formal parameter of a Def or Lambda. Default is
// InvalidExprId when the parameter (or a */** form) has none.
type Param struct {
	id      ParamId
	PKind   ast.ParamKind
	Name    string
	TypeRef string
	Default ExprId
}

// ID returns this parameter's ParamId.
func (p Param) ID() ParamId { return p.id }

// LoadItem is one `local_name = "source_name"` entry of a load
// statement.
type LoadItem struct {
	id         LoadItemId
	LocalName  string
	SourceName string
}

// ID returns this load item's LoadItemId.
func (l LoadItem) ID() LoadItemId { return l.id }

// Stmt is implemented by every HIR statement node.
type Stmt interface {
	ID() StmtId
	hirStmt()
}

type stmtBase struct{ id StmtId }

// ID implements Stmt.
func (b stmtBase) ID() StmtId { return b.id }

// Assign is `lhs = rhs`.
type Assign struct {
	stmtBase
	Lhs ExprId
	Rhs ExprId
}

func (*Assign) hirStmt() {}

// Def is a function definition.
type Def struct {
	stmtBase
	Name   string
	Params []ParamId
	Body   []StmtId
}

func (*Def) hirStmt() {}

// If is `if test: body [elif ...] [else: elseBody]`. At most one of
// Elif/Else is set (neither, for an `if` with no elif or else): Elif points at the nested If HIR node an elif
// clause lowers to, Else is the trailing else suite's statements.
type If struct {
	stmtBase
	Test ExprId
	Body []StmtId
	Elif StmtId // InvalidStmtId unless this chains into an elif
	Else []StmtId
}

func (*If) hirStmt() {}

// For is `for targets in iterable: body`.
type For struct {
	stmtBase
	Targets  []ExprId
	Iterable ExprId
	Body     []StmtId
}

func (*For) hirStmt() {}

// Return is `return [x]`. X is InvalidExprId for a bare return.
type Return struct {
	stmtBase
	X ExprId
}

func (*Return) hirStmt() {}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	stmtBase
	X ExprId
}

func (*ExprStmt) hirStmt() {}

// Load is `load("module/path", items...)`.
type Load struct {
	stmtBase
	ModulePath string
	Items      []LoadItemId
}

func (*Load) hirStmt() {}

// Break is `break`.
type Break struct{ stmtBase }

func (*Break) hirStmt() {}

// Continue is `continue`.
type Continue struct{ stmtBase }

func (*Continue) hirStmt() {}

// Pass is `pass`.
type Pass struct{ stmtBase }

func (*Pass) hirStmt() {}

// Module is the HIR of one file: three dense arenas keyed by the IDs
// above, plus the ordered list of top-level statement IDs.
type Module struct {
	Exprs     []Expr
	Stmts     []Stmt
	Params    []Param
	LoadItems []LoadItem
	TopLevel  []StmtId
}

// Expr returns the node stored at id.
func (m *Module) Expr(id ExprId) Expr { return m.Exprs[id] }

// Stmt returns the node stored at id.
func (m *Module) Stmt(id StmtId) Stmt { return m.Stmts[id] }

// Param returns the node stored at id.
func (m *Module) Param(id ParamId) Param { return m.Params[id] }

// LoadItem returns the node stored at id.
func (m *Module) LoadItem(id LoadItemId) LoadItem { return m.LoadItems[id] }

// ModuleInfo is the full output of lowering one file: the syntax tree it
// was lowered from, the resulting HIR Module, and the SourceMap tying
// the two together.
type ModuleInfo struct {
	File      *ast.File
	Module    *Module
	SourceMap *SourceMap
}

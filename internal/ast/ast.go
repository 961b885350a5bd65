// Package ast defines the syntax tree produced by parsing a Starlark-like
// source file. The tree is deliberately simple: every node knows its own
// source span, and nothing in this package understands names, scopes, or
// types. Those belong to later layers (internal/hir, internal/scope,
// internal/types).
package ast

import (
	"fmt"
)

// Pos is a single point in a source file.
type Pos struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset, used for SID/AstPtr calculation
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open [Start, End) byte range, carried by every node that
// has semantic content. Line/Column are carried alongside each offset for
// display; comparing two Spans with == compares all three fields of both
// positions.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Contains reports whether offset lies within [Start.Offset, End.Offset).
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// NodeKind tags the syntactic category of a node, independent of its Go
// type. AstPtr uses this (plus a Span) to form a stable key that survives
// tree rebuilds, the way a (kind, text-range) pair would in a real syntax
// tree library.
type NodeKind int

const (
	KindBadExpr NodeKind = iota
	KindName
	KindLiteral
	KindList
	KindTuple
	KindDict
	KindListComp
	KindDictComp
	KindUnary
	KindBinary
	KindDot
	KindIndex
	KindCall
	KindParen
	KindLambda
	KindIfExpr

	KindAssignStmt
	KindDefStmt
	KindIfStmt
	KindForStmt
	KindReturnStmt
	KindExprStmt
	KindLoadStmt
	KindBreakStmt
	KindContinueStmt
	KindPassStmt

	KindSimpleParam
	KindArgsListParam
	KindKwargsListParam

	KindLoadItem
	KindFile
)

func (k NodeKind) String() string {
	names := [...]string{
		"BadExpr", "Name", "Literal", "List", "Tuple", "Dict", "ListComp", "DictComp",
		"Unary", "Binary", "Dot", "Index", "Call", "Paren", "Lambda", "IfExpr",
		"AssignStmt", "DefStmt", "IfStmt", "ForStmt", "ReturnStmt", "ExprStmt",
		"LoadStmt", "BreakStmt", "ContinueStmt", "PassStmt",
		"SimpleParam", "ArgsListParam", "KwargsListParam",
		"LoadItem", "File",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() NodeKind
	Span() Span
}

// AstPtr is a stable address for a syntax node: its kind plus its text
// range. Two AstPtr values referring to the "same" node across rebuilds of
// the tree (same source offsets) compare equal, which is the invariant
// internal/hir's source map relies on for round-tripping.
type AstPtr struct {
	Kind NodeKind
	Span Span
}

// PtrOf builds an AstPtr for any node.
func PtrOf(n Node) AstPtr {
	return AstPtr{Kind: n.Kind(), Span: n.Span()}
}

// Dialect selects which built-in catalog and basename/extension rules
// apply to a file.
type Dialect int

const (
	Standard Dialect = iota
	Bazel
)

func (d Dialect) String() string {
	if d == Bazel {
		return "bazel"
	}
	return "standard"
}

// ---- Expressions ----

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

type baseExpr struct{ span Span }

func (b baseExpr) Span() Span { return b.span }

// BadExpr stands in for a syntactically malformed or missing expression;
// lowering treats it as an Unknown-typed placeholder.
type BadExpr struct {
	baseExpr
}

func (*BadExpr) Kind() NodeKind { return KindBadExpr }
func (*BadExpr) exprNode()      {}

// Name is an identifier reference.
type Name struct {
	baseExpr
	Ident string
}

func (*Name) Kind() NodeKind { return KindName }
func (*Name) exprNode()      {}

// LiteralKind distinguishes the primitive literal forms.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BytesLit
	BoolLit
	NoneLit
)

// Literal is a primitive constant.
type Literal struct {
	baseExpr
	LitKind LiteralKind
	Value   interface{} // int64, float64, string, []byte, bool, or nil for None
}

func (*Literal) Kind() NodeKind { return KindLiteral }
func (*Literal) exprNode()      {}

// List is a `[e1, e2, ...]` literal.
type List struct {
	baseExpr
	Elems []Expr
}

func (*List) Kind() NodeKind { return KindList }
func (*List) exprNode()      {}

// Tuple is a `(e1, e2, ...)` literal (or a bare comma-expression).
type Tuple struct {
	baseExpr
	Elems []Expr
}

func (*Tuple) Kind() NodeKind { return KindTuple }
func (*Tuple) exprNode()      {}

// DictEntry is one `key: value` pair of a Dict literal.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// Dict is a `{k1: v1, ...}` literal.
type Dict struct {
	baseExpr
	Entries []DictEntry
}

func (*Dict) Kind() NodeKind { return KindDict }
func (*Dict) exprNode()      {}

// CompClauseKind distinguishes `for` vs `if` comprehension clauses.
type CompClauseKind int

const (
	CompFor CompClauseKind = iota
	CompIf
)

// CompClause is one clause of a list/dict comprehension.
type CompClause struct {
	ClauseKind CompClauseKind
	Targets    []Expr // non-empty only for CompFor
	Iterable   Expr   // non-nil only for CompFor
	Test       Expr   // non-nil only for CompIf
}

// ListComp is `[expr for ... if ...]`.
type ListComp struct {
	baseExpr
	Body    Expr
	Clauses []CompClause
}

func (*ListComp) Kind() NodeKind { return KindListComp }
func (*ListComp) exprNode()      {}

// DictComp is `{k: v for ... if ...}`.
type DictComp struct {
	baseExpr
	Key     Expr
	Value   Expr
	Clauses []CompClause
}

func (*DictComp) Kind() NodeKind { return KindDictComp }
func (*DictComp) exprNode()      {}

// UnaryOp enumerates supported prefix operators. OpUnaryUnknown marks a token
// the lexer/parser did not recognize; lowering still descends into the
// operand but treats the whole expression as Unknown-typed.
type UnaryOp int

const (
	OpUnaryUnknown UnaryOp = iota
	OpNeg                  // -x
	OpPos                  // +x
	OpInvert               // ~x
	OpNot                  // not x
)

// Unary is a prefix-operator expression.
type Unary struct {
	baseExpr
	Op   UnaryOp
	X    Expr
}

func (*Unary) Kind() NodeKind { return KindUnary }
func (*Unary) exprNode()      {}

// BinaryOp enumerates supported infix operators.
type BinaryOp int

const (
	OpBinaryUnknown BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpIn
	OpNotIn
)

// Binary is an infix-operator expression.
type Binary struct {
	baseExpr
	Op    BinaryOp
	X, Y  Expr
}

func (*Binary) Kind() NodeKind { return KindBinary }
func (*Binary) exprNode()      {}

// Dot is `receiver.name` field access.
type Dot struct {
	baseExpr
	Receiver Expr
	Name     string
	HasName  bool // false if the identifier after '.' was missing
}

func (*Dot) Kind() NodeKind { return KindDot }
func (*Dot) exprNode()      {}

// Index is `receiver[index]`.
type Index struct {
	baseExpr
	Receiver Expr
	Index    Expr
}

func (*Index) Kind() NodeKind { return KindIndex }
func (*Index) exprNode()      {}

// ArgumentKind distinguishes call-argument forms.
type ArgumentKind int

const (
	ArgSimple ArgumentKind = iota
	ArgKeyword
	ArgUnpackedList
	ArgUnpackedDict
)

// Argument is one argument of a Call expression.
type Argument struct {
	ArgKind ArgumentKind
	Name    string // set only for ArgKeyword
	X       Expr
}

// Call is `callee(args...)`.
type Call struct {
	baseExpr
	Callee Expr
	Args   []Argument
}

func (*Call) Kind() NodeKind { return KindCall }
func (*Call) exprNode()      {}

// Paren is an explicitly parenthesized expression. It is never elided
// during lowering: repeated parens each get their own HIR id, which is
// what lets the source map round-trip an AstPtr for each one.
type Paren struct {
	baseExpr
	X Expr
}

func (*Paren) Kind() NodeKind { return KindParen }
func (*Paren) exprNode()      {}

// Lambda is `lambda params: body`.
type Lambda struct {
	baseExpr
	Params []*Param
	Body   Expr
}

func (*Lambda) Kind() NodeKind { return KindLambda }
func (*Lambda) exprNode()      {}

// IfExpr is the conditional expression `a if test else b`.
type IfExpr struct {
	baseExpr
	Test Expr
	Then Expr
	Else Expr
}

func (*IfExpr) Kind() NodeKind { return KindIfExpr }
func (*IfExpr) exprNode()      {}

// ---- Parameters ----

// ParamKind distinguishes the three parameter forms a Def can declare.
type ParamKind int

const (
	ParamSimple ParamKind = iota
	ParamArgsList
	ParamKwargsList
)

// Param is one formal parameter of a Def or Lambda.
type Param struct {
	span     Span
	PKind    ParamKind
	Name     string
	TypeRef  string // raw text of a type comment/annotation, "" if absent
	Default  Expr   // only for ParamSimple, may be nil
}

func (p *Param) Span() Span { return p.span }
func (p *Param) Kind() NodeKind {
	switch p.PKind {
	case ParamArgsList:
		return KindArgsListParam
	case ParamKwargsList:
		return KindKwargsListParam
	default:
		return KindSimpleParam
	}
}

// NewParam constructs a Param with an explicit span (used by the parser).
func NewParam(span Span, kind ParamKind, name, typeRef string, def Expr) *Param {
	return &Param{span: span, PKind: kind, Name: name, TypeRef: typeRef, Default: def}
}

// ---- Statements ----

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

type baseStmt struct{ span Span }

func (b baseStmt) Span() Span { return b.span }

// AssignStmt is `lhs = rhs` (also used for augmented assignment, folded
// into Binary(op, lhs, rhs) on the rhs by the parser so the HIR only ever
// sees plain assignment).
type AssignStmt struct {
	baseStmt
	Lhs Expr
	Rhs Expr
}

func (*AssignStmt) Kind() NodeKind { return KindAssignStmt }
func (*AssignStmt) stmtNode()      {}

// DefStmt is a function definition.
type DefStmt struct {
	baseStmt
	Name   string
	Params []*Param
	Body   []Stmt
}

func (*DefStmt) Kind() NodeKind { return KindDefStmt }
func (*DefStmt) stmtNode()      {}

// IfStmt is `if test: if_stmts [elif ...] [else: else_stmts]`. At most one
// of ElifStmt/ElseStmts is set (neither, for an `if` with no elif or else
// clause), mirroring the "elif_or_else_stmts" either in spec.md §4.4.
type IfStmt struct {
	baseStmt
	Test      Expr
	Body      []Stmt
	ElifStmt  *IfStmt // non-nil for an `elif`
	ElseStmts []Stmt  // non-nil for a trailing `else`
}

func (*IfStmt) Kind() NodeKind { return KindIfStmt }
func (*IfStmt) stmtNode()      {}

// ForStmt is `for targets in iterable: body`.
type ForStmt struct {
	baseStmt
	Targets  []Expr
	Iterable Expr
	Body     []Stmt
}

func (*ForStmt) Kind() NodeKind { return KindForStmt }
func (*ForStmt) stmtNode()      {}

// ReturnStmt is `return [expr]`.
type ReturnStmt struct {
	baseStmt
	X Expr // nil for a bare `return`
}

func (*ReturnStmt) Kind() NodeKind { return KindReturnStmt }
func (*ReturnStmt) stmtNode()      {}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	baseStmt
	X Expr
}

func (*ExprStmt) Kind() NodeKind { return KindExprStmt }
func (*ExprStmt) stmtNode()      {}

// LoadItem is one `local_name = "source_name"` (or bare `"name"`) entry of
// a load statement.
type LoadItem struct {
	span       Span
	LocalName  string
	SourceName string
}

func (l *LoadItem) Span() Span     { return l.span }
func (l *LoadItem) Kind() NodeKind { return KindLoadItem }

// NewLoadItem constructs a LoadItem with an explicit span.
func NewLoadItem(span Span, local, source string) *LoadItem {
	return &LoadItem{span: span, LocalName: local, SourceName: source}
}

// LoadStmt is `load("module/path", "a", b = "c")`.
type LoadStmt struct {
	baseStmt
	ModulePath string
	Items      []*LoadItem
}

func (*LoadStmt) Kind() NodeKind { return KindLoadStmt }
func (*LoadStmt) stmtNode()      {}

// BreakStmt is `break`.
type BreakStmt struct{ baseStmt }

func (*BreakStmt) Kind() NodeKind { return KindBreakStmt }
func (*BreakStmt) stmtNode()      {}

// ContinueStmt is `continue`.
type ContinueStmt struct{ baseStmt }

func (*ContinueStmt) Kind() NodeKind { return KindContinueStmt }
func (*ContinueStmt) stmtNode()      {}

// PassStmt is `pass`.
type PassStmt struct{ baseStmt }

func (*PassStmt) Kind() NodeKind { return KindPassStmt }
func (*PassStmt) stmtNode()      {}

// File is the root of a parsed source file.
type File struct {
	span       Span
	Path       string
	Dialect    Dialect
	TopLevel   []Stmt
}

func (f *File) Span() Span     { return f.span }
func (f *File) Kind() NodeKind { return KindFile }

// NewFile constructs a File with an explicit span.
func NewFile(span Span, path string, dialect Dialect, topLevel []Stmt) *File {
	return &File{span: span, Path: path, Dialect: dialect, TopLevel: topLevel}
}

// helper constructors used by the parser; each stamps the span onto the
// embedded base so call sites stay short.

func NewBadExpr(span Span) *BadExpr           { return &BadExpr{baseExpr{span}} }
func NewName(span Span, ident string) *Name   { return &Name{baseExpr{span}, ident} }
func NewLiteral(span Span, kind LiteralKind, value interface{}) *Literal {
	return &Literal{baseExpr{span}, kind, value}
}
func NewList(span Span, elems []Expr) *List   { return &List{baseExpr{span}, elems} }
func NewTuple(span Span, elems []Expr) *Tuple { return &Tuple{baseExpr{span}, elems} }
func NewDict(span Span, entries []DictEntry) *Dict {
	return &Dict{baseExpr{span}, entries}
}
func NewListComp(span Span, body Expr, clauses []CompClause) *ListComp {
	return &ListComp{baseExpr{span}, body, clauses}
}
func NewDictComp(span Span, key, value Expr, clauses []CompClause) *DictComp {
	return &DictComp{baseExpr{span}, key, value, clauses}
}
func NewUnary(span Span, op UnaryOp, x Expr) *Unary { return &Unary{baseExpr{span}, op, x} }
func NewBinary(span Span, op BinaryOp, x, y Expr) *Binary {
	return &Binary{baseExpr{span}, op, x, y}
}
func NewDot(span Span, recv Expr, name string, hasName bool) *Dot {
	return &Dot{baseExpr{span}, recv, name, hasName}
}
func NewIndex(span Span, recv, idx Expr) *Index { return &Index{baseExpr{span}, recv, idx} }
func NewCall(span Span, callee Expr, args []Argument) *Call {
	return &Call{baseExpr{span}, callee, args}
}
func NewParen(span Span, x Expr) *Paren { return &Paren{baseExpr{span}, x} }
func NewLambda(span Span, params []*Param, body Expr) *Lambda {
	return &Lambda{baseExpr{span}, params, body}
}
func NewIfExpr(span Span, test, then, els Expr) *IfExpr {
	return &IfExpr{baseExpr{span}, test, then, els}
}

func NewAssignStmt(span Span, lhs, rhs Expr) *AssignStmt {
	return &AssignStmt{baseStmt{span}, lhs, rhs}
}
func NewDefStmt(span Span, name string, params []*Param, body []Stmt) *DefStmt {
	return &DefStmt{baseStmt{span}, name, params, body}
}
func NewIfStmt(span Span, test Expr, body []Stmt, elif *IfStmt, elseStmts []Stmt) *IfStmt {
	return &IfStmt{baseStmt{span}, test, body, elif, elseStmts}
}
func NewForStmt(span Span, targets []Expr, iterable Expr, body []Stmt) *ForStmt {
	return &ForStmt{baseStmt{span}, targets, iterable, body}
}
func NewReturnStmt(span Span, x Expr) *ReturnStmt { return &ReturnStmt{baseStmt{span}, x} }
func NewExprStmt(span Span, x Expr) *ExprStmt     { return &ExprStmt{baseStmt{span}, x} }
func NewLoadStmt(span Span, modulePath string, items []*LoadItem) *LoadStmt {
	return &LoadStmt{baseStmt{span}, modulePath, items}
}
func NewBreakStmt(span Span) *BreakStmt       { return &BreakStmt{baseStmt{span}} }
func NewContinueStmt(span Span) *ContinueStmt { return &ContinueStmt{baseStmt{span}} }
func NewPassStmt(span Span) *PassStmt         { return &PassStmt{baseStmt{span}} }

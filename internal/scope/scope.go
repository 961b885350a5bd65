// Package scope builds the scope tree over a lowered module: for every
// execution scope (the module itself, each function body, each
// comprehension), the ordered set of names it declares and the parent
// scope those names shadow into. It is grounded on the teacher's
// internal/types/env.go persistent-environment idiom (Extend returns a
// child sharing its parent by pointer) generalized from "one binding per
// Extend" to "a dense arena of scopes, each holding every name it
// introduces."
package scope

import "github.com/starlark-lsp/semcore/internal/hir"

// Id is a dense index into a Tree's Scopes arena.
type Id uint32

// InvalidId marks the absence of a parent, used only by the module root.
const InvalidId = Id(^uint32(0))

// Kind distinguishes the three places spec.md §3 says introduce an
// execution scope.
type Kind int

const (
	KindModule Kind = iota
	KindDef
	KindComp
	KindLambda
)

// Exec identifies the binding environment a name belongs to: the module,
// a specific Def's body, a specific comprehension's clauses, or a
// specific lambda's parameter list. Lambda is not one of the variants
// spec.md §3 names for ExecutionScope (Module/Def(StmtId)/Comp(ExprId))
// because that enumeration predates giving lambdas their own parameter
// scope; a lambda parameter has to shadow an outer name the same way a
// def parameter does, so it gets the same Comp(ExprId)-shaped treatment
// keyed by the lambda's own ExprId instead of being folded into its
// enclosing scope.
type Exec struct {
	Kind   Kind
	Def    hir.StmtId // valid iff Kind == KindDef
	Comp   hir.ExprId // valid iff Kind == KindComp
	Lambda hir.ExprId // valid iff Kind == KindLambda
}

// Declaration is implemented by every binding a scope can introduce.
type Declaration interface{ declaration() }

// Variable is a name bound by an assignment or a for-loop/comprehension
// target. Source is the ExprId of the value the binding's type is read
// from: the assignment's rhs, or, for a for-loop/comprehension target,
// the iterable (whose element type the target takes). It is
// hir.InvalidExprId if none is recorded.
type Variable struct {
	Defining hir.ExprId
	Source   hir.ExprId
}

func (Variable) declaration() {}

// Function is a top-level or nested `def`.
type Function struct{ Def hir.StmtId }

func (Function) declaration() {}

// Parameter is one formal parameter, identified by its ParamId rather
// than spec.md §3's (Function, index) pair: a ParamId already uniquely
// names a parameter's Name/TypeRef/Default, and unlike a (Def, index)
// pair it works the same way whether the owner is a Def or a Lambda
// (which has no StmtId to pair an index against).
type Parameter struct{ Param hir.ParamId }

func (Parameter) declaration() {}

// LoadItem is a name bound by a `load(...)` statement.
type LoadItem struct{ Item hir.LoadItemId }

func (LoadItem) declaration() {}

// BuiltinFunction names a catalog-provided function by its builtin ID.
type BuiltinFunction struct{ ID string }

func (BuiltinFunction) declaration() {}

// BuiltinVariable names a catalog-provided value by its builtin ID.
type BuiltinVariable struct{ ID string }

func (BuiltinVariable) declaration() {}

// CustomFunction names a dialect-specific function by its catalog ID.
type CustomFunction struct{ ID string }

func (CustomFunction) declaration() {}

// CustomVariable names a dialect-specific value by its declared type
// reference.
type CustomVariable struct{ TypeRef string }

func (CustomVariable) declaration() {}

// Scope is one node of the tree: the execution environment it represents,
// its parent (InvalidId for the module root), and every name it
// introduces in source order so later declarations can be found last
// (the order the resolver's shadowing rule needs).
type Scope struct {
	id       Id
	Exec     Exec
	Parent   Id
	names    []string
	decls    map[string][]Declaration
}

// ID returns this scope's Id.
func (s *Scope) ID() Id { return s.id }

// Names returns every name this scope introduces, in the order its
// declarations were added.
func (s *Scope) Names() []string { return s.names }

// Declare appends a declaration for name in this scope. A name declared
// more than once keeps every declaration in order: shadowing within a
// single scope (e.g. reassignment) is resolved by the resolver reading
// the last entry, not by overwriting here.
func (s *Scope) Declare(name string, d Declaration) {
	if _, seen := s.decls[name]; !seen {
		s.names = append(s.names, name)
	}
	s.decls[name] = append(s.decls[name], d)
}

// Lookup returns every declaration name has in this scope alone (no
// parent walk), most-recent last.
func (s *Scope) Lookup(name string) ([]Declaration, bool) {
	ds, ok := s.decls[name]
	return ds, ok
}

// Tree is the full scope structure for one lowered module: a dense arena
// of Scopes plus the membership map from every HIR expression/statement
// id to the scope that encloses it.
type Tree struct {
	Scopes    []*Scope
	exprScope map[hir.ExprId]Id
	stmtScope map[hir.StmtId]Id
}

func newTree() *Tree {
	return &Tree{
		exprScope: make(map[hir.ExprId]Id),
		stmtScope: make(map[hir.StmtId]Id),
	}
}

func (t *Tree) newScope(exec Exec, parent Id) *Scope {
	s := &Scope{
		id:     Id(len(t.Scopes)),
		Exec:   exec,
		Parent: parent,
		decls:  make(map[string][]Declaration),
	}
	t.Scopes = append(t.Scopes, s)
	return s
}

// Scope returns the scope with the given id.
func (t *Tree) Scope(id Id) *Scope { return t.Scopes[id] }

// ScopeOfExpr returns the scope enclosing expr, if lowering/building ever
// recorded one (every expression reached while walking a body does).
func (t *Tree) ScopeOfExpr(id hir.ExprId) (Id, bool) {
	s, ok := t.exprScope[id]
	return s, ok
}

// ScopeOfStmt returns the scope enclosing stmt.
func (t *Tree) ScopeOfStmt(id hir.StmtId) (Id, bool) {
	s, ok := t.stmtScope[id]
	return s, ok
}

// Module returns the tree's root scope.
func (t *Tree) Module() *Scope { return t.Scopes[0] }

// Package resolver answers "what does this name mean here": given a
// position in a lowered module, it walks the scope chain outward,
// falling back to the dialect's builtin catalog, and returns every
// declaration a name could refer to in the shadowing order spec.md §8's
// invariant 3 requires (source order, latest last, at the first scope
// that binds the name at all).
//
// It is grounded on the teacher's internal/link/resolver.go: a
// double-checked-locking memo keyed by the thing being resolved (there, a
// module+export pair; here, a name within one Resolver's fixed starting
// position), generalized from "resolve a global value" to "resolve a name
// to the declarations visible at a position."
package resolver

import (
	"sync"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/scope"
)

// Builtins is the catalog lookup a Resolver falls back to once the scope
// chain is exhausted. internal/builtins implements this; the interface
// keeps this package from importing a concrete dialect catalog.
type Builtins interface {
	Lookup(name string) (scope.Declaration, bool)
	Names() []string
}

type memoEntry struct {
	decls []scope.Declaration
	found bool
}

// Resolver answers queries for names visible at one fixed position: a
// module as a whole, a specific expression, or a raw text offset.
type Resolver struct {
	tree     *scope.Tree
	builtins Builtins
	start    scope.Id

	mu   sync.RWMutex
	memo map[string]memoEntry
}

func newResolver(tree *scope.Tree, builtins Builtins, start scope.Id) *Resolver {
	return &Resolver{tree: tree, builtins: builtins, start: start, memo: make(map[string]memoEntry)}
}

// NewForModule resolves names as visible at the top of the module: every
// scope-chain lookup starts at the module's own scope.
func NewForModule(tree *scope.Tree, builtins Builtins) *Resolver {
	return newResolver(tree, builtins, tree.Module().ID())
}

// NewForExpr resolves names as visible at expr's position, starting from
// whatever scope Build recorded as enclosing it.
func NewForExpr(tree *scope.Tree, builtins Builtins, expr hir.ExprId) *Resolver {
	start, ok := tree.ScopeOfExpr(expr)
	if !ok {
		start = tree.Module().ID()
	}
	return newResolver(tree, builtins, start)
}

// NewForOffset resolves names as visible at a raw byte offset into the
// original source, found by the smallest HIR node whose span contains it.
func NewForOffset(mi *hir.ModuleInfo, tree *scope.Tree, builtins Builtins, offset int) *Resolver {
	return newResolver(tree, builtins, scopeAtOffset(mi, tree, offset))
}

// ResolveName returns every declaration name could refer to at this
// Resolver's position, in source order with the most recent last, or
// (nil, false) if name is not defined in any reachable scope or the
// builtin catalog.
func (r *Resolver) ResolveName(name string) ([]scope.Declaration, bool) {
	r.mu.RLock()
	if e, ok := r.memo[name]; ok {
		r.mu.RUnlock()
		return e.decls, e.found
	}
	r.mu.RUnlock()

	decls, found := r.resolveUncached(name)

	r.mu.Lock()
	r.memo[name] = memoEntry{decls: decls, found: found}
	r.mu.Unlock()
	return decls, found
}

func (r *Resolver) resolveUncached(name string) ([]scope.Declaration, bool) {
	for id := r.start; id != scope.InvalidId; {
		s := r.tree.Scope(id)
		if decls, ok := s.Lookup(name); ok {
			return decls, true
		}
		id = s.Parent
	}
	if r.builtins != nil {
		if d, ok := r.builtins.Lookup(name); ok {
			return []scope.Declaration{d}, true
		}
	}
	return nil, false
}

// Names returns every name visible at this Resolver's position, paired
// with its shadowing declaration (the one ResolveName would return),
// for completion.
func (r *Resolver) Names() []NameDecl {
	seen := make(map[string]bool)
	var out []NameDecl
	for id := r.start; id != scope.InvalidId; {
		s := r.tree.Scope(id)
		for _, name := range s.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			decls, _ := s.Lookup(name)
			out = append(out, NameDecl{Name: name, Declaration: decls[len(decls)-1]})
		}
		id = s.Parent
	}
	if r.builtins != nil {
		for _, name := range r.builtins.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			if d, ok := r.builtins.Lookup(name); ok {
				out = append(out, NameDecl{Name: name, Declaration: d})
			}
		}
	}
	return out
}

// NameDecl pairs a visible name with the declaration it currently
// resolves to.
type NameDecl struct {
	Name        string
	Declaration scope.Declaration
}

// scopeAtOffset finds the smallest HIR node (by span length) enclosing
// offset and returns its recorded scope, falling back to the module
// scope if nothing encloses it (e.g. whitespace past the last token).
func scopeAtOffset(mi *hir.ModuleInfo, tree *scope.Tree, offset int) scope.Id {
	best := tree.Module().ID()
	bestLen := -1
	consider := func(span ast.Span, sid scope.Id) {
		if !span.Contains(offset) {
			return
		}
		length := span.End.Offset - span.Start.Offset
		if bestLen == -1 || length < bestLen {
			bestLen = length
			best = sid
		}
	}
	for i := range mi.Module.Exprs {
		id := hir.ExprId(i)
		if sid, ok := tree.ScopeOfExpr(id); ok {
			consider(mi.SourceMap.ExprPtr(id).Span, sid)
		}
	}
	for i := range mi.Module.Stmts {
		id := hir.StmtId(i)
		if sid, ok := tree.ScopeOfStmt(id); ok {
			consider(mi.SourceMap.StmtPtr(id).Span, sid)
		}
	}
	return best
}

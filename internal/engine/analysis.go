// Package engine wires store+hir+scope+codeflow+builtins+types+facade
// behind the query engine into the top-level Analysis/Change/Snapshot API
// spec.md §4.1 describes, grounded on the original analyzer's
// crates/starpls/src/check.rs usage of its own Analysis/Change/Snapshot:
// `Analysis::new(loader)`, `analysis.set_builtin_defs(...)`,
// `change.create_file(...)`, `analysis.apply_change(change)`,
// `analysis.snapshot()`, `snap.diagnostics(file_id)`.
package engine

import (
	"sync"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/builtins"
	"github.com/starlark-lsp/semcore/internal/codeflow"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/module"
	"github.com/starlark-lsp/semcore/internal/query"
	"github.com/starlark-lsp/semcore/internal/scope"
	"github.com/starlark-lsp/semcore/internal/store"
	"github.com/starlark-lsp/semcore/internal/syntax"
	"github.com/starlark-lsp/semcore/internal/types"
)

// dialectCatalog pairs a loaded built-in catalog with the Interner that
// produced every Ty it hands back; one pair per dialect, built once and
// frozen, mirroring set_builtin_defs being called a single time up front
// rather than varying per file.
type dialectCatalog struct {
	catalog  *builtins.Catalog
	interner *types.Interner
}

type parseResult struct{ file *ast.File }
type lowerResult struct{ info *hir.ModuleInfo }
type scopeResult struct{ tree *scope.Tree }
type flowResult struct{ graph *codeflow.Graph }
type inferResult struct{ ctx *types.Context }

// Analysis is the engine's top-level handle: one Store of interned files,
// one LoadResolver for following load() statements, a frozen catalog per
// dialect, and a Table per pipeline stage (parse, lower, scope, flow,
// infer) memoizing that stage's output per FileId.
type Analysis struct {
	store  *store.Store
	loads  module.LoadResolver
	parser syntax.Parser

	mu       sync.RWMutex
	catalogs map[ast.Dialect]*dialectCatalog

	parseTable *query.Table[store.FileId, parseResult]
	hirTable   *query.Table[store.FileId, lowerResult]
	scopeTable *query.Table[store.FileId, scopeResult]
	flowTable  *query.Table[store.FileId, flowResult]
	inferTable *query.Table[store.FileId, inferResult]
}

// New builds an Analysis over st, resolving load() statements via loads
// (which may be nil if the caller never intends to analyze a file
// containing one) and parsing with syntax.DefaultParser.
func New(st *store.Store, loads module.LoadResolver) *Analysis {
	return NewWithParser(st, loads, syntax.DefaultParser{})
}

// NewWithParser is New, but with an explicit syntax.Parser, the seam
// SPEC_FULL.md's §1 external-collaborator boundary calls for so a host can
// swap in a different front end without touching anything downstream of
// HIR.
func NewWithParser(st *store.Store, loads module.LoadResolver, p syntax.Parser) *Analysis {
	return &Analysis{
		store:      st,
		loads:      loads,
		parser:     p,
		catalogs:   make(map[ast.Dialect]*dialectCatalog),
		parseTable: query.NewTable[store.FileId, parseResult]("parse"),
		hirTable:   query.NewTable[store.FileId, lowerResult]("hir"),
		scopeTable: query.NewTable[store.FileId, scopeResult]("scope"),
		flowTable:  query.NewTable[store.FileId, flowResult]("flow"),
		inferTable: query.NewTable[store.FileId, inferResult]("infer"),
	}
}

// Store returns the underlying Store, for callers that need to intern a
// path to a FileId outside of a Change (to pass to SetFileContents, for
// instance).
func (a *Analysis) Store() *store.Store { return a.store }

// ApplyChange commits ch's queued creates and edits to the Store, bumping
// its revision once per operation the way ApplyChange always has. Query
// tables are not touched directly: their read-sets are keyed off a
// query.FileDep, which observes the Store's own per-file ChangedAt counter,
// so the next Get against a touched file simply recomputes lazily.
func (a *Analysis) ApplyChange(ch *Change) []store.FileId {
	touched := make([]store.FileId, 0, len(ch.creates)+len(ch.edits))
	for _, c := range ch.creates {
		id := a.store.Intern(c.path, c.dialect)
		a.store.ApplyChange(id, c.contents)
		touched = append(touched, id)
	}
	for _, e := range ch.edits {
		a.store.ApplyChange(e.file, e.contents)
		touched = append(touched, e.file)
	}
	return touched
}

func (a *Analysis) catalogFor(dialect ast.Dialect) (*dialectCatalog, error) {
	a.mu.RLock()
	if dc, ok := a.catalogs[dialect]; ok {
		a.mu.RUnlock()
		return dc, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if dc, ok := a.catalogs[dialect]; ok {
		return dc, nil
	}
	in := types.NewInterner()
	cat, err := builtins.ForDialect(in, dialect)
	if err != nil {
		return nil, err
	}
	dc := &dialectCatalog{catalog: cat, interner: in}
	a.catalogs[dialect] = dc
	return dc, nil
}

func (a *Analysis) parse(ctx *query.Context, id store.FileId) (*ast.File, []errors.Diagnostic, error) {
	res, diags, err := a.parseTable.Get(ctx, id, func(rec *query.Recorder) (parseResult, []errors.Diagnostic) {
		rec.Read(query.FileDep{Store: a.store, Id: id})
		f := a.store.File(id)
		file, diags := a.parser.Parse(f.Path, f.Contents, f.Dialect)
		return parseResult{file: file}, diags
	})
	if err != nil {
		return nil, nil, err
	}
	return res.file, diags, nil
}

func (a *Analysis) lower(ctx *query.Context, id store.FileId) (*hir.ModuleInfo, error) {
	file, _, err := a.parse(ctx, id)
	if err != nil {
		return nil, err
	}
	res, _, err := a.hirTable.Get(ctx, id, func(rec *query.Recorder) (lowerResult, []errors.Diagnostic) {
		rec.Read(a.parseTable.DepOn(id))
		return lowerResult{info: hir.Lower(file)}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.info, nil
}

func (a *Analysis) scopeTree(ctx *query.Context, id store.FileId) (*scope.Tree, error) {
	mi, err := a.lower(ctx, id)
	if err != nil {
		return nil, err
	}
	res, _, err := a.scopeTable.Get(ctx, id, func(rec *query.Recorder) (scopeResult, []errors.Diagnostic) {
		rec.Read(a.hirTable.DepOn(id))
		return scopeResult{tree: scope.Build(mi.Module)}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.tree, nil
}

func (a *Analysis) flowGraph(ctx *query.Context, id store.FileId) (*codeflow.Graph, error) {
	mi, err := a.lower(ctx, id)
	if err != nil {
		return nil, err
	}
	tree, err := a.scopeTree(ctx, id)
	if err != nil {
		return nil, err
	}
	res, _, err := a.flowTable.Get(ctx, id, func(rec *query.Recorder) (flowResult, []errors.Diagnostic) {
		rec.Read(a.hirTable.DepOn(id))
		rec.Read(a.scopeTable.DepOn(id))
		return flowResult{graph: codeflow.Build(mi.Module, tree)}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.graph, nil
}

// infer forces inference over every expression and parameter in the file,
// the way the original's diagnostics(file_id) salsa query transitively
// forces every HirDefFunction/HirDef#type query reachable from the file.
// This port's Context has no separate "whole file" query of its own, so
// Analysis drives it directly: walk every ExprId/ParamId in ascending
// order, calling InferExpr/InferParam for its memoizing side effect
// (populating exprTy/paramTy and appending diagnostics) and stopping early
// on cancellation.
func (a *Analysis) infer(ctx *query.Context, id store.FileId) (*types.Context, []errors.Diagnostic, error) {
	mi, err := a.lower(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tree, err := a.scopeTree(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f := a.store.File(id)
	dc, err := a.catalogFor(f.Dialect)
	if err != nil {
		return nil, nil, err
	}

	res, diags, err := a.inferTable.Get(ctx, id, func(rec *query.Recorder) (inferResult, []errors.Diagnostic) {
		rec.Read(a.hirTable.DepOn(id))
		rec.Read(a.scopeTable.DepOn(id))

		tc := types.NewContext(mi, tree, dc.catalog, dc.catalog, dc.interner, ctx.Token)
		for i := range mi.Module.Params {
			if _, err := tc.InferParam(hir.ParamId(i)); err != nil {
				return inferResult{ctx: tc}, tc.Diagnostics()
			}
		}
		for i := range mi.Module.Exprs {
			if _, err := tc.InferExpr(hir.ExprId(i)); err != nil {
				break
			}
		}
		return inferResult{ctx: tc}, tc.Diagnostics()
	})
	if err != nil {
		return nil, nil, err
	}
	return res.ctx, diags, nil
}

// loadResolverAdapter narrows a module.LoadResolver (diagnostic-reporting)
// down to a facade.FileResolver (ok/not-ok only): the diagnostic, if any,
// was already raised wherever the file that contains the load() statement
// was first loaded.
type loadResolverAdapter struct {
	loads module.LoadResolver
}

func (l loadResolverAdapter) ResolveLoadStmt(from store.FileId, modulePath string) (store.FileId, bool) {
	if l.loads == nil {
		return 0, false
	}
	id, rep := l.loads.ResolveLoad(from, modulePath)
	if rep != nil {
		return 0, false
	}
	return id, true
}

package engine

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/codeflow"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/facade"
	"github.com/starlark-lsp/semcore/internal/query"
	"github.com/starlark-lsp/semcore/internal/store"
)

// Snapshot is a read-consistent view over an Analysis, the Go analogue of
// the original's `snap.line_index(file_id)`/`snap.diagnostics(file_id)`
// calls against `analysis.snapshot()`. Every query issued through one
// Snapshot shares a single query.Context, so Cancel reaches every
// in-flight or future query driven by it, mirroring one Snapshot serving
// one top-level request (one CLI invocation, one LSP round-trip).
type Snapshot struct {
	a   *Analysis
	ctx *query.Context
}

// Snapshot takes a new read-consistent view over a.
func (a *Analysis) Snapshot() *Snapshot {
	return &Snapshot{a: a, ctx: query.NewContext()}
}

// Cancel raises this snapshot's cancellation token. Queries already in
// flight unwind with query.ErrCancelled at their next checkpoint; queries
// not yet started report it immediately.
func (s *Snapshot) Cancel() { s.ctx.Token.Cancel() }

// LineIndex builds a byte-offset-to-line/column index over file's current
// contents, the direct analogue of the original's `snap.line_index`.
func (s *Snapshot) LineIndex(file store.FileId) *ast.LineIndex {
	return ast.NewLineIndex(s.a.store.File(file).Contents)
}

// Diagnostics is `snap.diagnostics(file_id)`: every diagnostic produced
// while parsing and type-checking file, in the order each stage produced
// them (parse diagnostics first, then inference's, preserving each
// stage's own internal ordering guarantee).
func (s *Snapshot) Diagnostics(file store.FileId) ([]errors.Diagnostic, error) {
	_, parseDiags, err := s.a.parse(s.ctx, file)
	if err != nil {
		return nil, err
	}
	out := append([]errors.Diagnostic{}, parseDiags...)

	_, inferDiags, err := s.a.infer(s.ctx, file)
	if err != nil {
		return nil, err
	}
	out = append(out, inferDiags...)
	return out, nil
}

// FlowGraph returns file's code-flow graph, computed and memoized the way
// every other pipeline stage is.
func (s *Snapshot) FlowGraph(file store.FileId) (*codeflow.Graph, error) {
	return s.a.flowGraph(s.ctx, file)
}

// Semantics returns a façade bound to file's already-computed lowering,
// scope tree, and inference state, ready to answer the type_of_*/
// resolve_*/scope_for_* queries internal/facade exposes.
func (s *Snapshot) Semantics(file store.FileId) (*facade.Semantics, error) {
	mi, err := s.a.lower(s.ctx, file)
	if err != nil {
		return nil, err
	}
	tree, err := s.a.scopeTree(s.ctx, file)
	if err != nil {
		return nil, err
	}
	tc, _, err := s.a.infer(s.ctx, file)
	if err != nil {
		return nil, err
	}
	dc, err := s.a.catalogFor(s.a.store.File(file).Dialect)
	if err != nil {
		return nil, err
	}
	return facade.New(file, mi, tree, tc, dc.catalog, dc.catalog, dc.interner, loadResolverAdapter{loads: s.a.loads}), nil
}

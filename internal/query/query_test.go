package query

import (
	"testing"

	"github.com/starlark-lsp/semcore/internal/ast"
	internalerrors "github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/store"
)

func TestTableGetMemoizesAcrossCalls(t *testing.T) {
	tab := NewTable[string, int]("double")
	ctx := NewContext()
	calls := 0
	compute := func(rec *Recorder) (int, []internalerrors.Diagnostic) {
		calls++
		return 21 * 2, nil
	}

	v1, _, err := tab.Get(ctx, "x", compute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, _, err := tab.Get(ctx, "x", compute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 != 42 || v2 != 42 {
		t.Fatalf("expected 42, got %d and %d", v1, v2)
	}
	if calls != 1 {
		t.Fatalf("expected fn to run once, ran %d times", calls)
	}
}

func TestTableGetRecomputesWhenFileDepChanges(t *testing.T) {
	st := store.New()
	id := st.Intern("/a.star", ast.Standard)
	st.ApplyChange(id, []byte("x = 1\n"))

	tab := NewTable[store.FileId, string]("contents")
	ctx := NewContext()
	calls := 0
	compute := func(rec *Recorder) (string, []internalerrors.Diagnostic) {
		calls++
		rec.Read(FileDep{Store: st, Id: id})
		return st.File(id).Contents, nil
	}

	v1, _, _ := tab.Get(ctx, id, compute)
	v2, _, _ := tab.Get(ctx, id, compute)
	if v1 != "x = 1\n" || v2 != "x = 1\n" {
		t.Fatalf("unexpected values: %q, %q", v1, v2)
	}
	if calls != 1 {
		t.Fatalf("expected one computation before the edit, got %d", calls)
	}

	st.ApplyChange(id, []byte("x = 2\n"))
	v3, _, _ := tab.Get(ctx, id, compute)
	if v3 != "x = 2\n" {
		t.Fatalf("expected recomputed contents, got %q", v3)
	}
	if calls != 2 {
		t.Fatalf("expected recomputation after edit, got %d calls", calls)
	}
}

func TestTableGetReturnsErrCancelled(t *testing.T) {
	tab := NewTable[string, int]("noop")
	ctx := NewContext()
	ctx.Token.Cancel()

	_, _, err := tab.Get(ctx, "x", func(rec *Recorder) (int, []internalerrors.Diagnostic) {
		t.Fatal("fn should not run once the token is cancelled")
		return 0, nil
	})
	if err != ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestTableGetDetectsCycle(t *testing.T) {
	tab := NewTable[string, int]("cyclic")
	ctx := NewContext()

	var compute func(rec *Recorder) (int, []internalerrors.Diagnostic)
	compute = func(rec *Recorder) (int, []internalerrors.Diagnostic) {
		_, _, err := tab.Get(ctx, "x", compute)
		if err == nil {
			t.Fatal("expected the recursive Get to fail with ErrCycle")
		}
		return 0, nil
	}

	_, _, err := tab.Get(ctx, "x", compute)
	if err != nil {
		t.Fatalf("outer Get should surface the value fn returns, got error %v", err)
	}
}

func TestDepOnChangesOnlyWhenRecomputed(t *testing.T) {
	upstream := NewTable[string, int]("upstream")
	ctx := NewContext()
	upstreamCalls := 0
	upCompute := func(rec *Recorder) (int, []internalerrors.Diagnostic) {
		upstreamCalls++
		return 1, nil
	}
	upstream.Get(ctx, "a", upCompute)
	dep := upstream.DepOn("a")
	firstRevision := dep.Revision()

	// A cache hit must not bump the dependency's observed revision.
	upstream.Get(ctx, "a", upCompute)
	if dep.Revision() != firstRevision {
		t.Fatalf("expected revision to stay %d on a cache hit, got %d", firstRevision, dep.Revision())
	}

	upstream.Invalidate("a")
	upstream.Get(ctx, "a", upCompute)
	if dep.Revision() == firstRevision {
		t.Fatalf("expected revision to change after recomputation")
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	tab := NewTable[string, int]("forced")
	ctx := NewContext()
	calls := 0
	compute := func(rec *Recorder) (int, []internalerrors.Diagnostic) {
		calls++
		return calls, nil
	}
	tab.Get(ctx, "x", compute)
	tab.Invalidate("x")
	v, _, _ := tab.Get(ctx, "x", compute)
	if v != 2 || calls != 2 {
		t.Fatalf("expected a forced recomputation, got value %d after %d calls", v, calls)
	}
}

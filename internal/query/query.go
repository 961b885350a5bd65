// Package query implements the engine's incremental-computation
// contract: memoization keyed by argument identity, revision-based
// read-set invalidation, cooperative cancellation, and dependency-cycle
// detection. It is generic over the key and value type of each query so
// every layer (HIR lowering, scope resolution, type inference) can define
// its own Table without the engine knowing anything about HIR, scopes,
// or types.
//
// The memoization shape follows the teacher's two concurrency-safe
// caches: internal/module/loader.go's `cache map[string]*Module` guarded
// by sync.RWMutex, and internal/link/resolver.go's double-checked-locking
// memo (RLock fast path, Lock slow path with a re-check before
// recomputing).
package query

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	internalerrors "github.com/starlark-lsp/semcore/internal/errors"
)

// Revision is the engine's edit-counter type. Every input mutation (a
// store.Store.ApplyChange, a built-in catalog reload) is expected to
// bump some Revision; queries compare the revision recorded in their
// read-set against the dependency's current revision to decide whether
// a cached result is still valid.
type Revision = uint64

// Dep is anything a query can read whose "has this changed" question can
// be answered by comparing two Revision values.
type Dep interface {
	Revision() Revision
}

// DepFunc adapts a plain function to Dep.
type DepFunc func() Revision

// Revision implements Dep.
func (f DepFunc) Revision() Revision { return f() }

// ErrCancelled is returned (never panicked) by Table.Get when the
// supplied CancelToken is raised at a polling boundary. It is the
// recoverable "Cancelled" signal spec.md's §4.1/§5 describe: every
// recomputation polls at entry and again before publishing its result,
// and unwinds with this error rather than partial state.
var ErrCancelled = errors.New("query: computation cancelled")

// ErrCycle is returned when a query, while recomputing, transitively
// asks for its own result again on the same call chain.
var ErrCycle = errors.New("query: dependency cycle detected")

// CancelToken is the shared cooperative cancellation flag spec.md §4.1
// calls for: "a cooperative flag may be raised; every recomputation
// polls at expression boundaries". One token is normally shared by every
// query spawned from a single root request (e.g. one facade call), so
// raising it cancels the whole in-flight tree.
type CancelToken struct {
	flag atomic.Bool
}

// NewCancelToken returns an unraised token.
func NewCancelToken() *CancelToken { return &CancelToken{} }

// Cancel raises the flag. Safe to call concurrently and more than once.
func (t *CancelToken) Cancel() { t.flag.Store(true) }

// Cancelled reports whether Cancel has been called.
func (t *CancelToken) Cancelled() bool { return t.flag.Load() }

// Checkpoint returns ErrCancelled if the token has been raised, nil
// otherwise. Query implementations call this at loop/recursion
// boundaries the way spec.md's infer_expr does at every expression.
func (t *CancelToken) Checkpoint() error {
	if t.flag.Load() {
		return ErrCancelled
	}
	return nil
}

// ActiveSet is the per-call-chain stack of in-flight query keys used to
// detect cycles ("a per-thread active-query stack" per spec.md §9). It
// is not safe for concurrent use by itself; a Context is expected to own
// one ActiveSet per independent call chain (e.g. one per goroutine
// driving a facade request), mirroring the spec's "per-thread" wording.
type ActiveSet struct {
	keys map[string]bool
}

// NewActiveSet returns an empty ActiveSet.
func NewActiveSet() *ActiveSet { return &ActiveSet{keys: make(map[string]bool)} }

func (a *ActiveSet) enter(key string) (leave func(), err error) {
	if a.keys[key] {
		return func() {}, ErrCycle
	}
	a.keys[key] = true
	return func() { delete(a.keys, key) }, nil
}

// Context bundles the cancellation token and cycle-detection stack a
// call chain threads through nested Table.Get calls. Construct one per
// independent top-level request; do not share a Context across
// goroutines running unrelated requests.
type Context struct {
	Token  *CancelToken
	Active *ActiveSet
}

// NewContext returns a fresh Context with a new token and active set.
func NewContext() *Context {
	return &Context{Token: NewCancelToken(), Active: NewActiveSet()}
}

// Recorded pairs a Dep with the revision observed at the moment a query
// read it.
type Recorded struct {
	Dep Dep
	At  Revision
}

// ReadSet is everything one cached entry read while it last recomputed.
type ReadSet []Recorded

// Valid reports whether every dependency's current revision still
// matches the revision recorded when the entry was built.
func (rs ReadSet) Valid() bool {
	for _, r := range rs {
		if r.Dep.Revision() != r.At {
			return false
		}
	}
	return true
}

// Recorder accumulates the read-set of a single query recomputation. A
// query function receives one and calls Read for every Dep it consults.
type Recorder struct {
	reads ReadSet
}

// Read records that the current recomputation observed d at its present
// revision.
func (r *Recorder) Read(d Dep) {
	r.reads = append(r.reads, Recorded{Dep: d, At: d.Revision()})
}

type entry[V any] struct {
	value   V
	diags   []internalerrors.Diagnostic
	reads   ReadSet
	version Revision
}

// Table is a revision-validated memo table for one query function, keyed
// by K and producing V plus the diagnostics accumulated while computing
// it. Diagnostics are attached to the cached output and survive cache
// hits, matching spec.md §4.1's "Diagnostics reported during a query are
// attached to that query's output and survive cache hits."
type Table[K comparable, V any] struct {
	name        string
	mu          sync.RWMutex
	entries     map[K]*entry[V]
	nextVersion uint64
}

// NewTable creates an empty Table. name is used only to namespace this
// table's keys in cycle-detection bookkeeping; it has no effect on
// caching.
func NewTable[K comparable, V any](name string) *Table[K, V] {
	return &Table[K, V]{name: name, entries: make(map[K]*entry[V])}
}

// Get returns the memoized (value, diagnostics) for key, recomputing via
// fn if there is no entry or its read-set is no longer valid. fn
// receives a Recorder it must call Read on for every Dep it consults;
// omitting a read means that dependency's later changes will not
// invalidate this entry.
//
// Get returns ErrCancelled if ctx's token is raised before or after
// recomputation, and ErrCycle if key is already being computed earlier
// on this same Context's call chain.
func (t *Table[K, V]) Get(ctx *Context, key K, fn func(rec *Recorder) (V, []internalerrors.Diagnostic)) (V, []internalerrors.Diagnostic, error) {
	var zero V
	if err := ctx.Token.Checkpoint(); err != nil {
		return zero, nil, err
	}

	if v, d, ok := t.lookup(key); ok {
		return v, d, nil
	}

	activeKey := fmt.Sprintf("%s:%v", t.name, key)
	leave, err := ctx.Active.enter(activeKey)
	if err != nil {
		return zero, nil, err
	}
	defer leave()

	// Re-check: another goroutine may have published a valid entry since
	// the first lookup. fn runs with no lock held, so concurrent Gets of
	// one key can still both recompute it.
	if v, d, ok := t.lookup(key); ok {
		return v, d, nil
	}

	rec := &Recorder{}
	value, diags := fn(rec)

	if err := ctx.Token.Checkpoint(); err != nil {
		return zero, nil, ErrCancelled
	}

	t.mu.Lock()
	t.nextVersion++
	t.entries[key] = &entry[V]{value: value, diags: diags, reads: rec.reads, version: t.nextVersion}
	t.mu.Unlock()

	return value, diags, nil
}

func (t *Table[K, V]) lookup(key K) (V, []internalerrors.Diagnostic, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[key]
	if !ok || !e.reads.Valid() {
		var zero V
		return zero, nil, false
	}
	return e.value, e.diags, true
}

// Invalidate drops the cached entry for key, if any, forcing the next
// Get to recompute regardless of read-set validity. Used when a
// dependency the read-set can't express changes (e.g. the built-in
// catalog is reloaded wholesale).
func (t *Table[K, V]) Invalidate(key K) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Clear drops every cached entry.
func (t *Table[K, V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[K]*entry[V])
}

// DepOn returns a Dep tracking key's own cached entry in this table, so
// one query can declare a dependency on another query's output without
// either table knowing the other's value type. The returned Dep's
// revision changes exactly when key is actually recomputed (a cache hit
// leaves it unchanged), never on every Get call.
func (t *Table[K, V]) DepOn(key K) Dep {
	return DepFunc(func() Revision {
		t.mu.RLock()
		defer t.mu.RUnlock()
		if e, ok := t.entries[key]; ok {
			return e.version
		}
		return 0
	})
}

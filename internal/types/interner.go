package types

import (
	"fmt"
	"strings"
	"sync"
)

// Interner owns the single table of interned Tys for one engine instance.
// Construction is lock-protected; once a Ty is returned its *tyData never
// changes, so reads racing a concurrent insert are always safe (spec.md's
// "lock-protected insert, lock-free lookup after publish" for the Ty
// interner, mirrored here as a plain mutex around the single table since
// nothing in the corpus shows a lock-free variant worth reproducing).
type Interner struct {
	mu    sync.Mutex
	table map[string]*tyData
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]*tyData)}
}

func (in *Interner) intern(key string, build func() *tyData) Ty {
	in.mu.Lock()
	defer in.mu.Unlock()
	if d, ok := in.table[key]; ok {
		return Ty{d}
	}
	d := build()
	in.table[key] = d
	return Ty{d}
}

func simpleKey(k Kind) string { return fmt.Sprintf("k%d", k) }

func (in *Interner) simple(k Kind) Ty {
	return in.intern(simpleKey(k), func() *tyData { return &tyData{kind: k} })
}

func (in *Interner) Unbound() Ty     { return in.simple(KindUnbound) }
func (in *Interner) Unknown() Ty     { return in.simple(KindUnknown) }
func (in *Interner) Any() Ty         { return in.simple(KindAny) }
func (in *Interner) None() Ty        { return in.simple(KindNone) }
func (in *Interner) Bool() Ty        { return in.simple(KindBool) }
func (in *Interner) Int() Ty         { return in.simple(KindInt) }
func (in *Interner) Float() Ty       { return in.simple(KindFloat) }
func (in *Interner) String() Ty      { return in.simple(KindString) }
func (in *Interner) StringElems() Ty { return in.simple(KindStringElems) }
func (in *Interner) Bytes() Ty       { return in.simple(KindBytes) }
func (in *Interner) BytesElems() Ty  { return in.simple(KindBytesElems) }
func (in *Interner) Range() Ty       { return in.simple(KindRange) }

// List returns the interned List(elem) type.
func (in *Interner) List(elem Ty) Ty {
	key := fmt.Sprintf("list:%p", elem.data)
	return in.intern(key, func() *tyData { return &tyData{kind: KindList, elem: elem} })
}

// Dict returns the interned Dict(key, value) type.
func (in *Interner) Dict(key, value Ty) Ty {
	k := fmt.Sprintf("dict:%p:%p", key.data, value.data)
	return in.intern(k, func() *tyData { return &tyData{kind: KindDict, key: key, value: value} })
}

// TupleFixed returns the interned Tuple(Fixed(elems)) type.
func (in *Interner) TupleFixed(elems []Ty) Ty {
	var sb strings.Builder
	sb.WriteString("tuplef:")
	for _, e := range elems {
		fmt.Fprintf(&sb, "%p,", e.data)
	}
	key := sb.String()
	return in.intern(key, func() *tyData {
		cp := append([]Ty(nil), elems...)
		return &tyData{kind: KindTuple, fixed: cp}
	})
}

// TupleVariable returns the interned Tuple(Variable(elem)) type.
func (in *Interner) TupleVariable(elem Ty) Ty {
	key := fmt.Sprintf("tuplev:%p", elem.data)
	return in.intern(key, func() *tyData {
		return &tyData{kind: KindTuple, variable: elem, isVariableTuple: true}
	})
}

// Function returns the interned Function(id) type, identifying a
// user-defined def or lambda by its FnId (a def's hir.StmtId or a
// lambda's hir.ExprId, stringified by the caller).
func (in *Interner) Function(id string) Ty {
	key := "fn:" + id
	return in.intern(key, func() *tyData { return &tyData{kind: KindFunction, id: id} })
}

// BuiltinFunction returns the interned BuiltinFunction(id, subst) type:
// one catalog entry instantiated at a particular call site's bound
// variables.
func (in *Interner) BuiltinFunction(id string, subst Substitution) Ty {
	key := fmt.Sprintf("bfn:%s:%s", id, subst.key())
	return in.intern(key, func() *tyData {
		return &tyData{kind: KindBuiltinFunction, id: id, subst: append(Substitution(nil), subst...)}
	})
}

// CustomFunction returns the interned CustomFunction(id) type.
func (in *Interner) CustomFunction(id string) Ty {
	key := "cfn:" + id
	return in.intern(key, func() *tyData { return &tyData{kind: KindCustomFunction, id: id} })
}

// CustomType returns the interned CustomType(id) type.
func (in *Interner) CustomType(id string) Ty {
	key := "ctype:" + id
	return in.intern(key, func() *tyData { return &tyData{kind: KindCustomType, id: id} })
}

// BoundVar returns the interned BoundVar(index) type.
func (in *Interner) BoundVar(index int) Ty {
	key := fmt.Sprintf("bv:%d", index)
	return in.intern(key, func() *tyData { return &tyData{kind: KindBoundVar, index: index} })
}

// Package types implements the interned type term ("Ty") this module's
// inference layer computes and the façade exposes: a small closed set of
// kinds (base scalars, List/Tuple/Dict, the four callable kinds, and
// BoundVar), interned so that two structurally equal kinds compare equal
// as Go values.
//
// The interning discipline mirrors the teacher's internal/types package
// (sunholo-data-ailang), which keeps a process-wide table of constructed
// Type values keyed by their printed form; here the key is built from the
// interned identity of a kind's children instead of a recursive string,
// since every child Ty is itself already an interned, comparable handle.
package types

import (
	"fmt"
	"strings"
)

// Kind tags a Ty's variant.
type Kind int

const (
	KindUnbound Kind = iota
	KindUnknown
	KindAny
	KindNone
	KindBool
	KindInt
	KindFloat
	KindString
	KindStringElems
	KindBytes
	KindBytesElems
	KindRange
	KindList
	KindTuple
	KindDict
	KindFunction
	KindBuiltinFunction
	KindCustomFunction
	KindCustomType
	KindBoundVar
)

func (k Kind) String() string {
	switch k {
	case KindUnbound:
		return "unbound"
	case KindUnknown:
		return "unknown"
	case KindAny:
		return "any"
	case KindNone:
		return "None"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStringElems:
		return "string.elems"
	case KindBytes:
		return "bytes"
	case KindBytesElems:
		return "bytes.elems"
	case KindRange:
		return "range"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindDict:
		return "dict"
	case KindFunction:
		return "function"
	case KindBuiltinFunction:
		return "builtin_function"
	case KindCustomFunction:
		return "custom_function"
	case KindCustomType:
		return "custom_type"
	case KindBoundVar:
		return "bound_var"
	default:
		return "?"
	}
}

// Ty is an interned type term. The zero Ty is invalid; only Tys handed
// back from an Interner's constructors are meaningful. Two Tys compare
// equal with == iff they denote structurally equal kinds, since the
// Interner guarantees a single *tyData per distinct structural key.
type Ty struct {
	data *tyData
}

type tyData struct {
	kind Kind

	elem Ty // List

	fixed           []Ty // Tuple, Fixed
	variable        Ty   // Tuple, Variable
	isVariableTuple bool

	key, value Ty // Dict

	id    string       // Function/BuiltinFunction/CustomFunction/CustomType
	subst Substitution // BuiltinFunction

	index int // BoundVar
}

// IsValid reports whether t was produced by an Interner (as opposed to
// being a zero Ty).
func (t Ty) IsValid() bool { return t.data != nil }

// Kind returns t's variant.
func (t Ty) Kind() Kind { return t.data.kind }

// Elem returns a List's element type.
func (t Ty) Elem() Ty { return t.data.elem }

// DictKey returns a Dict's key type.
func (t Ty) DictKey() Ty { return t.data.key }

// DictValue returns a Dict's value type.
func (t Ty) DictValue() Ty { return t.data.value }

// IsVariableTuple reports whether a Tuple is the Variable(Ty) form
// (homogeneous, unknown length) rather than Fixed([Ty]).
func (t Ty) IsVariableTuple() bool { return t.data.isVariableTuple }

// TupleVariable returns the element type of a Variable tuple.
func (t Ty) TupleVariable() Ty { return t.data.variable }

// TupleFixed returns the element types of a Fixed tuple, in order.
func (t Ty) TupleFixed() []Ty { return t.data.fixed }

// ID returns the FnId/BId/CId/TId a Function/BuiltinFunction/
// CustomFunction/CustomType carries.
func (t Ty) ID() string { return t.data.id }

// BuiltinSubstitution returns a BuiltinFunction's bound substitution.
func (t Ty) BuiltinSubstitution() Substitution { return t.data.subst }

// BoundVarIndex returns a BoundVar's de Bruijn-style index.
func (t Ty) BoundVarIndex() int { return t.data.index }

// String renders t for diagnostics. It intentionally stays close to
// Starlark's own type names rather than this package's Kind names.
func (t Ty) String() string {
	if !t.IsValid() {
		return "<invalid>"
	}
	switch t.Kind() {
	case KindList:
		return fmt.Sprintf("list[%s]", t.Elem())
	case KindDict:
		return fmt.Sprintf("dict[%s, %s]", t.DictKey(), t.DictValue())
	case KindTuple:
		if t.IsVariableTuple() {
			return fmt.Sprintf("tuple[%s, ...]", t.TupleVariable())
		}
		s := "tuple["
		for i, e := range t.TupleFixed() {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	case KindFunction:
		return fmt.Sprintf("function(%s)", t.ID())
	case KindBuiltinFunction:
		return t.ID()
	case KindCustomFunction:
		return t.ID()
	case KindCustomType:
		return t.ID()
	case KindBoundVar:
		return fmt.Sprintf("$%d", t.BoundVarIndex())
	default:
		return t.Kind().String()
	}
}

// Substitution is an ordered list of Tys binding BoundVar(0), BoundVar(1),
// and so on in order.
type Substitution []Ty

func (s Substitution) key() string {
	var sb strings.Builder
	for _, t := range s {
		fmt.Fprintf(&sb, "%p,", t.data)
	}
	return sb.String()
}

// Substitute replaces every BoundVar(i) reachable within t with subst[i],
// using in to intern the resulting composite types. It is the Ty-level
// counterpart to Binders.Substitute, used directly wherever a Ty (a
// builtin function's return type, say) is already known to be closed
// over some number of bound variables without a separate Binders value
// tracking NumVars.
func (t Ty) Substitute(in *Interner, subst Substitution) Ty {
	return substitute(in, t, subst)
}

// Binders is a type body closed over BoundVar(0..NumVars): the shape
// stored once per list/dict base class or builtin function signature,
// instantiated per call site or per container by Substitute.
type Binders struct {
	NumVars int
	Body    Ty
}

// Substitute replaces every BoundVar(i) in b.Body with subst[i], using in
// to intern the resulting composite types. subst must supply at least
// b.NumVars entries.
func (b Binders) Substitute(in *Interner, subst Substitution) Ty {
	return b.Body.Substitute(in, subst)
}

func substitute(in *Interner, t Ty, subst Substitution) Ty {
	switch t.Kind() {
	case KindBoundVar:
		if idx := t.BoundVarIndex(); idx < len(subst) {
			return subst[idx]
		}
		return t
	case KindList:
		return in.List(substitute(in, t.Elem(), subst))
	case KindDict:
		return in.Dict(substitute(in, t.DictKey(), subst), substitute(in, t.DictValue(), subst))
	case KindTuple:
		if t.IsVariableTuple() {
			return in.TupleVariable(substitute(in, t.TupleVariable(), subst))
		}
		fixed := t.TupleFixed()
		out := make([]Ty, len(fixed))
		for i, e := range fixed {
			out[i] = substitute(in, e, subst)
		}
		return in.TupleFixed(out)
	case KindBuiltinFunction:
		old := t.BuiltinSubstitution()
		out := make(Substitution, len(old))
		for i, e := range old {
			out[i] = substitute(in, e, subst)
		}
		return in.BuiltinFunction(t.ID(), out)
	default:
		return t
	}
}

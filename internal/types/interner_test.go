package types

import "testing"

func TestSimpleKindsAreSingletons(t *testing.T) {
	in := NewInterner()
	if in.Int() != in.Int() {
		t.Fatal("want Int() to return the same interned Ty each call")
	}
	if in.Int() == in.Float() {
		t.Fatal("want distinct kinds to intern distinctly")
	}
}

func TestStructurallyEqualListsShareIdentity(t *testing.T) {
	in := NewInterner()
	l1 := in.List(in.Int())
	l2 := in.List(in.Int())
	if l1 != l2 {
		t.Fatal("want List(Int) interned once")
	}
	l3 := in.List(in.String())
	if l1 == l3 {
		t.Fatal("want List(Int) and List(String) to be distinct")
	}
}

func TestDictInterning(t *testing.T) {
	in := NewInterner()
	d1 := in.Dict(in.String(), in.Int())
	d2 := in.Dict(in.String(), in.Int())
	if d1 != d2 {
		t.Fatal("want Dict(String, Int) interned once")
	}
	if d1.DictKey() != in.String() || d1.DictValue() != in.Int() {
		t.Fatal("want accessors to round-trip key/value")
	}
}

func TestTupleFixedAndVariable(t *testing.T) {
	in := NewInterner()
	f1 := in.TupleFixed([]Ty{in.Int(), in.String()})
	f2 := in.TupleFixed([]Ty{in.Int(), in.String()})
	if f1 != f2 {
		t.Fatal("want Tuple(Fixed([Int, String])) interned once")
	}
	v := in.TupleVariable(in.Int())
	if v.IsVariableTuple() != true || v.TupleVariable() != in.Int() {
		t.Fatal("want variable tuple accessors to round-trip")
	}
	if f1.IsVariableTuple() {
		t.Fatal("fixed tuple must not report as variable")
	}
}

func TestBoundVarSubstitution(t *testing.T) {
	in := NewInterner()
	// Binders for list's base class: BoundVar(0) field closed over 1 var.
	b := Binders{NumVars: 1, Body: in.BoundVar(0)}
	got := b.Substitute(in, Substitution{in.Int()})
	if got != in.Int() {
		t.Fatalf("want substitution to resolve BoundVar(0) to Int, got %v", got)
	}
}

func TestBoundVarSubstitutionThroughComposite(t *testing.T) {
	in := NewInterner()
	// list[BoundVar(0)] closed over 1 var, instantiated with String.
	b := Binders{NumVars: 1, Body: in.List(in.BoundVar(0))}
	got := b.Substitute(in, Substitution{in.String()})
	want := in.List(in.String())
	if got != want {
		t.Fatalf("want substituted List(BoundVar(0)) to equal List(String), got %v want %v", got, want)
	}
}

func TestBuiltinFunctionInterningBySubstitution(t *testing.T) {
	in := NewInterner()
	f1 := in.BuiltinFunction("len", Substitution{in.Int()})
	f2 := in.BuiltinFunction("len", Substitution{in.Int()})
	if f1 != f2 {
		t.Fatal("want identical (id, subst) pairs to intern to the same Ty")
	}
	f3 := in.BuiltinFunction("len", Substitution{in.String()})
	if f1 == f3 {
		t.Fatal("want different substitutions to intern distinctly")
	}
}

func TestStringRendering(t *testing.T) {
	in := NewInterner()
	l := in.List(in.Int())
	if got, want := l.String(), "list[int]"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	d := in.Dict(in.String(), in.Int())
	if got, want := d.String(), "dict[string, int]"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

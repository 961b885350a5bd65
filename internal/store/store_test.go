package store

import (
	"testing"

	"github.com/starlark-lsp/semcore/internal/ast"
)

func TestInternIsIdempotent(t *testing.T) {
	s := New()
	id1 := s.Intern("/a/b.star", ast.Standard)
	id2 := s.Intern("/a/b.star", ast.Standard)
	if id1 != id2 {
		t.Fatalf("expected same FileId for repeated Intern, got %d vs %d", id1, id2)
	}
	id3 := s.Intern("/a/c.star", ast.Standard)
	if id3 == id1 {
		t.Fatalf("expected distinct FileId for distinct path")
	}
}

func TestApplyChangeBumpsRevision(t *testing.T) {
	s := New()
	id := s.Intern("/a/b.star", ast.Standard)
	before := s.Revision()
	s.ApplyChange(id, []byte("x = 1\n"))
	after := s.Revision()
	if after <= before {
		t.Fatalf("expected revision to increase, got %d -> %d", before, after)
	}
	if s.File(id).Contents != "x = 1\n" {
		t.Fatalf("unexpected contents: %q", s.File(id).Contents)
	}
}

func TestChangedAtTracksPerFileRevision(t *testing.T) {
	s := New()
	a := s.Intern("/a.star", ast.Standard)
	b := s.Intern("/b.star", ast.Standard)
	s.ApplyChange(a, []byte("x = 1\n"))
	aChanged := s.ChangedAt(a)
	bChanged := s.ChangedAt(b)
	if aChanged == 0 {
		t.Fatalf("expected ChangedAt(a) to be set after ApplyChange")
	}
	if bChanged != 0 {
		t.Fatalf("expected ChangedAt(b) to stay 0, b was never changed, got %d", bChanged)
	}
	s.ApplyChange(b, []byte("y = 2\n"))
	if s.ChangedAt(b) <= aChanged {
		t.Fatalf("expected ChangedAt(b) to exceed ChangedAt(a) after a later change")
	}
}

func TestLookupMissing(t *testing.T) {
	s := New()
	if _, ok := s.Lookup("/nope"); ok {
		t.Fatalf("expected Lookup to report absent file")
	}
}

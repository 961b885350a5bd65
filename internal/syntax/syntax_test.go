package syntax

import (
	"testing"

	"github.com/starlark-lsp/semcore/internal/ast"
)

func TestDefaultParserParsesFile(t *testing.T) {
	var p Parser = DefaultParser{}
	f, diags := p.Parse("main.star", "x = 1\n", ast.Standard)
	if f == nil {
		t.Fatal("expected a non-nil File")
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if len(f.TopLevel) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(f.TopLevel))
	}
}

func TestDefaultParserReportsDiagnosticsWithoutPanicking(t *testing.T) {
	var p Parser = DefaultParser{}
	f, diags := p.Parse("broken.star", "def f(:\n", ast.Standard)
	if f == nil {
		t.Fatal("expected a non-nil File even for malformed input")
	}
	if len(diags) == 0 {
		t.Fatal("expected at least one diagnostic for malformed input")
	}
}

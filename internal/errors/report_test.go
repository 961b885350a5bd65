package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starlark-lsp/semcore/internal/ast"
)

func TestFromDiagnosticCarriesSpanAndMessage(t *testing.T) {
	d := Diagnostic{
		Kind:     TYP001,
		Severity: SeverityError,
		Message:  `Argument of type "int" cannot be assigned to parameter of type "str"`,
		Span:     ast.Span{Start: ast.Pos{Line: 3, Column: 5}, End: ast.Pos{Line: 3, Column: 8}},
	}

	rep := FromDiagnostic("typecheck", TYP001, d)
	require.Equal(t, schemaV1, rep.Schema)
	require.Equal(t, TYP001, rep.Code)
	require.Equal(t, "typecheck", rep.Phase)
	require.Equal(t, d.Message, rep.Message)
	require.NotNil(t, rep.Span)
	require.Equal(t, d.Span, *rep.Span)
}

func TestReportToJSONCompactAndIndented(t *testing.T) {
	rep := &Report{Schema: schemaV1, Code: RES003, Phase: "typecheck", Message: "Unknown type \"widget\" in type comment"}

	compact, err := rep.ToJSON(true)
	require.NoError(t, err)
	require.NotContains(t, compact, "\n")
	require.Contains(t, compact, `"code":"RES003"`)

	indented, err := rep.ToJSON(false)
	require.NoError(t, err)
	require.Contains(t, indented, "\n")
	require.Contains(t, indented, `"code": "RES003"`)
}

func TestNewGenericSetsRuntimeCode(t *testing.T) {
	cause := errors.New("permission denied")
	rep := NewGeneric("cli", cause)
	require.Equal(t, schemaV1, rep.Schema)
	require.Equal(t, "RUNTIME", rep.Code)
	require.Equal(t, "cli", rep.Phase)
	require.Equal(t, cause.Error(), rep.Message)
}

func TestWrapReportAndAsReportRoundTrip(t *testing.T) {
	rep := NewGeneric("cli", errors.New("no such file"))
	rep.Code = CLI002

	wrapped := WrapReport(rep)
	require.Error(t, wrapped)
	require.Equal(t, CLI002+": no such file", wrapped.Error())

	got, ok := AsReport(wrapped)
	require.True(t, ok)
	require.Same(t, rep, got)

	_, ok = AsReport(errors.New("plain error, not a Report"))
	require.False(t, ok)
}

func TestWrapReportNil(t *testing.T) {
	require.Nil(t, WrapReport(nil))
}

package errors

import (
	"encoding/json"
	"errors"

	"github.com/starlark-lsp/semcore/internal/ast"
)

// Fix represents a suggested fix with a confidence score, surfaced on a
// Report for editor tooling to offer as a quick-fix.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Severity classifies a Diagnostic's importance. Errors block a clean
// analysis result; warnings and hints never do.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is the in-memory record a query pushes onto its output when
// it notices something wrong. Callers switch on Kind, never on Code —
// Code is carried purely for the structured report / --json output.
type Diagnostic struct {
	Kind     string
	Severity Severity
	Message  string
	Span     ast.Span
}

// Report is the canonical structured error shape emitted by --json and by
// any error wrapped and returned up a call chain.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

const schemaV1 = "semcore.error/v1"

// ReportError wraps a Report as an error so it survives errors.As()
// unwrapping back out of a call chain.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders a Report as JSON. Map fields are encoded with sorted
// keys by encoding/json already, so output is deterministic without extra
// machinery.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromDiagnostic converts an analysis Diagnostic plus its error code into
// the wire Report shape used by --json output.
func FromDiagnostic(phase, code string, d Diagnostic) *Report {
	span := d.Span
	return &Report{
		Schema:  schemaV1,
		Code:    code,
		Phase:   phase,
		Message: d.Message,
		Span:    &span,
	}
}

// NewGeneric creates a generic error report for failures that aren't tied
// to a specific diagnostic code (I/O errors, panics recovered at a query
// root, etc).
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  schemaV1,
		Code:    "RUNTIME",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}

// Package errors provides the structured diagnostic taxonomy shared by
// every analysis phase: lexing/parsing, name resolution, type inference,
// module resolution, and the CLI.
package errors

// Error code constants, organized by phase. Codes are data carried on a
// Report for tooling and tests to key off of; callers still switch on a
// Diagnostic's Kind, never on the code string.
const (
	// ============================================================================
	// Parser errors (PAR###) — wrapped lexer/parser syntax errors.
	// ============================================================================

	// PAR001 indicates an unexpected token was encountered during parsing.
	PAR001 = "PAR001"

	// PAR002 indicates a missing closing delimiter (paren, bracket, brace).
	PAR002 = "PAR002"

	// PAR003 indicates a malformed statement that did not match any known
	// statement shape.
	PAR003 = "PAR003"

	// PAR004 indicates a malformed expression, lowered to a BadExpr.
	PAR004 = "PAR004"

	// PAR005 indicates an invalid load() statement shape.
	PAR005 = "PAR005"

	// ============================================================================
	// Name resolution errors (NAM###)
	// ============================================================================

	// NAM001 indicates a name is used without any visible declaration.
	NAM001 = "NAM001"

	// ============================================================================
	// Type inference errors (TYP###)
	// ============================================================================

	// TYP001 indicates a value is not assignable to the expected type.
	TYP001 = "TYP001"

	// TYP002 indicates a call is missing a required argument.
	TYP002 = "TYP002"

	// TYP003 indicates a call supplies an argument no parameter accepts.
	TYP003 = "TYP003"

	// TYP004 indicates an attempt to call a non-callable value.
	TYP004 = "TYP004"

	// TYP005 indicates an attempt to index a non-indexable value.
	TYP005 = "TYP005"

	// TYP006 indicates access to a field or method that does not exist on
	// the receiver's type.
	TYP006 = "TYP006"

	// TYP007 indicates an attempt to iterate a non-iterable value.
	TYP007 = "TYP007"

	// TYP008 indicates a destructuring assignment whose target shape does
	// not match the source type's arity.
	TYP008 = "TYP008"

	// TYP009 indicates a binary or unary operator applied to operand types
	// that do not support it.
	TYP009 = "TYP009"

	// ============================================================================
	// Module resolution errors (RES###)
	// ============================================================================

	// RES001 indicates a load() module path could not be resolved to a file.
	RES001 = "RES001"

	// RES002 indicates a load() item name is not exported by the loaded
	// module.
	RES002 = "RES002"

	// RES003 indicates a type annotation names a type the built-in
	// catalog does not know.
	RES003 = "RES003"

	// ============================================================================
	// CLI errors (CLI###)
	// ============================================================================

	// CLI001 indicates an invalid command-line flag combination.
	CLI001 = "CLI001"

	// CLI002 indicates a path argument that does not exist on disk.
	CLI002 = "CLI002"

	// ============================================================================
	// Configuration errors (CFG###)
	// ============================================================================

	// CFG001 indicates a malformed built-in catalog descriptor.
	CFG001 = "CFG001"

	// CFG002 indicates an unknown dialect name in configuration.
	CFG002 = "CFG002"
)

// ErrorInfo provides structured information about an error code.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// ErrorRegistry maps error codes to their information.
var ErrorRegistry = map[string]ErrorInfo{
	PAR001: {PAR001, "parser", "syntax", "Unexpected token"},
	PAR002: {PAR002, "parser", "syntax", "Missing closing delimiter"},
	PAR003: {PAR003, "parser", "syntax", "Invalid statement"},
	PAR004: {PAR004, "parser", "syntax", "Invalid expression"},
	PAR005: {PAR005, "parser", "syntax", "Invalid load statement"},

	NAM001: {NAM001, "resolve", "scope", "Name not defined"},

	TYP001: {TYP001, "typecheck", "assignability", "Type mismatch"},
	TYP002: {TYP002, "typecheck", "call", "Missing required argument"},
	TYP003: {TYP003, "typecheck", "call", "Unexpected argument"},
	TYP004: {TYP004, "typecheck", "call", "Value is not callable"},
	TYP005: {TYP005, "typecheck", "index", "Value is not indexable"},
	TYP006: {TYP006, "typecheck", "field", "Unknown field or method"},
	TYP007: {TYP007, "typecheck", "iteration", "Value is not iterable"},
	TYP008: {TYP008, "typecheck", "destructure", "Destructuring arity mismatch"},
	TYP009: {TYP009, "typecheck", "operator", "Operator not supported for operand types"},

	RES001: {RES001, "module", "resolution", "Module not found"},
	RES002: {RES002, "module", "resolution", "Load item not exported"},
	RES003: {RES003, "typecheck", "resolution", "Unknown type in type comment"},

	CLI001: {CLI001, "cli", "flags", "Invalid flag combination"},
	CLI002: {CLI002, "cli", "flags", "Path does not exist"},

	CFG001: {CFG001, "config", "catalog", "Malformed built-in catalog"},
	CFG002: {CFG002, "config", "catalog", "Unknown dialect"},
}

// GetErrorInfo returns information about an error code.
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, exists := ErrorRegistry[code]
	return info, exists
}

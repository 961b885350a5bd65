package types

// ParamKind distinguishes a built-in function parameter's binding form,
// per PEP 3102 slot binding (spec.md §4.6's slot-binding algorithm).
type ParamKind int

const (
	ParamPositional ParamKind = iota
	ParamKeyword
	ParamVarArgList
	ParamVarArgDict
)

// BuiltinParam is one parameter slot of a built-in function signature.
// Ty may reference BoundVar(0..NumVars); Name is set only for
// ParamKeyword, Optional only meaningful for ParamPositional.
type BuiltinParam struct {
	Kind     ParamKind
	Name     string
	Ty       Ty
	Optional bool
}

// BuiltinFuncSig is one built-in function's full signature: its
// parameter slots in declaration order and its return type, both
// potentially closed over BoundVar(0..NumVars).
type BuiltinFuncSig struct {
	NumVars int
	Params  []BuiltinParam
	Ret     Ty
}

// Field is one field of a built-in or custom type, substituted for its
// own bound variables already (Dot still substitutes list/dict element,
// key, value types through the receiver's own bound Tys).
type Field struct {
	Name string
	Ty   Ty
	Doc  string
}

// Catalog is what inference needs from the dialect's loaded built-in
// catalog: resolving a TypeRef to a concrete Ty, a built-in function's
// signature, a custom function's declared return TypeRef, and a type's
// field list. internal/builtins implements this; keeping the dependency
// as a narrow interface here (the same pattern internal/resolver uses
// for its Builtins interface) avoids internal/types importing
// internal/builtins, which itself imports internal/types for Ty/Binders.
type Catalog interface {
	ResolveTypeRef(name string) (Ty, bool)
	BuiltinFuncSig(id string) (BuiltinFuncSig, bool)
	CustomFuncRetRef(id string) (string, bool)
	Fields(receiverTy Ty) ([]Field, bool)
	// VarType resolves a BuiltinVariable's declared type, e.g. the
	// scope.BuiltinVariable the name resolver returns for `True`/`None`.
	VarType(id string) (Ty, bool)
}

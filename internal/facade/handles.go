package facade

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/hir"
	"github.com/starlark-lsp/semcore/internal/resolver"
	"github.com/starlark-lsp/semcore/internal/scope"
	"github.com/starlark-lsp/semcore/internal/types"
)

// Type is a stable handle over one inferred types.Ty, grounded on
// api.rs's Type (a thin wrapper around Ty, since exposing the interned
// Ty value directly would let a caller reach back into internal/types'
// Kind enum instead of going through this package's query surface).
type Type struct{ ty types.Ty }

// IsValid reports whether t actually names a Ty (the zero Type does
// not; every Type this package hands back does).
func (t Type) IsValid() bool { return t.ty.IsValid() }

// IsUnknown is Type::is_unknown.
func (t Type) IsUnknown() bool { return t.ty.Kind() == types.KindUnknown }

// IsFunction is Type::is_function: true for any of the three callable
// kinds (user-defined, built-in, or dialect-custom).
func (t Type) IsFunction() bool { return isCallableKind(t.ty.Kind()) }

// IsUserDefinedFunction is Type::is_user_defined_function: true only
// for a `def`/`lambda`-backed Function, not a built-in or custom one.
func (t Type) IsUserDefinedFunction() bool { return t.ty.Kind() == types.KindFunction }

// String renders t the way internal/types.Ty already does, for
// hover/diagnostic text.
func (t Type) String() string { return t.ty.String() }

// DictValueTy is Type::dict_value_ty: the value type of a Dict, or false
// for any other kind.
func (t Type) DictValueTy() (Type, bool) {
	if t.ty.Kind() != types.KindDict {
		return Type{}, false
	}
	return Type{ty: t.ty.DictValue()}, true
}

// VariableTupleElementTy is Type::variable_tuple_element_ty: the element
// type of a homogeneous Variable tuple, or false for a Fixed tuple or
// any other kind.
func (t Type) VariableTupleElementTy() (Type, bool) {
	if t.ty.Kind() != types.KindTuple || !t.ty.IsVariableTuple() {
		return Type{}, false
	}
	return Type{ty: t.ty.TupleVariable()}, true
}

// KnownKeys is Type::known_keys. It always reports false here: unlike
// the original analyzer, no Ty kind in this port tracks a dict literal's
// keys as a distinct, narrower type (see DESIGN.md's Open Question
// decision on Dict literal typing), so there is never a known-keys set
// to return.
func (t Type) KnownKeys() ([]string, bool) { return nil, false }

// Params is Type::params: the callable's parameter handles paired with
// their substituted Types, or an empty slice if t is not callable or
// carries no recoverable parameter list (a CustomFunction).
func (t Type) Params(s *Semantics) []ParamInfo { return s.tyParams(t.ty) }

// Doc is Type::doc: the callable or built-in type's docstring, if any.
func (t Type) Doc(s *Semantics) (string, bool) { return s.tyDoc(t.ty) }

// Fields is Type::fields: every field access valid on a receiver of this
// type, paired with its substituted Type.
func (t Type) Fields(s *Semantics) []FieldInfo {
	fields, ok := s.catalog.Fields(t.ty)
	if !ok {
		return nil
	}
	out := make([]FieldInfo, len(fields))
	for i, f := range fields {
		out[i] = FieldInfo{Name: f.Name, Doc: f.Doc, Ty: Type{ty: f.Ty}}
	}
	return out
}

// ParamInfo pairs one callable parameter's declared name with its
// (substituted) Type, the (Param, Type) pair api.rs's params() returns.
type ParamInfo struct {
	Name     string
	Ty       Type
	Optional bool
}

// FieldInfo pairs one type's field name and docstring with its
// (substituted) Type, the (Field, Type) pair api.rs's fields() returns.
type FieldInfo struct {
	Name string
	Doc  string
	Ty   Type
}

// Function is a stable handle over a callable Ty, grounded on api.rs's
// Function(FunctionInner). The original splits HirDef/IntrinsicFunction/
// BuiltinFunction three ways; this port's Ty system only distinguishes
// user-defined (Function, covering both `def` and `lambda`) from
// built-in/custom, so Function here wraps the Ty directly rather than a
// separate enum.
type Function struct{ ty types.Ty }

// Type returns f's own Type handle, api.rs's Function::ty.
func (f Function) Type() Type { return Type{ty: f.ty} }

// IsUserDefined is Function::is_user_defined.
func (f Function) IsUserDefined() bool { return f.ty.Kind() == types.KindFunction }

// Name is Function::name: the callable's declared name, or false if it
// cannot be recovered (a lambda has none).
func (f Function) Name(s *Semantics) (string, bool) { return s.funcName(f.ty) }

// Params is Function::params.
func (f Function) Params(s *Semantics) []ParamInfo { return s.tyParams(f.ty) }

// RetTy is Function::ret_ty: the callable's return type, or false if it
// cannot be determined without a concrete call site (a user-defined
// function's return type tracking is a documented limitation; see
// internal/types/call.go).
func (f Function) RetTy(s *Semantics) (Type, bool) { return s.funcRetTy(f.ty) }

// Doc is Function::doc.
func (f Function) Doc(s *Semantics) (string, bool) { return s.tyDoc(f.ty) }

// Variable is a stable handle over a name bound by assignment, grounded
// on api.rs's Variable(Option<ExprId>): IsUserDefined reports whether
// the binding came from this file's own source (an assignment or
// for-target) as opposed to a catalog-provided builtin/custom value the
// resolver folds in without an originating expression.
type Variable struct {
	defining    hir.ExprId
	userDefined bool
}

// IsUserDefined is Variable::is_user_defined.
func (v Variable) IsUserDefined() bool { return v.userDefined }

// Defining returns the ExprId the binding's value came from, valid only
// when IsUserDefined reports true.
func (v Variable) Defining() hir.ExprId { return v.defining }

// Parameter is a stable handle over one formal parameter, identified
// directly by its hir.ParamId rather than api.rs's (Function, index)
// pair — the same simplification scope.Parameter already makes (see
// internal/scope/scope.go's doc comment on why a ParamId alone
// suffices here).
type Parameter struct{ param hir.ParamId }

// Name is Param::name, read from the owning Module's Param arena.
func (p Parameter) Name(s *Semantics) string { return s.mi.Module.Param(p.param).Name }

// Type is type_of_param applied to this parameter's own id.
func (p Parameter) Type(s *Semantics) (Type, bool) { return s.TypeOfParam(p.param) }

// HasDefault reports whether the parameter carries a default-value
// expression.
func (p Parameter) HasDefault(s *Semantics) bool {
	return s.mi.Module.Param(p.param).Default.Valid()
}

// LoadItem is a stable handle over one `load(...)` binding.
type LoadItem struct{ item hir.LoadItemId }

// LocalName is the name this item binds in the loading file.
func (l LoadItem) LocalName(s *Semantics) string { return s.mi.Module.LoadItem(l.item).LocalName }

// SourceName is the name this item is imported as from the loaded file.
func (l LoadItem) SourceName(s *Semantics) string { return s.mi.Module.LoadItem(l.item).SourceName }

// ScopeDefKind tags a ScopeDef's variant.
type ScopeDefKind int

const (
	ScopeDefFunction ScopeDefKind = iota
	ScopeDefVariable
	ScopeDefParameter
	ScopeDefLoadItem
)

// ScopeDef is the façade-level counterpart to scope.Declaration,
// grounded on api.rs's ScopeDef enum: it folds scope.BuiltinFunction and
// scope.CustomFunction into Function, and scope.BuiltinVariable and
// scope.CustomVariable into a non-user-defined Variable, the same
// collapsing the original's `From<scope::ScopeDef> for ScopeDef` does
// for its own BuiltinFunction/IntrinsicFunction and BuiltinVariable.
type ScopeDef struct {
	Kind      ScopeDefKind
	Function  Function
	Variable  Variable
	Parameter Parameter
	LoadItem  LoadItem
}

// SemanticsScope is a stable handle over a resolver.Resolver's fixed
// position, grounded on api.rs's SemanticsScope (itself a thin wrapper
// over a Resolver).
type SemanticsScope struct {
	sem *Semantics
	r   *resolver.Resolver
}

// NamedScopeDef pairs a visible name with the ScopeDef it currently
// resolves to, api.rs's `(Name, ScopeDef)` pair from names().
type NamedScopeDef struct {
	Name string
	Def  ScopeDef
}

// Names is SemanticsScope::names.
func (sc SemanticsScope) Names() []NamedScopeDef {
	decls := sc.r.Names()
	out := make([]NamedScopeDef, len(decls))
	for i, nd := range decls {
		out[i] = NamedScopeDef{Name: nd.Name, Def: sc.sem.declToScopeDef(nd.Declaration)}
	}
	return out
}

// ResolveName is SemanticsScope::resolve_name: every declaration name
// could refer to at this scope's position, most recent last.
func (sc SemanticsScope) ResolveName(name string) ([]ScopeDef, bool) {
	decls, ok := sc.r.ResolveName(name)
	if !ok {
		return nil, false
	}
	out := make([]ScopeDef, len(decls))
	for i, d := range decls {
		out[i] = sc.sem.declToScopeDef(d)
	}
	return out, true
}

func (s *Semantics) declToScopeDef(d scope.Declaration) ScopeDef {
	switch decl := d.(type) {
	case scope.Function:
		return ScopeDef{Kind: ScopeDefFunction, Function: Function{ty: s.in.Function(types.DefFnID(uint32(decl.Def)))}}
	case scope.BuiltinFunction:
		return ScopeDef{Kind: ScopeDefFunction, Function: Function{ty: s.builtinFunctionTy(decl.ID)}}
	case scope.CustomFunction:
		return ScopeDef{Kind: ScopeDefFunction, Function: Function{ty: s.in.CustomFunction(decl.ID)}}
	case scope.Variable:
		return ScopeDef{Kind: ScopeDefVariable, Variable: Variable{defining: decl.Defining, userDefined: true}}
	case scope.BuiltinVariable:
		return ScopeDef{Kind: ScopeDefVariable, Variable: Variable{userDefined: false}}
	case scope.CustomVariable:
		return ScopeDef{Kind: ScopeDefVariable, Variable: Variable{userDefined: false}}
	case scope.Parameter:
		return ScopeDef{Kind: ScopeDefParameter, Parameter: Parameter{param: decl.Param}}
	case scope.LoadItem:
		return ScopeDef{Kind: ScopeDefLoadItem, LoadItem: LoadItem{item: decl.Item}}
	default:
		return ScopeDef{}
	}
}

func (s *Semantics) builtinFunctionTy(id string) types.Ty {
	sig, ok := s.catalog.BuiltinFuncSig(id)
	if !ok {
		return s.in.Unknown()
	}
	subst := make(types.Substitution, sig.NumVars)
	for i := range subst {
		subst[i] = s.in.BoundVar(i)
	}
	return s.in.BuiltinFunction(id, subst)
}

// tyParams implements Type::params/Function::params for every callable
// kind: a user-defined Function walks its Def/Lambda's own Param arena
// entries through type_of_param; a BuiltinFunction walks its signature's
// slots substituted through its own bound Tys; a CustomFunction (and
// anything else) has no recoverable parameter list.
func (s *Semantics) tyParams(ty types.Ty) []ParamInfo {
	switch ty.Kind() {
	case types.KindFunction:
		return s.userFunctionParams(ty)
	case types.KindBuiltinFunction:
		return s.builtinFunctionParams(ty)
	default:
		return nil
	}
}

func (s *Semantics) userFunctionParams(ty types.Ty) []ParamInfo {
	kind, id, ok := types.ParseFnID(ty.ID())
	if !ok {
		return nil
	}
	var paramIDs []hir.ParamId
	switch kind {
	case "def":
		def, ok := s.mi.Module.Stmt(hir.StmtId(id)).(*hir.Def)
		if !ok {
			return nil
		}
		paramIDs = def.Params
	case "lambda":
		lam, ok := s.mi.Module.Expr(hir.ExprId(id)).(*hir.Lambda)
		if !ok {
			return nil
		}
		paramIDs = lam.Params
	default:
		return nil
	}

	out := make([]ParamInfo, 0, len(paramIDs))
	for _, pid := range paramIDs {
		paramTy, err := s.ctx.InferParam(pid)
		if err != nil {
			continue
		}
		out = append(out, ParamInfo{Name: s.mi.Module.Param(pid).Name, Ty: Type{ty: paramTy}})
	}
	return out
}

func (s *Semantics) builtinFunctionParams(ty types.Ty) []ParamInfo {
	sig, ok := s.catalog.BuiltinFuncSig(ty.ID())
	if !ok {
		return nil
	}
	subst := ty.BuiltinSubstitution()
	out := make([]ParamInfo, len(sig.Params))
	for i, p := range sig.Params {
		out[i] = ParamInfo{Name: p.Name, Ty: Type{ty: p.Ty.Substitute(s.in, subst)}, Optional: p.Optional}
	}
	return out
}

// funcName is Function::name: recovered from the Def's own declared
// name for a `def`, not recoverable for a `lambda` (Starlark gives it
// none), and delegated to the catalog's own id for built-ins/customs.
func (s *Semantics) funcName(ty types.Ty) (string, bool) {
	switch ty.Kind() {
	case types.KindFunction:
		kind, id, ok := types.ParseFnID(ty.ID())
		if !ok || kind != "def" {
			return "", false
		}
		def, ok := s.mi.Module.Stmt(hir.StmtId(id)).(*hir.Def)
		if !ok {
			return "", false
		}
		return def.Name, true
	case types.KindBuiltinFunction, types.KindCustomFunction:
		return ty.ID(), true
	default:
		return "", false
	}
}

// funcRetTy is Function::ret_ty. A user-defined function's return type
// is not tracked independent of a call site in this port (see
// internal/types/call.go's documented limitation: calling a Function
// always yields Any), so only BuiltinFunction/CustomFunction report one.
func (s *Semantics) funcRetTy(ty types.Ty) (Type, bool) {
	switch ty.Kind() {
	case types.KindBuiltinFunction:
		sig, ok := s.catalog.BuiltinFuncSig(ty.ID())
		if !ok {
			return Type{}, false
		}
		return Type{ty: sig.Ret.Substitute(s.in, ty.BuiltinSubstitution())}, true
	case types.KindCustomFunction:
		ref, ok := s.catalog.CustomFuncRetRef(ty.ID())
		if !ok {
			return Type{}, false
		}
		retTy, ok := s.catalog.ResolveTypeRef(ref)
		if !ok {
			return Type{}, false
		}
		return Type{ty: retTy}, true
	default:
		return Type{}, false
	}
}

// tyDoc is Type::doc/Function::doc: a built-in or custom callable's
// catalog docstring, or a user-defined function's leading docstring
// statement (the `def f():\n    "doc"\n    ...` convention the original
// source's own doc() query extracts via its HirDefFunction salsa query).
func (s *Semantics) tyDoc(ty types.Ty) (string, bool) {
	switch ty.Kind() {
	case types.KindBuiltinFunction, types.KindCustomFunction:
		docs, ok := s.catalog.(interface{ FuncDoc(string) string })
		if !ok {
			return "", false
		}
		return docs.FuncDoc(ty.ID()), true
	case types.KindFunction:
		kind, id, ok := types.ParseFnID(ty.ID())
		if !ok || kind != "def" {
			return "", false
		}
		def, ok := s.mi.Module.Stmt(hir.StmtId(id)).(*hir.Def)
		if !ok || len(def.Body) == 0 {
			return "", false
		}
		stmt, ok := s.mi.Module.Stmt(def.Body[0]).(*hir.ExprStmt)
		if !ok {
			return "", false
		}
		lit, ok := s.mi.Module.Expr(stmt.X).(*hir.Literal)
		if !ok || lit.LitKind != ast.StringLit {
			return "", false
		}
		text, ok := lit.Value.(string)
		return text, ok
	default:
		return "", false
	}
}

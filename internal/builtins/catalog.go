// Package builtins loads, validates, and freezes one dialect's built-in
// catalog: the named type constructors and function/variable signatures
// spec.md §4.5 says are "loaded once per dialect from an externally
// provided protocol-buffer-like descriptor." Here the descriptor is YAML
// (gopkg.in/yaml.v3, already a teacher dependency) decoded into Ty/Binders
// values interned through a shared *types.Interner; the core treats the
// decoded Catalog as opaque either way, same as the original.
//
// Grounded on the teacher's internal/builtins/spec.go (BuiltinSpec, a
// frozen specRegistry, registration-time arity/name validation) and
// registry.go (metadata registered by category at init time),
// generalized from a single process-global registry to a value owned by
// one engine instance, since more than one dialect's catalog can be
// loaded at once in this process.
package builtins

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/scope"
	"github.com/starlark-lsp/semcore/internal/types"
)

type fieldBinder struct {
	name    string
	doc     string
	binders types.Binders
}

// Catalog is one dialect's fully loaded, frozen built-in catalog. It
// implements internal/resolver.Builtins (name -> scope.Declaration) and
// internal/types.Catalog (TypeRef/signature/field lookups), so one
// loaded value wires directly into both the name resolver and the
// inference engine.
type Catalog struct {
	dialect ast.Dialect
	in      *types.Interner
	frozen  bool

	funcSigs map[string]types.BuiltinFuncSig
	funcDocs map[string]string

	varTypes map[string]types.Ty
	varDocs  map[string]string

	customFuncRet  map[string]string
	customFuncDocs map[string]string

	customTypeNames map[string]types.Ty // name -> CustomType(name), for ResolveTypeRef

	typeFields   map[string][]fieldBinder
	commonFields []fieldBinder
}

// Interner returns the Ty interner this catalog was loaded with. Callers
// building further Tys that must compare equal to catalog-derived ones
// (a list literal's element type, say) have to use this same interner.
func (c *Catalog) Interner() *types.Interner { return c.in }

// Dialect returns the dialect this catalog was loaded for.
func (c *Catalog) Dialect() ast.Dialect { return c.dialect }

// Load decodes one dialect's catalog from a YAML descriptor, validates
// it (unique names and resolvable type refs; no other check is made on
// the signatures), and freezes it. in is the shared Ty interner
// every Ty in the returned Catalog is built through.
func Load(in *types.Interner, dialect ast.Dialect, data []byte) (*Catalog, error) {
	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding builtin catalog: %w", err)
	}

	c := &Catalog{
		dialect:         dialect,
		in:              in,
		funcSigs:        make(map[string]types.BuiltinFuncSig),
		funcDocs:        make(map[string]string),
		varTypes:        make(map[string]types.Ty),
		varDocs:         make(map[string]string),
		customFuncRet:   make(map[string]string),
		customFuncDocs:  make(map[string]string),
		customTypeNames: make(map[string]types.Ty),
		typeFields:      make(map[string][]fieldBinder),
	}

	// Pass 1: intern every custom type name so forward references
	// between custom types (and from built-in fields/functions, for
	// dialects that mix the two) resolve regardless of descriptor order.
	for _, td := range d.CustomTypes {
		if td.Name == "" {
			return nil, fmt.Errorf("custom type with empty name")
		}
		if _, dup := c.customTypeNames[td.Name]; dup {
			return nil, fmt.Errorf("custom type %q registered twice", td.Name)
		}
		c.customTypeNames[td.Name] = in.CustomType(td.Name)
	}

	c.commonFields = make([]fieldBinder, 0, len(d.CommonFields))
	for _, fd := range d.CommonFields {
		b, err := fieldToBinder(in, c.customTypeNames, 0, fd)
		if err != nil {
			return nil, fmt.Errorf("common field %q: %w", fd.Name, err)
		}
		c.commonFields = append(c.commonFields, b)
	}

	for _, td := range d.Types {
		if err := c.loadType(td); err != nil {
			return nil, err
		}
	}
	for _, td := range d.CustomTypes {
		if err := c.loadType(td); err != nil {
			return nil, err
		}
	}

	for _, fd := range d.Functions {
		if err := c.loadFunc(fd); err != nil {
			return nil, err
		}
	}

	for _, vd := range d.Variables {
		ty, err := parseTypeRef(in, c.customTypeNames, vd.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", vd.Name, err)
		}
		if _, dup := c.varTypes[vd.Name]; dup {
			return nil, fmt.Errorf("variable %q registered twice", vd.Name)
		}
		c.varTypes[vd.Name] = ty
		c.varDocs[vd.Name] = vd.Doc
	}

	for _, cfd := range d.CustomFunctions {
		if cfd.ID == "" {
			return nil, fmt.Errorf("custom function with empty id")
		}
		if _, dup := c.customFuncRet[cfd.ID]; dup {
			return nil, fmt.Errorf("custom function %q registered twice", cfd.ID)
		}
		c.customFuncRet[cfd.ID] = cfd.RetRef
		c.customFuncDocs[cfd.ID] = cfd.Doc
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	c.frozen = true
	return c, nil
}

func numVarsForBase(base string) int {
	switch base {
	case "list":
		return 1
	case "dict":
		return 2
	default:
		return 0
	}
}

func fieldToBinder(in *types.Interner, custom map[string]types.Ty, numVars int, fd fieldDescriptor) (fieldBinder, error) {
	if fd.Name == "" {
		return fieldBinder{}, fmt.Errorf("field with empty name")
	}
	ty, err := parseTypeRef(in, custom, fd.Type)
	if err != nil {
		return fieldBinder{}, err
	}
	return fieldBinder{name: fd.Name, doc: fd.Doc, binders: types.Binders{NumVars: numVars, Body: ty}}, nil
}

func (c *Catalog) loadType(td typeDescriptor) error {
	if td.Name == "" {
		return fmt.Errorf("type with empty name")
	}
	if _, dup := c.typeFields[td.Name]; dup {
		return fmt.Errorf("type %q registered twice", td.Name)
	}
	numVars := numVarsForBase(td.Base)
	binders := make([]fieldBinder, 0, len(td.Fields))
	for _, fd := range td.Fields {
		b, err := fieldToBinder(c.in, c.customTypeNames, numVars, fd)
		if err != nil {
			return fmt.Errorf("type %q field %q: %w", td.Name, fd.Name, err)
		}
		binders = append(binders, b)
	}
	c.typeFields[td.Name] = binders
	return nil
}

func (c *Catalog) loadFunc(fd funcDescriptor) error {
	if fd.ID == "" {
		return fmt.Errorf("function with empty id")
	}
	if _, dup := c.funcSigs[fd.ID]; dup {
		return fmt.Errorf("function %q registered twice", fd.ID)
	}

	sawVarArgList, sawVarArgDict := false, false
	params := make([]types.BuiltinParam, 0, len(fd.Params))
	for _, pd := range fd.Params {
		if sawVarArgDict {
			return fmt.Errorf("function %q: parameter after a VarArgDict slot", fd.ID)
		}
		ty, err := parseTypeRef(c.in, c.customTypeNames, pd.Type)
		if err != nil {
			return fmt.Errorf("function %q param: %w", fd.ID, err)
		}
		switch pd.Kind {
		case "positional":
			if sawVarArgList {
				// Per spec.md §4.6's slot-binding algorithm: drop any
				// Positional following a VarArgList. TODO: diagnose a
				// catalog entry that declares a Positional after its own
				// VarArgList slot, once the loader grows a dedicated
				// catalog-authoring lint pass.
				continue
			}
			params = append(params, types.BuiltinParam{Kind: types.ParamPositional, Ty: ty, Optional: pd.Optional})
		case "keyword":
			if pd.Name == "" {
				return fmt.Errorf("function %q: keyword param with empty name", fd.ID)
			}
			params = append(params, types.BuiltinParam{Kind: types.ParamKeyword, Name: pd.Name, Ty: ty})
		case "vararg_list":
			sawVarArgList = true
			params = append(params, types.BuiltinParam{Kind: types.ParamVarArgList, Ty: ty})
		case "vararg_dict":
			sawVarArgDict = true
			params = append(params, types.BuiltinParam{Kind: types.ParamVarArgDict})
		default:
			return fmt.Errorf("function %q: unknown param kind %q", fd.ID, pd.Kind)
		}
	}
	ret, err := parseTypeRef(c.in, c.customTypeNames, fd.Ret)
	if err != nil {
		return fmt.Errorf("function %q ret: %w", fd.ID, err)
	}

	c.funcSigs[fd.ID] = types.BuiltinFuncSig{NumVars: fd.NumVars, Params: params, Ret: ret}
	c.funcDocs[fd.ID] = fd.Doc
	return nil
}

// validate performs the cross-cutting checks spec.md §4.5's "immutable
// after load" invariant implies must already hold by the time a Catalog
// is handed out: no name collides between the name-resolvable kinds
// (built-in functions, variables, custom functions all share one
// namespace a resolver Lookup searches).
func (c *Catalog) validate() error {
	seen := make(map[string]string)
	check := func(name, kind string) error {
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("name %q registered as both %s and %s", name, prev, kind)
		}
		seen[name] = kind
		return nil
	}
	for name := range c.funcSigs {
		if err := check(name, "builtin function"); err != nil {
			return err
		}
	}
	for name := range c.varTypes {
		if err := check(name, "builtin variable"); err != nil {
			return err
		}
	}
	for name := range c.customFuncRet {
		if err := check(name, "custom function"); err != nil {
			return err
		}
	}
	return nil
}

// Lookup implements internal/resolver.Builtins.
func (c *Catalog) Lookup(name string) (scope.Declaration, bool) {
	if _, ok := c.funcSigs[name]; ok {
		return scope.BuiltinFunction{ID: name}, true
	}
	if _, ok := c.varTypes[name]; ok {
		return scope.BuiltinVariable{ID: name}, true
	}
	if _, ok := c.customFuncRet[name]; ok {
		return scope.CustomFunction{ID: name}, true
	}
	return nil, false
}

// Names implements internal/resolver.Builtins.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.funcSigs)+len(c.varTypes)+len(c.customFuncRet))
	for name := range c.funcSigs {
		names = append(names, name)
	}
	for name := range c.varTypes {
		names = append(names, name)
	}
	for name := range c.customFuncRet {
		names = append(names, name)
	}
	return names
}

// ResolveTypeRef implements internal/types.Catalog.
func (c *Catalog) ResolveTypeRef(name string) (types.Ty, bool) {
	if ty, ok := resolvePredefined(c.in, name); ok {
		return ty, true
	}
	if ty, ok := c.customTypeNames[name]; ok {
		return ty, true
	}
	return types.Ty{}, false
}

// BuiltinFuncSig implements internal/types.Catalog.
func (c *Catalog) BuiltinFuncSig(id string) (types.BuiltinFuncSig, bool) {
	sig, ok := c.funcSigs[id]
	return sig, ok
}

// CustomFuncRetRef implements internal/types.Catalog.
func (c *Catalog) CustomFuncRetRef(id string) (string, bool) {
	ref, ok := c.customFuncRet[id]
	return ref, ok
}

// Fields implements internal/types.Catalog: built-in base classes
// (string/bytes/list/dict) and custom types all share one field-lookup
// path, substituting list/dict's single/double BoundVar through the
// receiver's own element/key/value types, and appending every catalog
// entry's CommonFields (SPEC_FULL.md supplemented feature 3).
func (c *Catalog) Fields(receiverTy types.Ty) ([]types.Field, bool) {
	if !receiverTy.IsValid() {
		return nil, false
	}
	var subst types.Substitution
	var key string
	switch receiverTy.Kind() {
	case types.KindString:
		key = "string"
	case types.KindBytes:
		key = "bytes"
	case types.KindList:
		key = "list"
		subst = types.Substitution{receiverTy.Elem()}
	case types.KindDict:
		key = "dict"
		subst = types.Substitution{receiverTy.DictKey(), receiverTy.DictValue()}
	case types.KindCustomType:
		key = receiverTy.ID()
	default:
		return nil, false
	}

	binders := c.typeFields[key]
	out := make([]types.Field, 0, len(binders)+len(c.commonFields))
	for _, b := range binders {
		out = append(out, types.Field{Name: b.name, Doc: b.doc, Ty: b.binders.Substitute(c.in, subst)})
	}
	for _, b := range c.commonFields {
		out = append(out, types.Field{Name: b.name, Doc: b.doc, Ty: b.binders.Substitute(c.in, nil)})
	}
	return out, true
}

// FuncDoc returns a built-in or custom function's docstring.
func (c *Catalog) FuncDoc(id string) string {
	if doc, ok := c.funcDocs[id]; ok {
		return doc
	}
	return c.customFuncDocs[id]
}

// VarDoc returns a built-in variable's docstring.
func (c *Catalog) VarDoc(name string) string { return c.varDocs[name] }

// VarType implements internal/types.Catalog.
func (c *Catalog) VarType(id string) (types.Ty, bool) {
	ty, ok := c.varTypes[id]
	return ty, ok
}

// IsFrozen reports whether Load has finished successfully for c. Always
// true for any Catalog a caller can observe, since Load never returns a
// partially-built one; kept for parity with the teacher's validator.go
// frozen flag and as a guard for future incremental-load variants.
func (c *Catalog) IsFrozen() bool { return c.frozen }

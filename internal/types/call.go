package types

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/hir"
)

// assignTys is the assign_tys(source, target) rule spec.md §4.6 states
// literally: true if either side is Any, Unknown, or Unbound, or the two
// are the same interned Ty. This is symmetric in "either side", unlike
// the original analyzer's assign_tys (which only special-cases the
// target) — see DESIGN.md for why the distilled spec's wording wins here.
func assignTys(source, target Ty) bool {
	if source.Kind() == KindAny || source.Kind() == KindUnknown || source.Kind() == KindUnbound {
		return true
	}
	if target.Kind() == KindAny || target.Kind() == KindUnknown || target.Kind() == KindUnbound {
		return true
	}
	return source == target
}

func (c *Context) inferCall(id hir.ExprId, e *hir.Call) Ty {
	calleeTy := c.inferExpr(e.Callee)
	// Every argument's own type is inferred regardless of how (or
	// whether) the callee ends up consuming it, so its diagnostics
	// always fire and type_of_expr always has an answer for it.
	for _, a := range e.Args {
		c.inferExpr(a.X)
	}

	switch calleeTy.Kind() {
	case KindAny, KindUnknown, KindUnbound:
		return c.in.Unknown()
	case KindFunction:
		// Slot matching against a user-defined function's own parameter
		// list is not implemented (documented limitation).
		return c.in.Any()
	case KindCustomFunction:
		if ref, ok := c.catalog.CustomFuncRetRef(calleeTy.ID()); ok {
			if ty, ok := c.catalog.ResolveTypeRef(ref); ok {
				return ty
			}
		}
		return c.in.Unknown()
	case KindBuiltinFunction:
		sig, ok := c.catalog.BuiltinFuncSig(calleeTy.ID())
		if !ok {
			return c.in.Unknown()
		}
		subst := calleeTy.BuiltinSubstitution()
		slots, argToSlot := bindCallSlots(sig, e.Args)
		c.validateCallSlots(id, sig, subst, e.Args, slots, argToSlot)
		return sig.Ret.Substitute(c.in, subst)
	default:
		c.diagnose(errors.TYP004, id, "Type %q is not callable", calleeTy.String())
		return c.in.Unknown()
	}
}

// slotFill records how one call site's arguments filled a slot; a
// slot always corresponds 1:1 with a signature parameter after dropping
// any parameter the catalog loader already refused to register (a
// Positional following that function's own VarArgList).
type slotFill int

const (
	fillMissing slotFill = iota
	fillSingle           // a lone Simple/Keyword argument — checked against param_ty
	fillUnchecked        // VarArgList/VarArgDict, or an argument absorbed via */** unpacking
)

type callSlot struct {
	kind     ParamKind
	name     string
	optional bool

	fill      slotFill
	singleArg hir.ExprId // valid iff fill == fillSingle
}

// bindCallSlots implements spec.md's slot-binding algorithm steps 1-2: it
// builds one slot per signature parameter (step 1) and walks the call's
// arguments left to right filling them (step 2). It has no side effects
// (no diagnostics) so resolve_call_expr_active_param can reuse it purely
// to find which slot an argument index maps to.
func bindCallSlots(sig BuiltinFuncSig, args []hir.Argument) ([]callSlot, []int) {
	slots := make([]callSlot, 0, len(sig.Params))
	sawVarArgList := false
	for _, p := range sig.Params {
		if sawVarArgList && p.Kind == ParamPositional {
			// TODO: diagnose a signature that places a Positional
			// parameter after its own VarArgList slot.
			continue
		}
		slots = append(slots, callSlot{kind: p.Kind, name: p.Name, optional: p.Optional})
		if p.Kind == ParamVarArgList {
			sawVarArgList = true
		}
		if p.Kind == ParamVarArgDict {
			break
		}
	}

	argToSlot := make([]int, len(args))
	for i := range argToSlot {
		argToSlot[i] = -1
	}

	findEmptyPositional := func() int {
		for i, s := range slots {
			if s.kind == ParamPositional && s.fill == fillMissing {
				return i
			}
		}
		return -1
	}
	findVarArgList := func() int {
		for i, s := range slots {
			if s.kind == ParamVarArgList {
				return i
			}
		}
		return -1
	}
	findKeyword := func(name string) int {
		for i, s := range slots {
			if s.kind == ParamKeyword && s.name == name && s.fill != fillSingle {
				return i
			}
		}
		return -1
	}
	findVarArgDict := func() int {
		for i, s := range slots {
			if s.kind == ParamVarArgDict {
				return i
			}
		}
		return -1
	}

	for argIdx, a := range args {
		switch a.ArgKind {
		case ast.ArgSimple:
			if i := findEmptyPositional(); i >= 0 {
				slots[i].fill = fillSingle
				slots[i].singleArg = a.X
				argToSlot[argIdx] = i
			} else if i := findVarArgList(); i >= 0 {
				slots[i].fill = fillUnchecked
				argToSlot[argIdx] = i
			}
			// else: unexpected positional argument (diagnosed by the caller,
			// which has the argument's own expr id to anchor it to).
		case ast.ArgKeyword:
			if i := findKeyword(a.Name); i >= 0 {
				slots[i].fill = fillSingle
				slots[i].singleArg = a.X
				argToSlot[argIdx] = i
			} else if i := findVarArgList(); i >= 0 {
				slots[i].fill = fillUnchecked
				argToSlot[argIdx] = i
			}
			// else: unexpected keyword argument (diagnosed by the caller).
		case ast.ArgUnpackedList:
			for i, s := range slots {
				if s.kind == ParamPositional && s.fill == fillMissing {
					slots[i].fill = fillUnchecked
				} else if s.kind == ParamVarArgList {
					slots[i].fill = fillUnchecked
				}
			}
			argToSlot[argIdx] = findVarArgList()
		case ast.ArgUnpackedDict:
			for i, s := range slots {
				if s.kind == ParamKeyword {
					slots[i].fill = fillUnchecked
				} else if s.kind == ParamVarArgDict {
					slots[i].fill = fillUnchecked
				}
			}
			argToSlot[argIdx] = findVarArgDict()
		}
	}
	return slots, argToSlot
}

// validateCallSlots is slot-binding step 3: each filled-by-a-single-
// argument slot must satisfy assign_tys against its substituted
// parameter type, each unfilled non-optional Positional/Keyword slot is
// a missing argument, and unexpected arguments (those bindCallSlots
// could not place) are diagnosed here, where the caller's own args
// slice and expr ids are still in scope.
func (c *Context) validateCallSlots(callID hir.ExprId, sig BuiltinFuncSig, subst Substitution, args []hir.Argument, slots []callSlot, argToSlot []int) {
	for argIdx, a := range args {
		if argToSlot[argIdx] != -1 {
			continue
		}
		switch a.ArgKind {
		case ast.ArgSimple:
			c.diagnose(errors.TYP003, a.X, "Unexpected positional argument")
		case ast.ArgKeyword:
			c.diagnose(errors.TYP003, a.X, "Unexpected keyword argument %q", a.Name)
		}
	}

	for i, s := range slots {
		// Only Positional/Keyword slots ever reach fillSingle, and only a
		// missing Positional/Keyword slot is diagnosed (a VarArgList/
		// VarArgDict slot is either fillUnchecked or, when nothing filled
		// it, fillMissing), so only those kinds ever need a substituted
		// parameter type; VarArgDict's own "parameter" carries no
		// declared Ty to substitute in the first place.
		switch s.fill {
		case fillMissing:
			if !s.optional && (s.kind == ParamPositional || s.kind == ParamKeyword) {
				paramTy := sig.Params[slotParamIndex(sig, i)].Ty.Substitute(c.in, subst)
				c.diagnose(errors.TYP002, callID, "Missing expected argument of type %q", paramTy.String())
			}
		case fillSingle:
			paramTy := sig.Params[slotParamIndex(sig, i)].Ty.Substitute(c.in, subst)
			argTy := c.inferExpr(s.singleArg)
			if !assignTys(argTy, paramTy) {
				c.diagnose(errors.TYP001, s.singleArg, "Argument of type %q cannot be assigned to parameter of type %q", argTy.String(), paramTy.String())
			}
		case fillUnchecked:
			// VarArgList/VarArgDict providers (and anything absorbed by
			// */** unpacking) are not rechecked against element types,
			// per spec.md's documented limitation.
		}
	}
}

// slotParamIndex maps a built slot's position back to its source
// parameter in sig.Params, accounting for the Positional-after-VarArgList
// parameters bindCallSlots silently skips when building slots.
func slotParamIndex(sig BuiltinFuncSig, slotIdx int) int {
	sawVarArgList := false
	built := 0
	for i, p := range sig.Params {
		if sawVarArgList && p.Kind == ParamPositional {
			continue
		}
		if built == slotIdx {
			return i
		}
		built++
		if p.Kind == ParamVarArgList {
			sawVarArgList = true
		}
		if p.Kind == ParamVarArgDict {
			break
		}
	}
	return len(sig.Params) - 1
}

// ResolveCallExprActiveParam is resolve_call_expr_active_param(file,
// call_expr, arg_index): which slot index argIndex's argument binds to,
// for signature-help-style callers. Returns false if call is not a Call
// expression, its callee doesn't resolve to a BuiltinFunction, or
// argIndex is out of range.
func (c *Context) ResolveCallExprActiveParam(call hir.ExprId, argIndex int) (int, bool) {
	e, ok := c.mi.Module.Expr(call).(*hir.Call)
	if !ok || argIndex < 0 || argIndex >= len(e.Args) {
		return 0, false
	}
	calleeTy := c.inferExpr(e.Callee)
	if calleeTy.Kind() != KindBuiltinFunction {
		return 0, false
	}
	sig, ok := c.catalog.BuiltinFuncSig(calleeTy.ID())
	if !ok {
		return 0, false
	}
	_, argToSlot := bindCallSlots(sig, e.Args)
	idx := argToSlot[argIndex]
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

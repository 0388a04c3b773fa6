// Package instantiate is the Instantiator (C5a): it converts type-spec
// AST fragments into Type Model objects, minting a fresh free variable
// per quantified surface name in a per-signature type-variable cache
// (§4.3). Every operation is failable with partial result: a malformed
// spec never aborts analysis, it returns a best-effort value alongside
// the errors describing what went wrong.
package instantiate

import (
	"fmt"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/evaluator"
	"github.com/veylang/typecore/internal/types"
	"github.com/veylang/typecore/internal/unify"
)

// Mode selects how quantified variables and level bookkeeping behave
// during instantiation (§4.3).
type Mode int

const (
	// PreRegister allows forward references to not-yet-declared names;
	// freshly minted variables stay at the Context's current (outer)
	// level.
	PreRegister Mode = iota
	// Normal instantiates in a scope whose level has already been
	// deepened by the caller (e.g. the Registrar entering a function
	// body); an unresolved name is a genuine NoType error.
	Normal
)

// Instantiator closes over the Evaluator it delegates const-expr
// reduction to and the Unifier it consults when a parameter carries
// both a declared annotation and an inferred shape.
type Instantiator struct {
	eval *evaluator.Evaluator
	uni  *unify.Unifier
}

// New builds an Instantiator around the given Evaluator and Unifier.
func New(eval *evaluator.Evaluator, uni *unify.Unifier) *Instantiator {
	return &Instantiator{eval: eval, uni: uni}
}

func spanOf(n ast.Node) *ast.Span {
	if n == nil {
		return nil
	}
	s := n.Position()
	return &s
}

// InstantiateTypeSpec dispatches on spec's concrete variant (§4.3).
func (ins *Instantiator) InstantiateTypeSpec(spec ast.TypeSpec, mode Mode, cache *Cache, ctx *types.Context) (types.Type, []*errors.Report) {
	switch n := spec.(type) {
	case *ast.Infer:
		return types.NewFreeVar(ctx.CurrentLevel(), "", &types.Uninited{}), nil

	case *ast.PreDecl:
		return ins.instantiatePreDecl(n, mode, cache, ctx)

	case *ast.Array:
		return ins.instantiateArrayLike(n.Elem, n.Len, "List", mode, cache, ctx, spec)

	case *ast.SetWithLen:
		return ins.instantiateArrayLike(n.Elem, n.Len, "Set", mode, cache, ctx, spec)

	case *ast.Tuple:
		elems := make([]types.Type, len(n.Elems))
		var errs []*errors.Report
		for i, e := range n.Elems {
			t, es := ins.InstantiateTypeSpec(e, mode, cache, ctx)
			elems[i] = t
			errs = append(errs, es...)
		}
		return &types.Tuple{Elems: elems}, errs

	case *ast.Dict:
		key, errs1 := ins.InstantiateTypeSpec(n.Key, mode, cache, ctx)
		val, errs2 := ins.InstantiateTypeSpec(n.Value, mode, cache, ctx)
		return &types.Dict{Key: key, Value: val}, append(errs1, errs2...)

	case *ast.Record:
		fields := make([]types.RecordTypeField, len(n.Fields))
		var errs []*errors.Report
		for i, f := range n.Fields {
			t, es := ins.InstantiateTypeSpec(f.Type, mode, cache, ctx)
			fields[i] = types.RecordTypeField{Name: f.Name, Type: t}
			errs = append(errs, es...)
		}
		return &types.Record{Fields: fields}, errs

	case *ast.And:
		l, errs1 := ins.InstantiateTypeSpec(n.Left, mode, cache, ctx)
		r, errs2 := ins.InstantiateTypeSpec(n.Right, mode, cache, ctx)
		return &types.Intersection{Left: l, Right: r}, append(errs1, errs2...)

	case *ast.Or:
		l, errs1 := ins.InstantiateTypeSpec(n.Left, mode, cache, ctx)
		r, errs2 := ins.InstantiateTypeSpec(n.Right, mode, cache, ctx)
		return &types.Union{Left: l, Right: r}, append(errs1, errs2...)

	case *ast.Not:
		op, errs := ins.InstantiateTypeSpec(n.Operand, mode, cache, ctx)
		return &types.Complement{Operand: op}, errs

	case *ast.Enum:
		vals := make([]types.TypeParam, len(n.Values))
		var errs []*errors.Report
		for i, v := range n.Values {
			tp, es := ins.InstantiateConstExpr(v, cache, ctx)
			vals[i] = tp
			if es != nil {
				errs = append(errs, es...)
			}
		}
		return &types.Enum{Values: vals}, errs

	case *ast.Interval:
		lo, errs1 := ins.InstantiateConstExpr(n.Lhs, cache, ctx)
		hi, errs2 := ins.InstantiateConstExpr(n.Rhs, cache, ctx)
		return &types.Interval{Op: n.Op, Lo: lo, Hi: hi}, append(errs1, errs2...)

	case *ast.Subr:
		return ins.instantiateSubr(n, mode, cache, ctx)

	case *ast.TypeApp:
		return ins.instantiateTypeApp(n, mode, cache, ctx)

	case *ast.Refinement:
		base, errs := ins.InstantiateTypeSpec(n.Typ, mode, cache, ctx)
		pred, rep := ins.eval.NormalizePredicate(n.Pred, ctx)
		if rep != nil {
			errs = append(errs, rep)
			return &types.Refinement{Base: base, Var: n.Var}, errs
		}
		return &types.Refinement{Base: base, Var: n.Var, Preds: []types.Predicate{pred}}, errs

	case *ast.Projection:
		base, errs := ins.InstantiateTypeSpec(n.Base, mode, cache, ctx)
		return &types.Projection{Base: base, Name: n.Name}, errs

	default:
		return types.TObj, []*errors.Report{
			errors.New("instantiate", errors.FeatureError, fmt.Sprintf("unsupported type spec %T", spec), spanOf(spec)),
		}
	}
}

func (ins *Instantiator) instantiateArrayLike(elemSpec ast.TypeSpec, lenExpr ast.ConstExpr, intrinsicName string, mode Mode, cache *Cache, ctx *types.Context, spec ast.Node) (types.Type, []*errors.Report) {
	elem, errs := ins.InstantiateTypeSpec(elemSpec, mode, cache, ctx)
	params := []types.TypeParam{&types.TypeAsParam{T: elem}}
	if lenExpr != nil {
		lp, es := ins.InstantiateConstExpr(lenExpr, cache, ctx)
		params = append(params, lp)
		errs = append(errs, es...)
	}
	return &types.PolyType{Name: intrinsicName, Params: params}, errs
}

func (ins *Instantiator) instantiatePreDecl(n *ast.PreDecl, mode Mode, cache *Cache, ctx *types.Context) (types.Type, []*errors.Report) {
	switch n.Kind {
	case ast.PreDeclMono:
		return ins.resolveMonoName(n.Name, mode, cache, ctx, n)

	case ast.PreDeclPoly:
		if t, ok, errs := ins.tryIntrinsic(n.Name, n.Args, mode, cache, ctx); ok {
			return t, errs
		}
		params, errs := ins.instantiateArgsAsParams(n.Args, mode, cache, ctx)
		return &types.PolyType{Name: n.Name, Params: params}, errs

	case ast.PreDeclAttr:
		base, errs := ins.InstantiateTypeSpec(n.Base, mode, cache, ctx)
		return &types.Projection{Base: base, Name: n.Attr}, errs

	case ast.PreDeclSubscr:
		if base, ok := n.Base.(*ast.PreDecl); ok && base.Kind == ast.PreDeclMono {
			if t, okIntr, errs := ins.tryIntrinsic(base.Name, n.Args, mode, cache, ctx); okIntr {
				return t, errs
			}
			params, errs := ins.instantiateArgsAsParams(n.Args, mode, cache, ctx)
			return &types.PolyType{Name: base.Name, Params: params}, errs
		}
		base, errs := ins.InstantiateTypeSpec(n.Base, mode, cache, ctx)
		errs = append(errs, errors.New("instantiate", errors.FeatureError, "subscripted type base is not a named type", spanOf(n)))
		return base, errs

	default:
		return types.TObj, []*errors.Report{errors.New("instantiate", errors.FeatureError, "unknown pre-declaration kind", spanOf(n))}
	}
}

func (ins *Instantiator) instantiateArgsAsParams(args []ast.TypeSpec, mode Mode, cache *Cache, ctx *types.Context) ([]types.TypeParam, []*errors.Report) {
	params := make([]types.TypeParam, len(args))
	var errs []*errors.Report
	for i, a := range args {
		t, es := ins.InstantiateTypeSpec(a, mode, cache, ctx)
		params[i] = &types.TypeAsParam{T: t}
		errs = append(errs, es...)
	}
	return params, errs
}

// resolveMonoName looks up a bare name in the type-variable cache
// (quantified var), then the enclosing Context (an already-registered
// class/trait/alias), falling back to a forward-reference placeholder
// under PreRegister mode or a NoType error under Normal mode.
func (ins *Instantiator) resolveMonoName(name string, mode Mode, cache *Cache, ctx *types.Context, n ast.Node) (types.Type, []*errors.Report) {
	if fv, ok := cache.Lookup(name); ok {
		return fv, nil
	}
	if b, _, ok := ctx.Lookup(name); ok {
		return b.Type, nil
	}
	placeholder := &types.MonoType{Name: name, DefinedIn: ctx}
	if mode == PreRegister {
		return placeholder, nil
	}
	return placeholder, []*errors.Report{
		errors.New("instantiate", errors.NoType, fmt.Sprintf("undefined type %q", name), spanOf(n)).WithData("name", name),
	}
}

func (ins *Instantiator) instantiateTypeApp(n *ast.TypeApp, mode Mode, cache *Cache, ctx *types.Context) (types.Type, []*errors.Report) {
	if pd, ok := n.Callee.(*ast.PreDecl); ok && pd.Kind == ast.PreDeclMono {
		if t, okIntr, errs := ins.tryIntrinsic(pd.Name, n.Args, mode, cache, ctx); okIntr {
			return t, errs
		}
		if fv, ok := cache.Lookup(pd.Name); ok {
			return fv, nil
		}
		params, errs := ins.instantiateArgsAsParams(n.Args, mode, cache, ctx)
		return &types.PolyType{Name: pd.Name, Params: params}, errs
	}

	callee, errs := ins.InstantiateTypeSpec(n.Callee, mode, cache, ctx)
	params, argErrs := ins.instantiateArgsAsParams(n.Args, mode, cache, ctx)
	errs = append(errs, argErrs...)
	name := callee.String()
	if mt, ok := callee.(*types.MonoType); ok {
		name = mt.Name
	}
	return &types.PolyType{Name: name, Params: params}, errs
}

// instantiateSubr builds a live callable for one explicit subroutine
// type spec. When it carries bounds, the returned Quantified's body
// still refers to the bound variables as the concrete FreeVar cells
// live in cache, not as QuantifiedPlaceholder names — that
// substitution only matters for a scheme being stored for repeated
// fresh instantiation across call sites, which is the Registrar's
// assign_subr responsibility (§4.4), not this one-shot read of a type
// spec.
func (ins *Instantiator) instantiateSubr(n *ast.Subr, mode Mode, cache *Cache, ctx *types.Context) (types.Type, []*errors.Report) {
	var errs []*errors.Report
	if len(n.Bounds) > 0 {
		errs = append(errs, ins.InstantiateTyBounds(n.Bounds, mode, cache, ctx)...)
	}

	nonDefaults := make([]types.Param, len(n.NonDefaults))
	for i, p := range n.NonDefaults {
		t, es := ins.InstantiateTypeSpec(p.Type, mode, cache, ctx)
		nonDefaults[i] = types.Param{Keyword: p.Keyword, Type: t}
		errs = append(errs, es...)
	}

	defaults := make([]types.DefaultParam, len(n.Defaults))
	for i, p := range n.Defaults {
		t, es := ins.InstantiateTypeSpec(p.Type, mode, cache, ctx)
		errs = append(errs, es...)
		var def types.TypeParam = &types.Value{V: nil}
		if p.Default != nil {
			d, des := ins.InstantiateConstExpr(p.Default, cache, ctx)
			def = d
			errs = append(errs, des...)
		}
		defaults[i] = types.DefaultParam{Keyword: p.Keyword, Type: t, Default: def}
	}

	var varParam *types.Param
	if n.VarParams != nil {
		t, es := ins.InstantiateTypeSpec(n.VarParams.Type, mode, cache, ctx)
		errs = append(errs, es...)
		varParam = &types.Param{Keyword: n.VarParams.Keyword, Type: t}
	}

	var kwVarParam *types.Param
	if n.KwVarParams != nil {
		t, es := ins.InstantiateTypeSpec(n.KwVarParams.Type, mode, cache, ctx)
		errs = append(errs, es...)
		kwVarParam = &types.Param{Keyword: n.KwVarParams.Keyword, Type: t}
	}

	ret := types.Type(types.TNone)
	if n.ReturnType != nil {
		t, es := ins.InstantiateTypeSpec(n.ReturnType, mode, cache, ctx)
		ret = t
		errs = append(errs, es...)
	}

	kind := types.KindFunc
	if n.IsProcedure {
		kind = types.KindProc
	}
	subr := &types.Subroutine{
		Kind:        kind,
		NonDefaults: nonDefaults,
		Defaults:    defaults,
		VarParam:    varParam,
		KwVarParam:  kwVarParam,
		Return:      ret,
	}

	if len(n.Bounds) == 0 {
		return subr, errs
	}

	// The bound types were already instantiated once by
	// InstantiateTyBounds above and recorded on each variable's own
	// Sandwiched constraint; read them back rather than re-running the
	// type spec through the instantiator a second time.
	seen := make(map[string]bool, len(n.Bounds))
	var qbounds []types.QBound
	for _, b := range n.Bounds {
		if seen[b.Var] {
			continue
		}
		seen[b.Var] = true
		fv, ok := cache.Lookup(b.Var)
		if !ok {
			continue
		}
		if sand, ok := fv.GetConstraint().(*types.Sandwiched); ok {
			qbounds = append(qbounds, types.QBound{Var: b.Var, Sub: sand.Sub, Sup: sand.Sup})
		} else {
			qbounds = append(qbounds, types.QBound{Var: b.Var})
		}
	}
	return &types.Quantified{Callable: subr, Bounds: qbounds}, errs
}

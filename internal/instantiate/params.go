package instantiate

import (
	"fmt"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

// InstantiateParamTy resolves one parameter binding site's type
// (§4.3). declHint is the declaration's own annotation, if any;
// NamePattern's own Decl field takes precedence over it when both are
// present. Sub-patterns of a tuple/list/record pattern are instantiated
// with no hint, so only their own Decl applies.
// treatUnknownAsQVar controls what an entirely undeclared parameter
// becomes: true mints an implicit quantified variable named after the
// binding (the teacher's `_: T` generic-by-default reading), false
// leaves it as a plain unconstrained free variable for the Unifier to
// pin down from the call site or body.
func (ins *Instantiator) InstantiateParamTy(pattern ast.ParamPattern, declHint ast.TypeSpec, cache *Cache, mode Mode, kind types.SubrKind, treatUnknownAsQVar bool, ctx *types.Context) (types.Type, []*errors.Report) {
	switch p := pattern.(type) {
	case *ast.NamePattern:
		hint := declHint
		if p.Decl != nil {
			hint = p.Decl
		}
		if hint != nil {
			return ins.InstantiateTypeSpec(hint, mode, cache, ctx)
		}
		if treatUnknownAsQVar && p.Name != "" {
			return cache.GetOrMint(p.Name, ctx.CurrentLevel(), &types.Sandwiched{Sup: types.TObj}), nil
		}
		return types.NewFreeVar(ctx.CurrentLevel(), p.Name, &types.Uninited{}), nil

	case *ast.DiscardPattern:
		return types.TObj, nil

	case *ast.LiteralPattern:
		val, rep := ins.eval.Eval(p.Value, ctx)
		if rep != nil {
			return types.TObj, []*errors.Report{rep}
		}
		base := literalBaseType(val)
		return types.Singleton(base, "_", val), nil

	case *ast.RefPattern:
		var inner types.Type = types.TObj
		var errs []*errors.Report
		if declHint != nil {
			inner, errs = ins.InstantiateTypeSpec(declHint, mode, cache, ctx)
		} else if treatUnknownAsQVar && p.Name != "" {
			inner = cache.GetOrMint(p.Name, ctx.CurrentLevel(), &types.Sandwiched{Sup: types.TObj})
		} else {
			inner = types.NewFreeVar(ctx.CurrentLevel(), p.Name, &types.Uninited{})
		}
		if p.Mutable {
			return &types.RefMut{Elem: inner}, errs
		}
		return &types.Ref{Elem: inner}, errs

	case *ast.TuplePattern:
		elems := make([]types.Type, len(p.Elems))
		var errs []*errors.Report
		for i, sub := range p.Elems {
			t, es := ins.InstantiateParamTy(sub, nil, cache, mode, kind, treatUnknownAsQVar, ctx)
			elems[i] = t
			errs = append(errs, es...)
		}
		return &types.Tuple{Elems: elems}, errs

	case *ast.ListPattern:
		var elem types.Type = types.TObj
		var errs []*errors.Report
		if len(p.Elems) > 0 {
			t, es := ins.InstantiateParamTy(p.Elems[0], nil, cache, mode, kind, treatUnknownAsQVar, ctx)
			elem = t
			errs = append(errs, es...)
		}
		return &types.PolyType{Name: "List", Params: []types.TypeParam{&types.TypeAsParam{T: elem}}, Variances: []types.Variance{types.Covariant}}, errs

	case *ast.RecordPattern:
		fields := make([]types.RecordTypeField, len(p.Fields))
		var errs []*errors.Report
		for i, f := range p.Fields {
			t, es := ins.InstantiateParamTy(f.Pattern, nil, cache, mode, kind, treatUnknownAsQVar, ctx)
			fields[i] = types.RecordTypeField{Name: f.Name, Type: t}
			errs = append(errs, es...)
		}
		return &types.Record{Fields: fields}, errs

	default:
		return types.TObj, []*errors.Report{
			errors.New("instantiate", errors.FeatureError, fmt.Sprintf("unsupported parameter pattern %T", pattern), spanOf(pattern)),
		}
	}
}

func literalBaseType(v types.TypeParam) types.Type {
	val, ok := v.(*types.Value)
	if !ok {
		return types.TObj
	}
	switch val.V.(type) {
	case bool:
		return types.TBool
	case int, int64:
		return types.TInt
	case float64:
		return types.TFloat
	case string:
		return types.TStr
	case nil:
		return types.TNone
	default:
		return types.TObj
	}
}

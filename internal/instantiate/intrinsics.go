package instantiate

import (
	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

// tryIntrinsic recognizes the five built-in poly names §4.3 singles out
// for special handling rather than ordinary PolyType construction: List
// (so its covariance is wired in rather than left to a later variance
// pass), Ref/RefMut (direct Type Model wrappers, not PolyTypes at all),
// Structural (opts a type out of the Subtype Oracle's nominal phase),
// and NamedTuple (sugar over a record type spec). ok is false for any
// other name, signaling the caller to fall through to generic
// PreDecl/TypeApp handling.
func (ins *Instantiator) tryIntrinsic(name string, args []ast.TypeSpec, mode Mode, cache *Cache, ctx *types.Context) (types.Type, bool, []*errors.Report) {
	switch name {
	case "List":
		if len(args) != 1 {
			return types.TObj, true, []*errors.Report{arityErr(name, 1, len(args))}
		}
		elem, errs := ins.InstantiateTypeSpec(args[0], mode, cache, ctx)
		return &types.PolyType{
			Name:      "List",
			Params:    []types.TypeParam{&types.TypeAsParam{T: elem}},
			Variances: []types.Variance{types.Covariant},
		}, true, errs

	case "Ref":
		if len(args) != 1 {
			return types.TObj, true, []*errors.Report{arityErr(name, 1, len(args))}
		}
		elem, errs := ins.InstantiateTypeSpec(args[0], mode, cache, ctx)
		return &types.Ref{Elem: elem}, true, errs

	case "RefMut":
		if len(args) != 1 {
			return types.TObj, true, []*errors.Report{arityErr(name, 1, len(args))}
		}
		elem, errs := ins.InstantiateTypeSpec(args[0], mode, cache, ctx)
		return &types.RefMut{Elem: elem}, true, errs

	case "Structural":
		if len(args) != 1 {
			return types.TObj, true, []*errors.Report{arityErr(name, 1, len(args))}
		}
		inner, errs := ins.InstantiateTypeSpec(args[0], mode, cache, ctx)
		return &types.Structural{Inner: inner}, true, errs

	case "NamedTuple":
		if len(args) != 1 {
			return types.TObj, true, []*errors.Report{arityErr(name, 1, len(args))}
		}
		rec, ok := args[0].(*ast.Record)
		if !ok {
			return types.TObj, true, []*errors.Report{
				errors.New("instantiate", errors.NotAType, "NamedTuple expects a record of field types", spanOf(args[0])),
			}
		}
		t, errs := ins.InstantiateTypeSpec(rec, mode, cache, ctx)
		return t, true, errs

	default:
		return nil, false, nil
	}
}

func arityErr(name string, want, got int) *errors.Report {
	return errors.New("instantiate", errors.FeatureError, "intrinsic "+name+" arity mismatch", nil).
		WithData("want", want).
		WithData("got", got)
}

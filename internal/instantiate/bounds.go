package instantiate

import (
	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

// InstantiateTyBounds mints (or reuses) one FreeVar per bound variable
// in a quantified signature's bound list and installs its sandwich
// constraint, mutating cache in place (§4.3). Bounds referencing a
// variable declared earlier in the same list (e.g. `U <: Eq, T <: U`)
// observe the variable already minted, matching the teacher's
// left-to-right bound processing.
func (ins *Instantiator) InstantiateTyBounds(bounds []ast.TyBound, mode Mode, cache *Cache, ctx *types.Context) []*errors.Report {
	var errs []*errors.Report
	for _, b := range bounds {
		fv := cache.GetOrMint(b.Var, ctx.CurrentLevel(), &types.Uninited{})

		boundType, es := ins.InstantiateTypeSpec(b.Bound, mode, cache, ctx)
		errs = append(errs, es...)

		sand := existingSandwich(fv)
		switch b.Kind {
		case ast.BoundSub, ast.BoundKind:
			sand.Sup = boundType
		case ast.BoundSup:
			sand.Sub = boundType
		}
		fv.Tighten(sand)
	}
	return errs
}

func existingSandwich(fv *types.FreeVar) *types.Sandwiched {
	if sand, ok := fv.GetConstraint().(*types.Sandwiched); ok {
		return &types.Sandwiched{Sub: sand.Sub, Sup: sand.Sup, Cyclicity: sand.Cyclicity}
	}
	return &types.Sandwiched{}
}

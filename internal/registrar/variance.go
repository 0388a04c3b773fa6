package registrar

import "github.com/veylang/typecore/internal/types"

// InferVariance is the fallback used when a poly type parameter carries
// no explicit variance annotation: it walks every method signature in
// methodSigs, tracking the polarity each occurrence of the named
// placeholder appears in (return position is covariant, parameter
// position is contravariant, a mutable reference's element is
// invariant regardless of the polarity it's nested under), and joins
// every occurrence found. A parameter never referenced by any method
// defaults to Invariant, the conservative choice. The inferred
// variance is recorded on ctx via DeclareVariance; the Subtype
// Oracle's polyParamsSupertype (decide.go) does not read it, since it
// uses the PolyType's own Variances slice.
func InferVariance(typeName string, varName string, methodSigs []*types.Subroutine, ctx *types.Context) types.Variance {
	found := false
	result := types.Covariant

	observe := func(v types.Variance) {
		if !found {
			found = true
			result = v
			return
		}
		result = joinVariance(result, v)
	}

	for _, sig := range methodSigs {
		for _, p := range sig.NonDefaults {
			walkVariance(p.Type, varName, types.Contravariant, observe)
		}
		for _, p := range sig.Defaults {
			walkVariance(p.Type, varName, types.Contravariant, observe)
		}
		if sig.VarParam != nil {
			walkVariance(sig.VarParam.Type, varName, types.Contravariant, observe)
		}
		if sig.KwVarParam != nil {
			walkVariance(sig.KwVarParam.Type, varName, types.Contravariant, observe)
		}
		if sig.Return != nil {
			walkVariance(sig.Return, varName, types.Covariant, observe)
		}
	}

	if !found {
		result = types.Invariant
	}
	ctx.DeclareVariance(typeName, indexOfVar(ctx, typeName, varName), result)
	return result
}

// walkVariance descends t looking for the named placeholder, reporting
// its effective polarity given the polarity pos already accumulated on
// the path down to it (flipping through contravariant parameter
// positions, pinning to Invariant inside a mutable reference).
func walkVariance(t types.Type, name string, pos types.Variance, observe func(types.Variance)) {
	switch n := t.(type) {
	case *types.QuantifiedPlaceholder:
		if n.Name == name {
			observe(pos)
		}
	case *types.FreeVar:
		if n.Name == name {
			observe(pos)
		}
	case *types.Ref:
		walkVariance(n.Elem, name, pos, observe)
	case *types.RefMut:
		walkVariance(n.Elem, name, types.Invariant, observe)
	case *types.Tuple:
		for _, e := range n.Elems {
			walkVariance(e, name, pos, observe)
		}
	case *types.PolyType:
		for i, p := range n.Params {
			tp, ok := p.(*types.TypeAsParam)
			if !ok {
				continue
			}
			slotVariance := types.Invariant
			if i < len(n.Variances) {
				slotVariance = n.Variances[i]
			}
			walkVariance(tp.T, name, compose(pos, slotVariance), observe)
		}
	case *types.Union:
		walkVariance(n.Left, name, pos, observe)
		walkVariance(n.Right, name, pos, observe)
	case *types.Intersection:
		walkVariance(n.Left, name, pos, observe)
		walkVariance(n.Right, name, pos, observe)
	case *types.Refinement:
		walkVariance(n.Base, name, pos, observe)
	case *types.Subroutine:
		for _, p := range n.NonDefaults {
			walkVariance(p.Type, name, flip(pos), observe)
		}
		for _, p := range n.Defaults {
			walkVariance(p.Type, name, flip(pos), observe)
		}
		if n.Return != nil {
			walkVariance(n.Return, name, pos, observe)
		}
	}
}

// compose combines the polarity accumulated so far with a nested
// slot's own declared variance: contravariant slots flip, invariant
// slots pin regardless of the outer polarity.
func compose(outer, slot types.Variance) types.Variance {
	switch slot {
	case types.Invariant:
		return types.Invariant
	case types.Contravariant:
		return flip(outer)
	default:
		return outer
	}
}

func flip(v types.Variance) types.Variance {
	switch v {
	case types.Covariant:
		return types.Contravariant
	case types.Contravariant:
		return types.Covariant
	default:
		return types.Invariant
	}
}

// joinVariance combines two observed polarities for the same variable:
// agreement keeps the polarity, disagreement (or either side already
// invariant) collapses to Invariant.
func joinVariance(a, b types.Variance) types.Variance {
	if a == b {
		return a
	}
	return types.Invariant
}

// indexOfVar resolves varName to its declared index among typeName's
// existing variance slots, appending a new slot if this is the first
// time the variable has been seen.
func indexOfVar(ctx *types.Context, typeName, varName string) int {
	idx := 0
	for {
		if _, ok := ctx.VarianceOf(typeName, idx); !ok {
			return idx
		}
		idx++
	}
}

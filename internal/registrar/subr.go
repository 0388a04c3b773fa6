package registrar

import (
	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

// AssignSubr finalizes a subroutine declaration once its body has been
// type-checked (§4.4): it unifies the declared (or ambient, i.e. the
// placeholder declare_sub minted) return type against the body's
// inferred type, generalizes every free variable introduced inside
// the body that never escaped to an enclosing scope into a quantified
// scheme, and stores the final signature under id. enclosingLevel is
// the level in force immediately before the body was entered — any
// free variable at a deeper level is this signature's own and safe to
// generalize; anything shallower was captured from an outer scope and
// must stay a live cell (standard level-based let-generalization,
// mirroring the level monotonicity invariant FreeVar already enforces).
func (r *Registrar) AssignSubr(id string, declaredReturn ast.TypeSpec, params AssignedParams, isProcedure bool, bodyType types.Type, enclosingLevel types.Level, loc ast.Span, ctx *types.Context) (types.VarInfo, []*errors.Report) {
	var errs []*errors.Report

	kind := types.KindFunc
	if isProcedure {
		kind = types.KindProc
	}
	subr := &types.Subroutine{
		Kind:        kind,
		NonDefaults: params.NonDefaults,
		Defaults:    params.Defaults,
		VarParam:    params.VarParam,
		KwVarParam:  params.KwVarParam,
		Return:      bodyType,
	}

	if b, ok := ctx.LookupLocal(id); ok {
		if rep := r.uni.Unify(b.Type, subr, ctx); rep != nil {
			errs = append(errs, errors.New("registrar", errors.ReturnTypeMismatch, rep.Message, spanPtr(loc)).WithData("name", id))
		}
	}

	final, bounds := generalize(subr, enclosingLevel)
	var finalType types.Type = subr
	if len(bounds) > 0 {
		finalType = &types.Quantified{Callable: final, Bounds: bounds}
	}

	binding := &types.Binding{Type: finalType, Kind: types.BindDefined, Loc: loc}
	ctx.Redefine(id, binding)

	return types.VarInfo{Name: id, Type: finalType, Binding: binding}, errs
}

// generalize collects every unbound free variable in subr whose level
// is deeper than enclosingLevel, replaces each occurrence with a named
// QuantifiedPlaceholder, and returns the rewritten subroutine plus one
// QBound per generalized variable, derived from its sandwich
// constraint at the moment of generalization.
func generalize(subr *types.Subroutine, enclosingLevel types.Level) (*types.Subroutine, []types.QBound) {
	seen := map[uint64]string{}
	var bounds []types.QBound
	counter := 0

	nameFor := func(fv *types.FreeVar) string {
		if n, ok := seen[fv.ID()]; ok {
			return n
		}
		name := fv.Name
		if name == "" {
			name = genVarName(counter)
			counter++
		}
		seen[fv.ID()] = name
		var sub, sup types.Type
		if sand, ok := fv.GetConstraint().(*types.Sandwiched); ok {
			sub, sup = sand.Sub, sand.Sup
		}
		bounds = append(bounds, types.QBound{Var: name, Sub: sub, Sup: sup})
		return name
	}

	var rewrite func(t types.Type) types.Type
	rewrite = func(t types.Type) types.Type {
		switch n := t.(type) {
		case *types.FreeVar:
			if n.IsUnbound() && n.Level > enclosingLevel {
				return &types.QuantifiedPlaceholder{Name: nameFor(n)}
			}
			if linked, ok := types.Crack(n); ok {
				return rewrite(linked)
			}
			return n
		case *types.Ref:
			return &types.Ref{Elem: rewrite(n.Elem)}
		case *types.RefMut:
			return &types.RefMut{Elem: rewrite(n.Elem)}
		case *types.Tuple:
			elems := make([]types.Type, len(n.Elems))
			for i, e := range n.Elems {
				elems[i] = rewrite(e)
			}
			return &types.Tuple{Elems: elems}
		case *types.PolyType:
			params := make([]types.TypeParam, len(n.Params))
			for i, p := range n.Params {
				if tp, ok := p.(*types.TypeAsParam); ok {
					params[i] = &types.TypeAsParam{T: rewrite(tp.T)}
				} else {
					params[i] = p
				}
			}
			return &types.PolyType{Name: n.Name, IsTrait: n.IsTrait, Params: params, Variances: n.Variances, DefinedIn: n.DefinedIn}
		case *types.Union:
			return &types.Union{Left: rewrite(n.Left), Right: rewrite(n.Right)}
		case *types.Intersection:
			return &types.Intersection{Left: rewrite(n.Left), Right: rewrite(n.Right)}
		case *types.Refinement:
			return &types.Refinement{Base: rewrite(n.Base), Var: n.Var, Preds: n.Preds}
		default:
			return t
		}
	}

	out := &types.Subroutine{Kind: subr.Kind, Self: subr.Self, Return: rewrite(subr.Return)}
	for _, p := range subr.NonDefaults {
		out.NonDefaults = append(out.NonDefaults, types.Param{Keyword: p.Keyword, Type: rewrite(p.Type)})
	}
	for _, p := range subr.Defaults {
		out.Defaults = append(out.Defaults, types.DefaultParam{Keyword: p.Keyword, Type: rewrite(p.Type), Default: p.Default})
	}
	if subr.VarParam != nil {
		out.VarParam = &types.Param{Keyword: subr.VarParam.Keyword, Type: rewrite(subr.VarParam.Type)}
	}
	if subr.KwVarParam != nil {
		out.KwVarParam = &types.Param{Keyword: subr.KwVarParam.Keyword, Type: rewrite(subr.KwVarParam.Type)}
	}
	return out, bounds
}

func genVarName(i int) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if i < len(letters) {
		return string(letters[i])
	}
	return string(letters[i%len(letters)]) + itoa(i/len(letters))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

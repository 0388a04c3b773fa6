package registrar

import (
	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/instantiate"
	"github.com/veylang/typecore/internal/types"
)

// ParamGroup is the grouped parameter list assign_params (§4.4)
// distinguishes: positional required, positional with defaults, an
// optional variadic positional slot, and an optional variadic keyword
// slot.
type ParamGroup struct {
	NonDefaults []ParamSig
	Defaults    []ParamSig
	VarParam    *ParamSig
	KwVarParam  *ParamSig
}

// AssignedParams is the resolved shape of one ParamGroup: the
// Subroutine-level Param/DefaultParam slots (for building the final
// signature) and every leaf name declared into the body's Context.
type AssignedParams struct {
	NonDefaults []types.Param
	Defaults    []types.DefaultParam
	VarParam    *types.Param
	KwVarParam  *types.Param
}

// AssignParams resolves every parameter in group against ctx,
// declaring each leaf binding (recursing through tuple/list/record
// destructuring patterns) and returning the Subroutine-shaped result
// (§4.4). expect, if non-nil, is the placeholder Subroutine
// declare_sub installed earlier in the same block; when a slot's
// placeholder free variable is still unbound it is unified against
// the freshly instantiated parameter type so forward references
// inside the block see the same cell.
func (r *Registrar) AssignParams(group ParamGroup, expect *types.Subroutine, cache *instantiate.Cache, ctx *types.Context) (AssignedParams, []*errors.Report) {
	var errs []*errors.Report
	var out AssignedParams

	resolveOne := func(p ParamSig, expectType types.Type) (types.Type, string) {
		t, es := r.ins.InstantiateParamTy(p.Pattern, p.Decl, cache, instantiate.Normal, types.KindFunc, true, ctx)
		errs = append(errs, es...)
		if expectType != nil {
			if rep := r.uni.Unify(expectType, t, ctx); rep != nil {
				errs = append(errs, rep)
			}
		}
		if rep := r.declarePatternBindings(p.Pattern, t, ctx); rep != nil {
			errs = append(errs, rep)
		}
		return t, keywordOf(p.Pattern)
	}

	for i, p := range group.NonDefaults {
		var expectType types.Type
		if expect != nil && i < len(expect.NonDefaults) {
			expectType = expect.NonDefaults[i].Type
		}
		t, kw := resolveOne(p, expectType)
		out.NonDefaults = append(out.NonDefaults, types.Param{Keyword: kw, Type: t})
	}

	for i, p := range group.Defaults {
		var expectType types.Type
		if expect != nil && i < len(expect.Defaults) {
			expectType = expect.Defaults[i].Type
		}
		t, kw := resolveOne(p, expectType)
		def := types.TypeParam(&types.Value{V: nil})
		if p.Default != nil {
			d, des := r.ins.InstantiateConstExpr(p.Default, cache, ctx)
			def = d
			errs = append(errs, des...)
		}
		out.Defaults = append(out.Defaults, types.DefaultParam{Keyword: kw, Type: t, Default: def})
	}

	if group.VarParam != nil {
		var expectType types.Type
		if expect != nil && expect.VarParam != nil {
			expectType = expect.VarParam.Type
		}
		t, kw := resolveOne(*group.VarParam, expectType)
		out.VarParam = &types.Param{Keyword: kw, Type: t}
	}

	if group.KwVarParam != nil {
		var expectType types.Type
		if expect != nil && expect.KwVarParam != nil {
			expectType = expect.KwVarParam.Type
		}
		t, kw := resolveOne(*group.KwVarParam, expectType)
		out.KwVarParam = &types.Param{Keyword: kw, Type: t}
	}

	return out, errs
}

// declarePatternBindings walks pattern and t together, declaring each
// leaf name into ctx as a BindParam binding (§4.4's "recurses into
// sub-patterns" for destructured parameters).
func (r *Registrar) declarePatternBindings(pattern ast.ParamPattern, t types.Type, ctx *types.Context) *errors.Report {
	switch p := pattern.(type) {
	case *ast.NamePattern:
		return declareOne(ctx, p.Name, t, false)

	case *ast.RefPattern:
		return declareOne(ctx, p.Name, t, p.Mutable)

	case *ast.DiscardPattern, *ast.LiteralPattern:
		return nil

	case *ast.TuplePattern:
		tup, ok := t.(*types.Tuple)
		if !ok || len(tup.Elems) != len(p.Elems) {
			return nil
		}
		for i, sub := range p.Elems {
			if rep := r.declarePatternBindings(sub, tup.Elems[i], ctx); rep != nil {
				return rep
			}
		}
		return nil

	case *ast.ListPattern:
		elemType := types.Type(types.TObj)
		if poly, ok := t.(*types.PolyType); ok && poly.Name == "List" && len(poly.Params) == 1 {
			if tp, ok := poly.Params[0].(*types.TypeAsParam); ok {
				elemType = tp.T
			}
		}
		for _, sub := range p.Elems {
			if rep := r.declarePatternBindings(sub, elemType, ctx); rep != nil {
				return rep
			}
		}
		return nil

	case *ast.RecordPattern:
		rec, ok := t.(*types.Record)
		if !ok {
			return nil
		}
		byName := make(map[string]types.Type, len(rec.Fields))
		for _, f := range rec.Fields {
			byName[f.Name] = f.Type
		}
		for _, f := range p.Fields {
			ft, ok := byName[f.Name]
			if !ok {
				ft = types.TObj
			}
			if rep := r.declarePatternBindings(f.Pattern, ft, ctx); rep != nil {
				return rep
			}
		}
		return nil

	default:
		return nil
	}
}

func declareOne(ctx *types.Context, name string, t types.Type, mutable bool) *errors.Report {
	if name == "" {
		return nil
	}
	if err := ctx.Declare(name, &types.Binding{Type: t, Mutable: mutable, Kind: types.BindParam}); err != nil {
		return errors.New("registrar", errors.DuplicateDecl, err.Error(), nil).WithData("name", name)
	}
	return nil
}

// AssignVarSig finalizes a pending variable declaration: unifies the
// declared type (if pre_define_var recorded one) against the body's
// inferred type, then moves the binding from Declared to Defined
// (§4.4).
func (r *Registrar) AssignVarSig(name string, bodyType types.Type, loc ast.Span, ctx *types.Context) *errors.Report {
	b, ok := ctx.LookupLocal(name)
	if !ok {
		return errors.New("registrar", errors.NoVar, "assign_var_sig: no pending declaration for "+name, spanPtr(loc)).WithData("name", name)
	}
	if b.Kind == types.BindDeclared {
		if rep := r.uni.Unify(b.Type, bodyType, ctx); rep != nil {
			return errors.New("registrar", errors.TypeMismatch, rep.Message, spanPtr(loc)).WithData("name", name)
		}
	}
	ctx.Redefine(name, &types.Binding{Type: bodyType, Mutable: b.Mutable, Visibility: b.Visibility, Kind: types.BindDefined, Loc: loc})
	return nil
}

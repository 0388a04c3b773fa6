// Package registrar is the Registrar (C5b): the component that walks a
// declaration block, drives the Instantiator to resolve each
// declaration's type-spec fragments, and mutates the owning Context —
// the piece that actually ties C1 (Type Model), C2 (Evaluator), C3
// (Subtype Oracle), and C4 (Unifier) together into one analysis pass
// over real source (§4.4).
package registrar

import (
	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/instantiate"
	"github.com/veylang/typecore/internal/types"
	"github.com/veylang/typecore/internal/unify"
)

// Registrar closes over the Instantiator and Unifier it delegates to;
// the Context it mutates is threaded through each call rather than
// held, since one Registrar walks many nested scopes over its
// lifetime (module body, class body, function body, ...).
type Registrar struct {
	ins *instantiate.Instantiator
	uni *unify.Unifier
}

// New builds a Registrar around the given Instantiator and Unifier.
func New(ins *instantiate.Instantiator, uni *unify.Unifier) *Registrar {
	return &Registrar{ins: ins, uni: uni}
}

// VarSig is the surface shape of a variable declaration's signature:
// an optional declared type annotation plus the binding's mutability
// and source location.
type VarSig struct {
	Name    string
	Decl    ast.TypeSpec // nil if undeclared (inferred entirely from the body)
	Mutable bool
	Loc     ast.Span
}

// SubrSig is the surface shape of a subroutine declaration's
// signature, prior to parameter resolution.
type SubrSig struct {
	Name        string
	Bounds      []ast.TyBound
	NonDefaults []ParamSig
	Defaults    []ParamSig
	VarParam    *ParamSig
	KwVarParam  *ParamSig
	ReturnDecl  ast.TypeSpec
	IsProcedure bool
	Loc         ast.Span
}

// ParamSig pairs one parameter's binding pattern with its declared
// type annotation (if any) and, for a default parameter, its default
// value expression.
type ParamSig struct {
	Pattern ast.ParamPattern
	Decl    ast.TypeSpec
	Default ast.ConstExpr
}

func spanPtr(s ast.Span) *ast.Span { return &s }

// PreDefineVar records a forthcoming variable name so later
// expressions in the same block may refer to it before its defining
// expression has been type-checked (§4.4). Redeclaring an existing
// symbol is an error, except for the discard name "_".
func (r *Registrar) PreDefineVar(sig VarSig, ctx *types.Context) *errors.Report {
	var declared types.Type
	var errs []*errors.Report
	if sig.Decl != nil {
		declared, errs = r.ins.InstantiateTypeSpec(sig.Decl, instantiate.PreRegister, instantiate.NewCache(), ctx)
	} else {
		declared = types.NewFreeVar(ctx.CurrentLevel(), sig.Name, &types.Uninited{})
	}

	if err := ctx.Declare(sig.Name, &types.Binding{
		Type:    declared,
		Mutable: sig.Mutable,
		Kind:    types.BindDeclared,
		Loc:     sig.Loc,
	}); err != nil {
		return errors.New("registrar", errors.DuplicateDecl, err.Error(), spanPtr(sig.Loc)).WithData("name", sig.Name)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// DeclareSub installs a subroutine's signature in the declaration
// table with its parameter list still unresolved: every parameter
// slot becomes a fresh free variable so forward references inside the
// same block can unify against the subroutine's eventual return type
// without waiting for assign_params (§4.4).
func (r *Registrar) DeclareSub(sig SubrSig, ctx *types.Context) (*types.Binding, *errors.Report) {
	cache := instantiate.NewCache()
	if errs := r.ins.InstantiateTyBounds(sig.Bounds, instantiate.PreRegister, cache, ctx); len(errs) > 0 {
		return nil, errs[0]
	}

	placeholderParam := func(p ParamSig) types.Param {
		return types.Param{Keyword: keywordOf(p.Pattern), Type: types.NewFreeVar(ctx.CurrentLevel(), "", &types.Uninited{})}
	}

	nonDefaults := make([]types.Param, len(sig.NonDefaults))
	for i, p := range sig.NonDefaults {
		nonDefaults[i] = placeholderParam(p)
	}
	defaults := make([]types.DefaultParam, len(sig.Defaults))
	for i, p := range sig.Defaults {
		defaults[i] = types.DefaultParam{Keyword: keywordOf(p.Pattern), Type: types.NewFreeVar(ctx.CurrentLevel(), "", &types.Uninited{}), Default: &types.Value{V: nil}}
	}
	var varParam *types.Param
	if sig.VarParam != nil {
		vp := placeholderParam(*sig.VarParam)
		varParam = &vp
	}
	var kwVarParam *types.Param
	if sig.KwVarParam != nil {
		kvp := placeholderParam(*sig.KwVarParam)
		kwVarParam = &kvp
	}

	ret := types.Type(types.NewFreeVar(ctx.CurrentLevel(), "", &types.Uninited{}))
	if sig.ReturnDecl != nil {
		t, errs := r.ins.InstantiateTypeSpec(sig.ReturnDecl, instantiate.PreRegister, cache, ctx)
		if len(errs) > 0 {
			return nil, errs[0]
		}
		ret = t
	}

	kind := types.KindFunc
	if sig.IsProcedure {
		kind = types.KindProc
	}
	subr := &types.Subroutine{Kind: kind, NonDefaults: nonDefaults, Defaults: defaults, VarParam: varParam, KwVarParam: kwVarParam, Return: ret}

	b := &types.Binding{Type: subr, Kind: types.BindDeclared, Loc: sig.Loc}
	if err := ctx.Declare(sig.Name, b); err != nil {
		return nil, errors.New("registrar", errors.DuplicateDecl, err.Error(), spanPtr(sig.Loc)).WithData("name", sig.Name)
	}
	return b, nil
}

func keywordOf(p ast.ParamPattern) string {
	switch n := p.(type) {
	case *ast.NamePattern:
		return n.Name
	case *ast.RefPattern:
		return n.Name
	default:
		return ""
	}
}

func patternName(p ast.ParamPattern) string {
	switch n := p.(type) {
	case *ast.NamePattern:
		return n.Name
	case *ast.RefPattern:
		return n.Name
	case *ast.DiscardPattern:
		return "_"
	default:
		return ""
	}
}

package unify

import (
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

// SubUnify enforces sub <: sup without necessarily linking (§4.2's
// sub_unify): it tightens one side's constraint and defers the rest.
func (u *Unifier) SubUnify(sub, sup types.Type, ctx *types.Context) *errors.Report {
	if sv, ok := sub.(*types.FreeVar); ok && sv.IsUnbound() {
		return u.narrowUpperBound(sv, sup, ctx)
	}
	if pv, ok := sup.(*types.FreeVar); ok && pv.IsUnbound() {
		return u.widenLowerBound(pv, sub, ctx)
	}
	if u.oracle.SupertypeOf(sup, sub, ctx) {
		return nil
	}
	return u.fail(sup, sub, "subtyping constraint violated")
}

// narrowUpperBound tightens an unbound variable's sandwich Sup to the
// meet of its current bound and the newly required supertype, unless
// the current bound already implies sub <: sup.
func (u *Unifier) narrowUpperBound(v *types.FreeVar, sup types.Type, ctx *types.Context) *errors.Report {
	sand, ok := v.GetConstraint().(*types.Sandwiched)
	if !ok {
		v.Tighten(&types.Sandwiched{Sup: sup})
		return nil
	}
	if sand.Sup != nil && u.oracle.SupertypeOf(sup, sand.Sup, ctx) {
		return nil // existing bound already at least as tight
	}
	if sand.Sub != nil && !u.oracle.SupertypeOf(sup, sand.Sub, ctx) {
		return u.fail(sup, sand.Sub, "narrowed upper bound excludes existing lower bound")
	}
	v.Tighten(&types.Sandwiched{Sub: sand.Sub, Sup: sup, Cyclicity: sand.Cyclicity})
	return nil
}

// widenLowerBound tightens an unbound variable's sandwich Sub to the
// join of its current bound and the newly required subtype.
func (u *Unifier) widenLowerBound(v *types.FreeVar, sub types.Type, ctx *types.Context) *errors.Report {
	sand, ok := v.GetConstraint().(*types.Sandwiched)
	if !ok {
		v.Tighten(&types.Sandwiched{Sub: sub})
		return nil
	}
	if sand.Sub != nil && u.oracle.SupertypeOf(sand.Sub, sub, ctx) {
		return nil
	}
	if sand.Sup != nil && !u.oracle.SupertypeOf(sand.Sup, sub, ctx) {
		return u.fail(sand.Sup, sub, "widened lower bound exceeds existing upper bound")
	}
	v.Tighten(&types.Sandwiched{Sub: sub, Sup: sand.Sup, Cyclicity: sand.Cyclicity})
	return nil
}

// UnifyTP unifies two type parameters (the value-level language, §3.2)
// rather than two types. Concrete values must compare equal; a
// FreeVarParam delegates to the wrapped cell's own unification once its
// value is known to be a type (TypeAsParam), since TypeParam cells
// outside that case carry no mutable link state of their own.
func (u *Unifier) UnifyTP(a, b types.TypeParam, ctx *types.Context) *errors.Report {
	at, aok := a.(*types.TypeAsParam)
	bt, bok := b.(*types.TypeAsParam)
	if aok && bok {
		return u.Unify(at.T, bt.T, ctx)
	}
	if a.String() == b.String() {
		return nil
	}
	return errors.New("unify", errors.TypeMismatch,
		"type parameters "+a.String()+" and "+b.String()+" do not unify", nil)
}

// Reunify propagates a mutation through dependent types: it performs a
// structural unification between before and after, but permits
// rewriting the interior of mutable type-parameter cells rather than
// treating a mismatch as failure when the cell can simply be updated
// (§4.2 "Re-unification" — e.g. a procedure method that alters the
// receiver's size parameter).
func (u *Unifier) Reunify(before, after types.Type, ctx *types.Context) *errors.Report {
	bt, bok := before.(*types.PolyType)
	at, aok := after.(*types.PolyType)
	if bok && aok && bt.Name == at.Name && len(bt.Params) == len(at.Params) {
		for i := range bt.Params {
			if fv, ok := bt.Params[i].(*types.FreeVarParam); ok {
				if na, ok := at.Params[i].(*types.TypeAsParam); ok {
					fv.FV.Link(na.T)
					continue
				}
			}
			if err := u.UnifyTP(bt.Params[i], at.Params[i], ctx); err != nil {
				return err
			}
		}
		return nil
	}
	return u.Unify(before, after, ctx)
}

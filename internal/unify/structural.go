package unify

import (
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

func (u *Unifier) unifyStructural(a, b types.Type, ctx *types.Context) *errors.Report {
	switch at := a.(type) {
	case *types.Subroutine:
		bt, ok := b.(*types.Subroutine)
		if !ok {
			return u.fail(a, b, "kind mismatch")
		}
		return u.unifySubroutine(at, bt, ctx)

	case *types.Ref:
		bt, ok := b.(*types.Ref)
		if !ok {
			return u.fail(a, b, "expected a reference")
		}
		return u.Unify(at.Elem, bt.Elem, ctx)

	case *types.RefMut:
		bt, ok := b.(*types.RefMut)
		if !ok {
			return u.fail(a, b, "expected a mutable reference")
		}
		return u.Unify(at.Elem, bt.Elem, ctx)

	case *types.Refinement:
		bt, ok := b.(*types.Refinement)
		if !ok {
			return u.fail(a, b, "expected a refinement")
		}
		if err := u.Unify(at.Base, bt.Base, ctx); err != nil {
			return err
		}
		return u.unifyPredicates(at, bt)

	case *types.PolyType:
		bt, ok := b.(*types.PolyType)
		if !ok || bt.Name != at.Name || len(bt.Params) != len(at.Params) {
			return u.fail(a, b, "polymorphic application mismatch")
		}
		return u.unifyPolyParams(at, bt, ctx)

	case *types.Primitive:
		if at.String() == b.String() {
			return nil
		}
		return u.fail(a, b, "primitive mismatch")

	case *types.MonoType:
		bt, ok := b.(*types.MonoType)
		if !ok || bt.Name != at.Name {
			return u.fail(a, b, "class/trait name mismatch")
		}
		return nil

	case *types.Union:
		bt, ok := b.(*types.Union)
		if !ok {
			return u.fail(a, b, "expected a union")
		}
		if err := u.Unify(at.Left, bt.Left, ctx); err != nil {
			return err
		}
		return u.Unify(at.Right, bt.Right, ctx)

	case *types.Intersection:
		bt, ok := b.(*types.Intersection)
		if !ok {
			return u.fail(a, b, "expected an intersection")
		}
		if err := u.Unify(at.Left, bt.Left, ctx); err != nil {
			return err
		}
		return u.Unify(at.Right, bt.Right, ctx)

	case *types.Complement:
		bt, ok := b.(*types.Complement)
		if !ok {
			return u.fail(a, b, "expected a complement")
		}
		return u.Unify(at.Operand, bt.Operand, ctx)

	case *types.Projection:
		bt, ok := b.(*types.Projection)
		if !ok || at.Name != bt.Name {
			return u.fail(a, b, "projection mismatch")
		}
		return u.Unify(at.Base, bt.Base, ctx)

	default:
		if a.String() == b.String() {
			return nil
		}
		return u.fail(a, b, "structurally incomparable")
	}
}

func (u *Unifier) unifySubroutine(a, b *types.Subroutine, ctx *types.Context) *errors.Report {
	if a.Kind != b.Kind {
		return u.fail(a, b, "subroutine kind mismatch")
	}
	aNonDef, aDef, aVar := a.Arity()
	bNonDef, bDef, bVar := b.Arity()
	if aNonDef != bNonDef || aDef != bDef || aVar != bVar {
		return u.fail(a, b, "arity mismatch")
	}
	if a.Self != nil && b.Self != nil {
		if err := u.Unify(*a.Self, *b.Self, ctx); err != nil {
			return err
		}
	}
	// Contravariant positions unify by swapping sides to preserve the
	// variance guarantees of §4.1 (§4.2's "unified by swapping sides").
	for i := range a.NonDefaults {
		if err := u.Unify(b.NonDefaults[i].Type, a.NonDefaults[i].Type, ctx); err != nil {
			return err
		}
	}
	for i := range a.Defaults {
		if err := u.Unify(b.Defaults[i].Type, a.Defaults[i].Type, ctx); err != nil {
			return err
		}
	}
	if a.VarParam != nil {
		if err := u.Unify(b.VarParam.Type, a.VarParam.Type, ctx); err != nil {
			return err
		}
	}
	if a.KwVarParam != nil {
		if err := u.Unify(b.KwVarParam.Type, a.KwVarParam.Type, ctx); err != nil {
			return err
		}
	}
	return u.Unify(a.Return, b.Return, ctx)
}

func (u *Unifier) unifyPolyParams(a, b *types.PolyType, ctx *types.Context) *errors.Report {
	for i := range a.Params {
		at, aok := a.Params[i].(*types.TypeAsParam)
		bt, bok := b.Params[i].(*types.TypeAsParam)
		if !aok || !bok {
			if a.Params[i].String() != b.Params[i].String() {
				return u.fail(a, b, "type-parameter mismatch")
			}
			continue
		}
		variance := a.VarianceOf(i)
		var err *errors.Report
		switch variance {
		case types.Contravariant:
			err = u.Unify(bt.T, at.T, ctx)
		default:
			err = u.Unify(at.T, bt.T, ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// unifyPredicates unifies a refinement pair's predicates pairwise
// (§4.2's "predicates are unified pairwise modulo the predicate-
// ordering rules of §4.1.1"): b's predicates are α-renamed onto a's
// subject variable before the positional comparison.
func (u *Unifier) unifyPredicates(a, b *types.Refinement) *errors.Report {
	if len(a.Preds) != len(b.Preds) {
		return u.fail(a, b, "refinement predicate count mismatch")
	}
	for i := range a.Preds {
		renamed := renamePred(b.Preds[i], b.Var, a.Var)
		if a.Preds[i].String() != renamed.String() {
			return u.fail(a, b, "refinement predicate mismatch")
		}
	}
	return nil
}

func renamePred(p types.Predicate, from, to string) types.Predicate {
	if from == to {
		return p
	}
	switch p := p.(type) {
	case *types.PredCompare:
		if p.Subject == from {
			return &types.PredCompare{Subject: to, Op: p.Op, Rhs: p.Rhs}
		}
		return p
	case *types.PredAnd:
		return &types.PredAnd{Left: renamePred(p.Left, from, to), Right: renamePred(p.Right, from, to)}
	case *types.PredOr:
		return &types.PredOr{Left: renamePred(p.Left, from, to), Right: renamePred(p.Right, from, to)}
	case *types.PredNot:
		return &types.PredNot{Operand: renamePred(p.Operand, from, to)}
	default:
		return p
	}
}

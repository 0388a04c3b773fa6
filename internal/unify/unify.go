// Package unify is the Unifier (C4): it makes two Type Model terms
// structurally equal by linking free variables and recursing,
// reporting a structured UnificationFailure when no consistent linking
// exists (§4.2).
package unify

import (
	"fmt"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/subtype"
	"github.com/veylang/typecore/internal/types"
)

// Unifier closes over the Subtype Oracle it needs for sub_unify's
// sandwich-bound tightening and for the variance-aware recursion on
// subroutines and polymorphic applications.
type Unifier struct {
	oracle *subtype.Oracle
}

// New builds a Unifier around the given Subtype Oracle.
func New(oracle *subtype.Oracle) *Unifier {
	return &Unifier{oracle: oracle}
}

// Failure is UnificationFailure (§4.2): reported unchanged by callers.
type Failure struct {
	Left, Right       types.Type
	LeftLoc, RightLoc *ast.Span
	Cause             string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("cannot unify %s with %s: %s", f.Left.String(), f.Right.String(), f.Cause)
}

func (u *Unifier) fail(left, right types.Type, cause string) *errors.Report {
	f := &Failure{Left: left, Right: right, Cause: cause}
	return errors.New("unify", errors.TypeMismatch, f.Error(), nil).
		WithData("left", left.String()).
		WithData("right", right.String()).
		WithData("cause", cause)
}

// Unify makes A and B structurally equal, linking free variables as
// needed (§4.2). ctx supplies the Context a freshly minted free
// variable's level bookkeeping belongs to.
func (u *Unifier) Unify(a, b types.Type, ctx *types.Context) *errors.Report {
	av, aIsVar := a.(*types.FreeVar)
	bv, bIsVar := b.(*types.FreeVar)

	switch {
	case aIsVar && av.IsUnbound() && bIsVar && bv.IsUnbound():
		return u.unifyTwoVars(av, bv)
	case aIsVar && av.IsUnbound():
		return u.linkVarTo(av, b, ctx)
	case bIsVar && bv.IsUnbound():
		return u.linkVarTo(bv, a, ctx)
	}

	if aIsVar {
		if linked, ok := types.Crack(av); ok {
			return u.Unify(linked, b, ctx)
		}
	}
	if bIsVar {
		if linked, ok := types.Crack(bv); ok {
			return u.Unify(a, linked, ctx)
		}
	}

	return u.unifyStructural(a, b, ctx)
}

// unifyTwoVars: the higher-level variable links to the lower; at equal
// levels the choice is deterministic on cell identity (§4.2).
func (u *Unifier) unifyTwoVars(a, b *types.FreeVar) *errors.Report {
	if a.Level == b.Level {
		if a.ID() < b.ID() {
			b.Link(a)
		} else {
			a.Link(b)
		}
		return nil
	}
	if a.Level > b.Level {
		a.Link(b)
	} else {
		b.Link(a)
	}
	return nil
}

// linkVarTo links free variable v to term t: first lowers every free
// variable inside t down to v's level, then links if v's constraint
// admits t, otherwise tightens the constraint via sub_unify and leaves
// v unbound (§4.2 second bullet).
func (u *Unifier) linkVarTo(v *types.FreeVar, t types.Type, ctx *types.Context) *errors.Report {
	lowerLevels(t, v.Level)

	if u.constraintAdmits(v, t, ctx) {
		v.Link(t)
		return nil
	}
	return u.SubUnify(t, v, ctx)
}

func (u *Unifier) constraintAdmits(v *types.FreeVar, t types.Type, ctx *types.Context) bool {
	switch c := v.GetConstraint().(type) {
	case *types.Sandwiched:
		if c.Sup != nil && !u.oracle.SupertypeOf(c.Sup, t, ctx) {
			return false
		}
		if c.Sub != nil && !u.oracle.SupertypeOf(t, c.Sub, ctx) {
			return false
		}
		return true
	case *types.TypeOf:
		return u.oracle.SameTypeOf(c.T, t, ctx)
	case *types.Uninited:
		return true
	default:
		return false
	}
}

// lowerLevels walks t, lowering every free variable's level to at most
// to (§3.4 invariant 3, §4.2 second bullet).
func lowerLevels(t types.Type, to types.Level) {
	switch t := t.(type) {
	case *types.FreeVar:
		t.LowerLevel(to)
	case *types.Subroutine:
		for _, p := range t.NonDefaults {
			lowerLevels(p.Type, to)
		}
		for _, p := range t.Defaults {
			lowerLevels(p.Type, to)
		}
		if t.VarParam != nil {
			lowerLevels(t.VarParam.Type, to)
		}
		if t.KwVarParam != nil {
			lowerLevels(t.KwVarParam.Type, to)
		}
		lowerLevels(t.Return, to)
	case *types.Refinement:
		lowerLevels(t.Base, to)
	case *types.Union:
		lowerLevels(t.Left, to)
		lowerLevels(t.Right, to)
	case *types.Intersection:
		lowerLevels(t.Left, to)
		lowerLevels(t.Right, to)
	case *types.Complement:
		lowerLevels(t.Operand, to)
	case *types.Ref:
		lowerLevels(t.Elem, to)
	case *types.RefMut:
		lowerLevels(t.Elem, to)
	case *types.Projection:
		lowerLevels(t.Base, to)
	case *types.PolyType:
		for _, p := range t.Params {
			if tp, ok := p.(*types.TypeAsParam); ok {
				lowerLevels(tp.T, to)
			}
		}
	}
}

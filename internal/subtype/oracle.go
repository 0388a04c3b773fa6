// Package subtype is the Subtype Oracle (C3): it decides L :> R through
// a cheap/structural/nominal cascade (§4.1), memoizing ground-pair
// results in a process-wide cache shared by every Context.
package subtype

import (
	"github.com/veylang/typecore/internal/evaluator"
	"github.com/veylang/typecore/internal/types"
)

// Oracle holds an Evaluator and the shared cache consulted and updated
// by SupertypeOf for ground pairs. The ordering rules (§4.1.3) do not
// use the Evaluator: tryCmp compares type parameters as they arrive,
// without reducing arithmetic expressions.
type Oracle struct {
	eval  *evaluator.Evaluator
	cache *Cache

	// legacyMutableRefVariance relaxes RefMut from invariant to covariant
	// (config flag `features.legacy_mutable_ref_variance`, §9 open
	// question). Only this package reads it; the Type Model and Unifier
	// never do.
	legacyMutableRefVariance bool
}

// New builds an Oracle around a fresh Evaluator and the given cache
// (pass the same *Cache every Context in a compilation was built with,
// via types.NewRootContext(name, cache)), with every legacy flag off.
func New(cache *Cache) *Oracle {
	return &Oracle{eval: evaluator.New(), cache: cache}
}

// NewWithFeatures builds an Oracle honoring the given feature flags,
// sourced from a loaded internal/config.Config.
func NewWithFeatures(cache *Cache, legacyMutableRefVariance bool) *Oracle {
	return &Oracle{eval: evaluator.New(), cache: cache, legacyMutableRefVariance: legacyMutableRefVariance}
}

// SupertypeOf decides L :> R (R is assignable to a location typed L).
func (o *Oracle) SupertypeOf(l, r types.Type, ctx *types.Context) bool {
	if l, ok := types.Crack(l); ok {
		if r, ok := types.Crack(r); ok {
			return o.decide(l, r, ctx)
		}
	}
	return o.decideWithFreeVars(l, r, ctx)
}

// SubtypeOf decides R <: L, the mirror of SupertypeOf.
func (o *Oracle) SubtypeOf(l, r types.Type, ctx *types.Context) bool {
	return o.SupertypeOf(r, l, ctx)
}

// SameTypeOf decides mutual subtyping.
func (o *Oracle) SameTypeOf(a, b types.Type, ctx *types.Context) bool {
	return o.SupertypeOf(a, b, ctx) && o.SupertypeOf(b, a, ctx)
}

// Related decides whether either direction holds.
func (o *Oracle) Related(a, b types.Type, ctx *types.Context) bool {
	return o.SupertypeOf(a, b, ctx) || o.SupertypeOf(b, a, ctx)
}

// decideWithFreeVars handles the case where L or R is an unlinked free
// variable: a free variable is compatible with any type consistent with
// its sandwich bounds, but unlinked variables never speculate (§4.1
// structural phase, "Free variables").
func (o *Oracle) decideWithFreeVars(l, r types.Type, ctx *types.Context) bool {
	lv, lIsVar := l.(*types.FreeVar)
	rv, rIsVar := r.(*types.FreeVar)
	switch {
	case lIsVar && lv.IsUnbound():
		return o.freeVarAdmits(lv, r, ctx, true)
	case rIsVar && rv.IsUnbound():
		return o.freeVarAdmits(rv, l, ctx, false)
	}
	lc, _ := types.Crack(l)
	rc, _ := types.Crack(r)
	return o.decide(lc, rc, ctx)
}

// freeVarAdmits reports whether concrete type t is consistent with an
// unbound variable's sandwich bounds. asLeft is true when the variable
// plays L (the supertype position), false when it plays R.
func (o *Oracle) freeVarAdmits(v *types.FreeVar, t types.Type, ctx *types.Context, asLeft bool) bool {
	switch c := v.GetConstraint().(type) {
	case *types.Sandwiched:
		if c.Cyclicity == types.CyclicSuper {
			return o.cyclicConformance(v, t, ctx)
		}
		if asLeft {
			// v plays L: t must fit within [Sub, Sup] as R would.
			if c.Sup != nil && !o.SupertypeOf(c.Sup, t, ctx) {
				return false
			}
			if c.Sub != nil && !o.SupertypeOf(t, c.Sub, ctx) {
				return false
			}
			return true
		}
		if c.Sub != nil && !o.SupertypeOf(t, c.Sub, ctx) {
			return false
		}
		if c.Sup != nil && !o.SupertypeOf(c.Sup, t, ctx) {
			return false
		}
		return true
	case *types.TypeOf:
		return o.SameTypeOf(c.T, t, ctx)
	default:
		return false
	}
}

// cyclicConformance implements §4.1.2: tentatively link v to t's
// canonical form, test every super-trait of t against the upper bound
// after substitution, then undo.
func (o *Oracle) cyclicConformance(v *types.FreeVar, t types.Type, ctx *types.Context) bool {
	sand, ok := v.GetConstraint().(*types.Sandwiched)
	if !ok || sand.Sup == nil {
		return false
	}
	v.UndoableLink(t)
	defer v.Undo()

	mt, ok := t.(*types.MonoType)
	if !ok || mt.DefinedIn == nil {
		return o.SupertypeOf(sand.Sup, t, ctx)
	}
	for _, super := range mt.DefinedIn.SuperTraits() {
		if o.SupertypeOf(sand.Sup, super, ctx) {
			return true
		}
	}
	for _, super := range mt.DefinedIn.SuperClasses() {
		if o.SupertypeOf(sand.Sup, super, ctx) {
			return true
		}
	}
	return false
}

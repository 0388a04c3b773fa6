package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylang/typecore/internal/subtype"
	"github.com/veylang/typecore/internal/types"
)

func newUnifier() (*Unifier, *types.Context) {
	cache := subtype.NewCache()
	oracle := subtype.New(cache)
	ctx := types.NewRootContext("test", cache)
	return New(oracle), ctx
}

func TestUnifyIdenticalPrimitives(t *testing.T) {
	u, ctx := newUnifier()
	require.Nil(t, u.Unify(types.TInt, types.TInt, ctx))
}

func TestUnifyMismatchedPrimitivesFails(t *testing.T) {
	u, ctx := newUnifier()
	err := u.Unify(types.TInt, types.TStr, ctx)
	require.NotNil(t, err)
	assert.Equal(t, "TC006", err.Code)
}

func TestUnifyLinksUnboundVariable(t *testing.T) {
	u, ctx := newUnifier()
	fv := types.NewFreeVar(0, "T", &types.Uninited{})
	require.Nil(t, u.Unify(fv, types.TInt, ctx))
	assert.True(t, fv.IsLinked())
	linked, ok := types.Crack(fv)
	require.True(t, ok)
	assert.Equal(t, types.TInt, linked)
}

func TestUnifyOutOfBoundsFailsViaSubUnify(t *testing.T) {
	u, ctx := newUnifier()
	fv := types.NewFreeVar(0, "T", &types.Sandwiched{Sub: types.TNat, Sup: types.TInt})
	// Float is outside [Nat, Int], so linking falls back to sub_unify,
	// which reports the violated bound rather than silently linking.
	err := u.Unify(fv, types.TFloat, ctx)
	require.NotNil(t, err)
	assert.True(t, fv.IsUnbound())
}

func TestUnifyWithinBoundsLinks(t *testing.T) {
	u, ctx := newUnifier()
	fv := types.NewFreeVar(0, "T", &types.Sandwiched{Sub: types.TNat, Sup: types.TFloat})
	require.Nil(t, u.Unify(fv, types.TInt, ctx))
	assert.True(t, fv.IsLinked())
}

func TestUnifyTwoVarsLinksHigherLevelToLower(t *testing.T) {
	u, _ := newUnifier()
	ctx := types.NewRootContext("test", nil)
	hi := types.NewFreeVar(5, "Hi", &types.Uninited{})
	lo := types.NewFreeVar(1, "Lo", &types.Uninited{})
	require.Nil(t, u.Unify(hi, lo, ctx))
	assert.True(t, hi.IsLinked())
	assert.False(t, lo.IsLinked())
}

func TestUnifySubroutineContravariantParams(t *testing.T) {
	u, ctx := newUnifier()
	a := &types.Subroutine{Kind: types.KindFunc, NonDefaults: []types.Param{{Type: types.TObj}}, Return: types.TInt}
	b := &types.Subroutine{Kind: types.KindFunc, NonDefaults: []types.Param{{Type: types.TObj}}, Return: types.TInt}
	require.Nil(t, u.Unify(a, b, ctx))
}

func TestUnifyRefinementPredicates(t *testing.T) {
	u, ctx := newUnifier()
	a := &types.Refinement{Base: types.TInt, Var: "v", Preds: []types.Predicate{
		&types.PredCompare{Subject: "v", Op: types.PredGe, Rhs: &types.Value{V: 0}},
	}}
	b := &types.Refinement{Base: types.TInt, Var: "w", Preds: []types.Predicate{
		&types.PredCompare{Subject: "w", Op: types.PredGe, Rhs: &types.Value{V: 0}},
	}}
	require.Nil(t, u.Unify(a, b, ctx))
}

func TestSubUnifyNarrowsUpperBound(t *testing.T) {
	u, ctx := newUnifier()
	fv := types.NewFreeVar(0, "T", &types.Sandwiched{Sup: types.TFloat})
	require.Nil(t, u.SubUnify(fv, types.TInt, ctx))
	sand := fv.GetConstraint().(*types.Sandwiched)
	assert.Equal(t, types.TInt, sand.Sup)
}

func TestUnifyTPConcreteValuesMustMatch(t *testing.T) {
	u, ctx := newUnifier()
	require.Nil(t, u.UnifyTP(&types.Value{V: 3}, &types.Value{V: 3}, ctx))
	require.NotNil(t, u.UnifyTP(&types.Value{V: 3}, &types.Value{V: 4}, ctx))
}

package registrar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylang/typecore/internal/types"
)

func TestResolveCallSimplePositional(t *testing.T) {
	r, ctx := newRegistrar()
	callee := &types.Subroutine{
		Kind:        types.KindFunc,
		NonDefaults: []types.Param{{Keyword: "x", Type: types.TInt}},
		Return:      types.TInt,
	}
	ret, errs := r.ResolveCall(callee, CallArgs{Pos: []CallArg{{Type: types.TInt}}}, ctx)
	require.Empty(t, errs)
	assert.Equal(t, types.TInt, ret)
}

func TestResolveCallTooManyPositionalArgs(t *testing.T) {
	r, ctx := newRegistrar()
	callee := &types.Subroutine{Return: types.TInt}
	_, errs := r.ResolveCall(callee, CallArgs{Pos: []CallArg{{Type: types.TInt}}}, ctx)
	require.Len(t, errs, 1)
	assert.Equal(t, "TC009", errs[0].Code)
}

func TestResolveCallMissingRequiredArg(t *testing.T) {
	r, ctx := newRegistrar()
	callee := &types.Subroutine{
		NonDefaults: []types.Param{{Keyword: "x", Type: types.TInt}},
		Return:      types.TInt,
	}
	_, errs := r.ResolveCall(callee, CallArgs{}, ctx)
	require.Len(t, errs, 1)
	assert.Equal(t, "TC010", errs[0].Code)
}

func TestResolveCallKeywordFillsNonDefault(t *testing.T) {
	r, ctx := newRegistrar()
	callee := &types.Subroutine{
		NonDefaults: []types.Param{{Keyword: "x", Type: types.TInt}},
		Return:      types.TInt,
	}
	_, errs := r.ResolveCall(callee, CallArgs{Kw: []CallKwArg{{Name: "x", Type: types.TInt}}}, ctx)
	assert.Empty(t, errs)
}

func TestResolveCallDuplicateArgBothPositionalAndKeyword(t *testing.T) {
	r, ctx := newRegistrar()
	callee := &types.Subroutine{
		NonDefaults: []types.Param{{Keyword: "x", Type: types.TInt}},
		Return:      types.TInt,
	}
	_, errs := r.ResolveCall(callee, CallArgs{
		Pos: []CallArg{{Type: types.TInt}},
		Kw:  []CallKwArg{{Name: "x", Type: types.TInt}},
	}, ctx)
	require.Len(t, errs, 1)
	assert.Equal(t, "TC011", errs[0].Code)
}

func TestResolveCallUnknownKeywordSuggestsClosest(t *testing.T) {
	r, ctx := newRegistrar()
	callee := &types.Subroutine{
		NonDefaults: []types.Param{{Keyword: "count", Type: types.TInt}},
		Return:      types.TInt,
	}
	_, errs := r.ResolveCall(callee, CallArgs{Kw: []CallKwArg{{Name: "coutn", Type: types.TInt}}}, ctx)
	require.Len(t, errs, 1)
	assert.Equal(t, "TC012", errs[0].Code)
	require.NotNil(t, errs[0].Fix)
	assert.Equal(t, "count", errs[0].Fix.Suggestion)
}

func TestResolveCallArgTypeMismatch(t *testing.T) {
	r, ctx := newRegistrar()
	ctx.Declare("Str", &types.Binding{Type: &types.MonoType{Name: "Str"}})
	callee := &types.Subroutine{
		NonDefaults: []types.Param{{Keyword: "x", Type: types.TInt}},
		Return:      types.TInt,
	}
	_, errs := r.ResolveCall(callee, CallArgs{Pos: []CallArg{{Type: &types.MonoType{Name: "Str"}}}}, ctx)
	require.NotEmpty(t, errs)
	assert.Equal(t, "TC006", errs[0].Code)
}

func TestResolveCallInstantiatesQuantifiedCallee(t *testing.T) {
	r, ctx := newRegistrar()
	q := &types.Quantified{
		Callable: &types.Subroutine{
			NonDefaults: []types.Param{{Keyword: "x", Type: &types.QuantifiedPlaceholder{Name: "T"}}},
			Return:      &types.QuantifiedPlaceholder{Name: "T"},
		},
		Bounds: []types.QBound{{Var: "T"}},
	}
	ret, errs := r.ResolveCall(q, CallArgs{Pos: []CallArg{{Type: types.TInt}}}, ctx)
	require.Empty(t, errs)

	fv, ok := ret.(*types.FreeVar)
	require.True(t, ok, "expected a fresh instance variable, got %T", ret)
	linked, ok := types.Crack(fv)
	require.True(t, ok)
	assert.Equal(t, types.TInt, linked)
}

func TestLevenshteinBasic(t *testing.T) {
	assert.Equal(t, 0, levenshtein("same", "same"))
	assert.Equal(t, 1, levenshtein("cat", "cut"))
	assert.Equal(t, 3, levenshtein("", "abc"))
}

func TestDidYouMeanRejectsFarCandidates(t *testing.T) {
	_, ok := didYouMean("zzzzzzzz", []string{"x"})
	assert.False(t, ok)
}

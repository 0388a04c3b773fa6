package registrar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/types"
)

func TestAssignSubrGeneralizesOwnFreeVar(t *testing.T) {
	r, ctx := newRegistrar()
	enclosing := ctx.CurrentLevel()
	ctx.EnterLevel()

	bodyFV := types.NewFreeVar(ctx.CurrentLevel(), "", &types.Uninited{})
	info, errs := r.AssignSubr("identity", nil, AssignedParams{
		NonDefaults: []types.Param{{Keyword: "x", Type: bodyFV}},
	}, false, bodyFV, enclosing, ast.Span{}, ctx)
	require.Empty(t, errs)

	q, ok := info.Type.(*types.Quantified)
	require.True(t, ok, "expected a quantified scheme, got %T", info.Type)
	require.Len(t, q.Bounds, 1)

	_, isParam := q.Callable.NonDefaults[0].Type.(*types.QuantifiedPlaceholder)
	assert.True(t, isParam)
	_, isReturn := q.Callable.Return.(*types.QuantifiedPlaceholder)
	assert.True(t, isReturn)
}

func TestAssignSubrKeepsCapturedFreeVarLive(t *testing.T) {
	r, ctx := newRegistrar()
	captured := types.NewFreeVar(ctx.CurrentLevel(), "outer", &types.Uninited{})
	enclosing := ctx.CurrentLevel()
	ctx.EnterLevel()

	info, errs := r.AssignSubr("f", nil, AssignedParams{
		NonDefaults: []types.Param{{Keyword: "x", Type: captured}},
	}, false, types.TInt, enclosing, ast.Span{}, ctx)
	require.Empty(t, errs)

	subr, ok := info.Type.(*types.Subroutine)
	require.True(t, ok, "expected a bare subroutine (no generalizable vars), got %T", info.Type)
	_, stillFreeVar := subr.NonDefaults[0].Type.(*types.FreeVar)
	assert.True(t, stillFreeVar)
}

func TestAssignSubrUnifiesAgainstPendingDeclaration(t *testing.T) {
	r, ctx := newRegistrar()
	enclosing := ctx.CurrentLevel()
	placeholderRet := types.NewFreeVar(ctx.CurrentLevel(), "", &types.Uninited{})
	ctx.Declare("f", &types.Binding{Type: &types.Subroutine{Return: placeholderRet}, Kind: types.BindDeclared})

	_, errs := r.AssignSubr("f", nil, AssignedParams{}, false, types.TInt, enclosing, ast.Span{}, ctx)
	require.Empty(t, errs)

	linked, ok := types.Crack(placeholderRet)
	require.True(t, ok)
	assert.Equal(t, types.TInt, linked)
}

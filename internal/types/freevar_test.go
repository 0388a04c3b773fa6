package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeVarLinkCracksTransparently(t *testing.T) {
	fv := NewFreeVar(3, "T", &Sandwiched{Sub: TNever, Sup: TObj})
	require.True(t, fv.IsUnbound())

	fv.Link(TInt)
	assert.True(t, fv.IsLinked())

	cracked, ok := Crack(fv)
	require.True(t, ok)
	assert.Equal(t, TInt, cracked)
}

func TestFreeVarUndoableLinkReverts(t *testing.T) {
	fv := NewFreeVar(1, "", &Sandwiched{Sub: TNever, Sup: TObj})

	fv.UndoableLink(TInt)
	require.True(t, fv.IsLinked())

	ok := fv.Undo()
	require.True(t, ok)
	assert.True(t, fv.IsUnbound())
	_, cracked := Crack(fv)
	assert.False(t, cracked)
}

func TestFreeVarLevelOnlyLowers(t *testing.T) {
	fv := NewFreeVar(5, "", &Uninited{})
	fv.LowerLevel(10) // attempt to raise; must be ignored
	assert.Equal(t, Level(5), fv.Level)

	fv.LowerLevel(2)
	assert.Equal(t, Level(2), fv.Level)
}

func TestFreeVarLinkClearsConstraint(t *testing.T) {
	fv := NewFreeVar(0, "", &Sandwiched{Sub: TNever, Sup: TObj})
	fv.Link(TInt)
	assert.Nil(t, fv.GetConstraint())
}

func TestContextDeclareRejectsDuplicate(t *testing.T) {
	root := NewRootContext("main", nil)
	require.NoError(t, root.Declare("x", &Binding{Type: TInt, Kind: BindDeclared}))
	err := root.Declare("x", &Binding{Type: TInt, Kind: BindDeclared})
	assert.Error(t, err)
}

func TestContextDeclareAllowsRepeatedDiscard(t *testing.T) {
	root := NewRootContext("main", nil)
	require.NoError(t, root.Declare("_", &Binding{Type: TInt}))
	require.NoError(t, root.Declare("_", &Binding{Type: TStr}))
}

func TestContextLookupSearchesOuterScopes(t *testing.T) {
	root := NewRootContext("main", nil)
	require.NoError(t, root.Declare("x", &Binding{Type: TInt}))

	child := root.NewChild("inner", KindFunctionCtx)
	b, owner, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Same(t, root, owner)
	assert.Equal(t, TInt, b.Type)
}

func TestContextLevelsDeepenAndRestore(t *testing.T) {
	root := NewRootContext("main", nil)
	base := root.CurrentLevel()
	lvl := root.EnterLevel()
	assert.Greater(t, lvl, base)
	root.ExitLevel()
	assert.Equal(t, base, root.CurrentLevel())
}

func TestGlueAdaptersInScopeWalksChain(t *testing.T) {
	root := NewRootContext("main", nil)
	root.RegisterGlueAdapter("KAsEq", &MonoType{Name: "K"}, &MonoType{Name: "Eq", IsTrait: true})
	child := root.NewChild("inner", KindFunctionCtx)

	adapters := child.GlueAdaptersInScope()
	require.Len(t, adapters, 1)
	assert.Equal(t, "KAsEq", adapters[0].AdapterName)
}

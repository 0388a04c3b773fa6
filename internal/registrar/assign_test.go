package registrar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/instantiate"
	"github.com/veylang/typecore/internal/types"
)

func TestAssignParamsDeclaresLeafBindings(t *testing.T) {
	r, ctx := newRegistrar()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})

	group := ParamGroup{
		NonDefaults: []ParamSig{
			{Pattern: &ast.NamePattern{Name: "a"}, Decl: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Int"}},
		},
	}
	assigned, errs := r.AssignParams(group, nil, instantiate.NewCache(), ctx)
	require.Empty(t, errs)
	require.Len(t, assigned.NonDefaults, 1)
	assert.Equal(t, types.TInt, assigned.NonDefaults[0].Type)

	b, ok := ctx.LookupLocal("a")
	require.True(t, ok)
	assert.Equal(t, types.TInt, b.Type)
	assert.Equal(t, types.BindParam, b.Kind)
}

func TestAssignParamsUnifiesAgainstDeclaredPlaceholder(t *testing.T) {
	r, ctx := newRegistrar()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})

	placeholder := types.NewFreeVar(ctx.CurrentLevel(), "", &types.Uninited{})
	expect := &types.Subroutine{NonDefaults: []types.Param{{Keyword: "a", Type: placeholder}}}

	group := ParamGroup{
		NonDefaults: []ParamSig{
			{Pattern: &ast.NamePattern{Name: "a"}, Decl: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Int"}},
		},
	}
	_, errs := r.AssignParams(group, expect, instantiate.NewCache(), ctx)
	require.Empty(t, errs)

	linked, ok := types.Crack(placeholder)
	require.True(t, ok)
	assert.Equal(t, types.TInt, linked)
}

// For Tuple/List/Record patterns InstantiateParamTy ignores the
// ParamSig's own Decl and builds the type purely from the sub-pattern
// tree, so each leaf's annotation lives on that leaf's own NamePattern
// instead of on a parallel Tuple/Array/Record decl.
func TestAssignParamsDestructuresTuplePattern(t *testing.T) {
	r, ctx := newRegistrar()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})
	ctx.Declare("Str", &types.Binding{Type: types.TStr})

	group := ParamGroup{
		NonDefaults: []ParamSig{{
			Pattern: &ast.TuplePattern{Elems: []ast.ParamPattern{
				&ast.NamePattern{Name: "first", Decl: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Int"}},
				&ast.NamePattern{Name: "second", Decl: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Str"}},
			}},
		}},
	}
	assigned, errs := r.AssignParams(group, nil, instantiate.NewCache(), ctx)
	require.Empty(t, errs)
	tup, ok := assigned.NonDefaults[0].Type.(*types.Tuple)
	require.True(t, ok)
	assert.Equal(t, []types.Type{types.TInt, types.TStr}, tup.Elems)

	first, ok := ctx.LookupLocal("first")
	require.True(t, ok)
	assert.Equal(t, types.TInt, first.Type)
	second, ok := ctx.LookupLocal("second")
	require.True(t, ok)
	assert.Equal(t, types.TStr, second.Type)
}

func TestAssignParamsDestructuresListPattern(t *testing.T) {
	r, ctx := newRegistrar()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})

	group := ParamGroup{
		NonDefaults: []ParamSig{{
			Pattern: &ast.ListPattern{Elems: []ast.ParamPattern{
				&ast.NamePattern{Name: "head", Decl: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Int"}},
			}},
		}},
	}
	_, errs := r.AssignParams(group, nil, instantiate.NewCache(), ctx)
	require.Empty(t, errs)

	head, ok := ctx.LookupLocal("head")
	require.True(t, ok)
	assert.Equal(t, types.TInt, head.Type)
}

func TestAssignParamsDestructuresRecordPattern(t *testing.T) {
	r, ctx := newRegistrar()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})

	group := ParamGroup{
		NonDefaults: []ParamSig{{
			Pattern: &ast.RecordPattern{Fields: []ast.RecordPatternField{
				{Name: "x", Pattern: &ast.NamePattern{Name: "xVal", Decl: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Int"}}},
			}},
		}},
	}
	_, errs := r.AssignParams(group, nil, instantiate.NewCache(), ctx)
	require.Empty(t, errs)

	xVal, ok := ctx.LookupLocal("xVal")
	require.True(t, ok)
	assert.Equal(t, types.TInt, xVal.Type)
}

func TestAssignVarSigMovesDeclaredToDefined(t *testing.T) {
	r, ctx := newRegistrar()
	require.Nil(t, r.PreDefineVar(VarSig{Name: "x"}, ctx))

	rep := r.AssignVarSig("x", types.TInt, ast.Span{}, ctx)
	require.Nil(t, rep)

	b, ok := ctx.LookupLocal("x")
	require.True(t, ok)
	assert.Equal(t, types.BindDefined, b.Kind)
	assert.Equal(t, types.TInt, b.Type)
}

func TestAssignVarSigMissingDeclarationErrors(t *testing.T) {
	r, ctx := newRegistrar()
	rep := r.AssignVarSig("ghost", types.TInt, ast.Span{}, ctx)
	require.NotNil(t, rep)
	assert.Equal(t, "TC001", rep.Code)
}

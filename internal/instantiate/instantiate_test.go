package instantiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/evaluator"
	"github.com/veylang/typecore/internal/subtype"
	"github.com/veylang/typecore/internal/types"
	"github.com/veylang/typecore/internal/unify"
)

func newInstantiator() (*Instantiator, *types.Context) {
	cache := subtype.NewCache()
	oracle := subtype.New(cache)
	ctx := types.NewRootContext("test", cache)
	return New(evaluator.New(), unify.New(oracle)), ctx
}

func mono(name string) *ast.PreDecl {
	return &ast.PreDecl{Kind: ast.PreDeclMono, Name: name}
}

func TestInstantiateTypeSpecPreDeclMonoKnownPrimitive(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})

	got, errs := ins.InstantiateTypeSpec(mono("Int"), Normal, NewCache(), ctx)
	require.Empty(t, errs)
	assert.Equal(t, types.TInt, got)
}

func TestInstantiateTypeSpecUndefinedNameNormalModeErrors(t *testing.T) {
	ins, ctx := newInstantiator()
	_, errs := ins.InstantiateTypeSpec(mono("Ghost"), Normal, NewCache(), ctx)
	require.Len(t, errs, 1)
	assert.Equal(t, "TC003", errs[0].Code)
}

func TestInstantiateTypeSpecUndefinedNamePreRegisterToleratesForwardRef(t *testing.T) {
	ins, ctx := newInstantiator()
	_, errs := ins.InstantiateTypeSpec(mono("NotYetDeclared"), PreRegister, NewCache(), ctx)
	assert.Empty(t, errs)
}

func TestInstantiateTypeSpecArray(t *testing.T) {
	ins, ctx := newInstantiator()
	spec := &ast.Array{Elem: mono("Int")}
	ctx.Declare("Int", &types.Binding{Type: types.TInt})

	got, errs := ins.InstantiateTypeSpec(spec, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	poly, ok := got.(*types.PolyType)
	require.True(t, ok)
	assert.Equal(t, "List", poly.Name)
}

func TestInstantiateTypeSpecTuple(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})
	ctx.Declare("Str", &types.Binding{Type: types.TStr})
	spec := &ast.Tuple{Elems: []ast.TypeSpec{mono("Int"), mono("Str")}}

	got, errs := ins.InstantiateTypeSpec(spec, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	tup, ok := got.(*types.Tuple)
	require.True(t, ok)
	require.Len(t, tup.Elems, 2)
	assert.Equal(t, types.TInt, tup.Elems[0])
	assert.Equal(t, types.TStr, tup.Elems[1])
}

func TestInstantiateTypeSpecAndOrNot(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})
	ctx.Declare("Str", &types.Binding{Type: types.TStr})

	and, errs := ins.InstantiateTypeSpec(&ast.And{Left: mono("Int"), Right: mono("Str")}, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	_, ok := and.(*types.Intersection)
	assert.True(t, ok)

	or, errs := ins.InstantiateTypeSpec(&ast.Or{Left: mono("Int"), Right: mono("Str")}, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	_, ok = or.(*types.Union)
	assert.True(t, ok)

	not, errs := ins.InstantiateTypeSpec(&ast.Not{Operand: mono("Int")}, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	_, ok = not.(*types.Complement)
	assert.True(t, ok)
}

func TestInstantiateTypeSpecIntrinsicList(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})
	spec := &ast.PreDecl{Kind: ast.PreDeclPoly, Name: "List", Args: []ast.TypeSpec{mono("Int")}}

	got, errs := ins.InstantiateTypeSpec(spec, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	poly, ok := got.(*types.PolyType)
	require.True(t, ok)
	require.Len(t, poly.Variances, 1)
	assert.Equal(t, types.Covariant, poly.Variances[0])
}

func TestInstantiateTypeSpecIntrinsicRefMut(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})
	spec := &ast.PreDecl{Kind: ast.PreDeclPoly, Name: "RefMut", Args: []ast.TypeSpec{mono("Int")}}

	got, errs := ins.InstantiateTypeSpec(spec, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	rm, ok := got.(*types.RefMut)
	require.True(t, ok)
	assert.Equal(t, types.TInt, rm.Elem)
}

func TestInstantiateTypeSpecIntrinsicStructural(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})
	spec := &ast.PreDecl{Kind: ast.PreDeclPoly, Name: "Structural", Args: []ast.TypeSpec{mono("Int")}}

	got, errs := ins.InstantiateTypeSpec(spec, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	s, ok := got.(*types.Structural)
	require.True(t, ok)
	assert.Equal(t, types.TInt, s.Inner)
}

func TestInstantiateTypeSpecIntrinsicNamedTuple(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})
	rec := &ast.Record{Fields: []ast.RecordField{{Name: "x", Type: mono("Int")}}}
	spec := &ast.PreDecl{Kind: ast.PreDeclPoly, Name: "NamedTuple", Args: []ast.TypeSpec{rec}}

	got, errs := ins.InstantiateTypeSpec(spec, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	r, ok := got.(*types.Record)
	require.True(t, ok)
	require.Len(t, r.Fields, 1)
	assert.Equal(t, "x", r.Fields[0].Name)
}

func TestInstantiateTyBoundsMintsSandwichedConstraint(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Eq", &types.Binding{Type: &types.MonoType{Name: "Eq", IsTrait: true}})
	cache := NewCache()
	bounds := []ast.TyBound{{Var: "T", Kind: ast.BoundSub, Bound: mono("Eq")}}

	errs := ins.InstantiateTyBounds(bounds, Normal, cache, ctx)
	require.Empty(t, errs)

	fv, ok := cache.Lookup("T")
	require.True(t, ok)
	sand, ok := fv.GetConstraint().(*types.Sandwiched)
	require.True(t, ok)
	require.NotNil(t, sand.Sup)
	assert.Equal(t, "Eq", sand.Sup.String())
}

func TestInstantiateParamTyDiscardIsObj(t *testing.T) {
	ins, ctx := newInstantiator()
	got, errs := ins.InstantiateParamTy(&ast.DiscardPattern{}, nil, NewCache(), Normal, types.KindFunc, false, ctx)
	require.Empty(t, errs)
	assert.Equal(t, types.TObj, got)
}

func TestInstantiateParamTyNameWithDeclUsesDecl(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Str", &types.Binding{Type: types.TStr})
	pattern := &ast.NamePattern{Name: "s", Decl: mono("Str")}

	got, errs := ins.InstantiateParamTy(pattern, nil, NewCache(), Normal, types.KindFunc, false, ctx)
	require.Empty(t, errs)
	assert.Equal(t, types.TStr, got)
}

func TestInstantiateParamTyUnknownMintsQuantifiedVar(t *testing.T) {
	ins, ctx := newInstantiator()
	cache := NewCache()
	pattern := &ast.NamePattern{Name: "x"}

	got, errs := ins.InstantiateParamTy(pattern, nil, cache, Normal, types.KindFunc, true, ctx)
	require.Empty(t, errs)
	fv, ok := got.(*types.FreeVar)
	require.True(t, ok)
	assert.Equal(t, "x", fv.Name)
	_, cached := cache.Lookup("x")
	assert.True(t, cached)
}

func TestInstantiateParamTyLiteralBuildsSingleton(t *testing.T) {
	ins, ctx := newInstantiator()
	pattern := &ast.LiteralPattern{Value: &ast.Literal{Value: 5}}

	got, errs := ins.InstantiateParamTy(pattern, nil, NewCache(), Normal, types.KindFunc, false, ctx)
	require.Empty(t, errs)
	ref, ok := got.(*types.Refinement)
	require.True(t, ok)
	assert.Equal(t, types.TInt, ref.Base)
	require.Len(t, ref.Preds, 1)
}

func TestInstantiateParamTyRefMutWraps(t *testing.T) {
	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})
	pattern := &ast.RefPattern{Name: "x", Mutable: true}

	got, errs := ins.InstantiateParamTy(pattern, mono("Int"), NewCache(), Normal, types.KindFunc, false, ctx)
	require.Empty(t, errs)
	rm, ok := got.(*types.RefMut)
	require.True(t, ok)
	assert.Equal(t, types.TInt, rm.Elem)
}

func TestInstantiateConstExprFoldsArithmetic(t *testing.T) {
	ins, ctx := newInstantiator()
	expr := &ast.BinOp{Op: "+", Left: &ast.Literal{Value: 2}, Right: &ast.Literal{Value: 3}}

	got, errs := ins.InstantiateConstExpr(expr, NewCache(), ctx)
	require.Empty(t, errs)
	v, ok := got.(*types.Value)
	require.True(t, ok)
	assert.Equal(t, 5, v.V)
}

func TestInstantiateConstExprResolvesQuantifiedName(t *testing.T) {
	ins, ctx := newInstantiator()
	cache := NewCache()
	cache.GetOrMint("N", ctx.CurrentLevel(), &types.Sandwiched{Sup: types.TNat})

	got, errs := ins.InstantiateConstExpr(&ast.Accessor{Name: "N"}, cache, ctx)
	require.Empty(t, errs)
	fvp, ok := got.(*types.FreeVarParam)
	require.True(t, ok)
	assert.Equal(t, "N", fvp.FV.Name)
}

func TestInstantiateSubrWithBoundsProducesQuantified(t *testing.T) {
	ins, ctx := newInstantiator()
	spec := &ast.Subr{
		Bounds:      []ast.TyBound{{Var: "T", Kind: ast.BoundKind, Bound: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Obj"}}},
		NonDefaults: []ast.SubrParam{{Type: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "T"}}},
		ReturnType:  &ast.PreDecl{Kind: ast.PreDeclMono, Name: "T"},
	}
	ctx.Declare("Obj", &types.Binding{Type: types.TObj})

	got, errs := ins.InstantiateTypeSpec(spec, Normal, NewCache(), ctx)
	require.Empty(t, errs)
	q, ok := got.(*types.Quantified)
	require.True(t, ok)
	require.Len(t, q.Bounds, 1)
	assert.Equal(t, "T", q.Bounds[0].Var)
}

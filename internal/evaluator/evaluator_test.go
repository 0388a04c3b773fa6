package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/types"
)

func lit(v interface{}) *ast.Literal { return &ast.Literal{Value: v} }

func TestEvalLiteral(t *testing.T) {
	e := New()
	ctx := types.NewRootContext("test", nil)
	v, rep := e.Eval(lit(3), ctx)
	require.Nil(t, rep)
	assert.Equal(t, &types.Value{V: 3}, v)
}

func TestEvalBinOpFoldsConstants(t *testing.T) {
	e := New()
	ctx := types.NewRootContext("test", nil)
	expr := &ast.BinOp{Op: "+", Left: lit(2), Right: lit(3)}
	v, rep := e.Eval(expr, ctx)
	require.Nil(t, rep)
	assert.Equal(t, &types.Value{V: 5}, v)
}

func TestEvalBinOpWithUnboundAccessorErrors(t *testing.T) {
	e := New()
	ctx := types.NewRootContext("test", nil)
	expr := &ast.BinOp{Op: "+", Left: &ast.Accessor{Name: "n"}, Right: lit(1)}
	_, rep := e.Eval(expr, ctx)
	require.NotNil(t, rep) // "n" is unbound in this context
	assert.Equal(t, "TC018", rep.Code)
}

func TestEvalAccessorResolvesConst(t *testing.T) {
	e := New()
	ctx := types.NewRootContext("test", nil)
	ctx.DefineConst("N", &types.Value{V: 10})
	v, rep := e.Eval(&ast.Accessor{Name: "N"}, ctx)
	require.Nil(t, rep)
	assert.Equal(t, &types.Value{V: 10}, v)
}

func TestEvalDetectsReentrancyCycle(t *testing.T) {
	e := New()
	ctx := types.NewRootContext("test", nil)
	self := &ast.Application{}
	self.Callee = self
	_, rep := e.Eval(self, ctx)
	require.NotNil(t, rep)
	assert.Equal(t, "TC015", rep.Code)
}

func TestNormalizePredicateCanonicalizesNegation(t *testing.T) {
	e := New()
	ctx := types.NewRootContext("test", nil)
	p := &ast.PredNot{
		Operand: &ast.PredAnd{
			Left:  &ast.PredCompare{Subject: "v", Op: ast.PredGe, Rhs: lit(0)},
			Right: &ast.PredCompare{Subject: "v", Op: ast.PredLe, Rhs: lit(10)},
		},
	}
	got, rep := e.NormalizePredicate(p, ctx)
	require.Nil(t, rep)
	or, ok := got.(*types.PredOr)
	require.True(t, ok)
	assert.Equal(t, types.PredLt, or.Left.(*types.PredCompare).Op)
	assert.Equal(t, types.PredGt, or.Right.(*types.PredCompare).Op)
}

func TestEvalListLitReducesElements(t *testing.T) {
	e := New()
	ctx := types.NewRootContext("test", nil)
	expr := &ast.ListLit{Elems: []ast.ConstExpr{lit(1), &ast.BinOp{Op: "*", Left: lit(2), Right: lit(3)}}}
	v, rep := e.Eval(expr, ctx)
	require.Nil(t, rep)
	list := v.(*types.ListLit)
	assert.Equal(t, &types.Value{V: 1}, list.Elems[0])
	assert.Equal(t, &types.Value{V: 6}, list.Elems[1])
}

func TestEvalUnaryNot(t *testing.T) {
	e := New()
	ctx := types.NewRootContext("test", nil)
	v, rep := e.Eval(&ast.UnaryOp{Op: "not", Operand: lit(true)}, ctx)
	require.Nil(t, rep)
	assert.Equal(t, &types.Value{V: false}, v)
}

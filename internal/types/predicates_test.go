package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredCmpOpNegate(t *testing.T) {
	cases := []struct {
		op   PredCmpOp
		want PredCmpOp
	}{
		{PredEq, PredNe},
		{PredLt, PredGe},
		{PredLe, PredGt},
		{PredGt, PredLe},
		{PredGe, PredLt},
	}
	for _, c := range cases {
		t.Run(c.op.String(), func(t *testing.T) {
			assert.Equal(t, c.want, c.op.Negate())
			assert.Equal(t, c.op, c.want.Negate())
		})
	}
}

func TestCanonicalizeNotPushesToLeaves(t *testing.T) {
	// not (v >= 0 and v <= 10)  =>  (v < 0) or (v > 10)
	p := &PredNot{
		Operand: &PredAnd{
			Left:  &PredCompare{Subject: "v", Op: PredGe, Rhs: &Value{V: 0}},
			Right: &PredCompare{Subject: "v", Op: PredLe, Rhs: &Value{V: 10}},
		},
	}
	got := Canonicalize(p)
	or, ok := got.(*PredOr)
	if assert.True(t, ok) {
		left := or.Left.(*PredCompare)
		right := or.Right.(*PredCompare)
		assert.Equal(t, PredLt, left.Op)
		assert.Equal(t, PredGt, right.Op)
	}
}

func TestCanonicalizeOrdersEqualityBeforeInequality(t *testing.T) {
	p := &PredAnd{
		Left:  &PredCompare{Subject: "v", Op: PredGe, Rhs: &Value{V: 0}},
		Right: &PredCompare{Subject: "v", Op: PredEq, Rhs: &Value{V: 5}},
	}
	got := Canonicalize(p).(*PredAnd)
	assert.Equal(t, PredEq, got.Left.(*PredCompare).Op)
	assert.Equal(t, PredGe, got.Right.(*PredCompare).Op)
}

func TestSingletonRefinement(t *testing.T) {
	r := Singleton(TInt, "v", &Value{V: 3})
	assert.Equal(t, "{v: Int | v == 3}", r.String())
}

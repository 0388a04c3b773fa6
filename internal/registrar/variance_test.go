package registrar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veylang/typecore/internal/types"
)

func TestInferVarianceCovariantWhenOnlyInReturn(t *testing.T) {
	_, ctx := newRegistrar()
	sigs := []*types.Subroutine{
		{Return: &types.QuantifiedPlaceholder{Name: "T"}},
	}
	v := InferVariance("Box", "T", sigs, ctx)
	assert.Equal(t, types.Covariant, v)
}

func TestInferVarianceContravariantWhenOnlyInParam(t *testing.T) {
	_, ctx := newRegistrar()
	sigs := []*types.Subroutine{
		{NonDefaults: []types.Param{{Keyword: "x", Type: &types.QuantifiedPlaceholder{Name: "T"}}}, Return: types.TInt},
	}
	v := InferVariance("Sink", "T", sigs, ctx)
	assert.Equal(t, types.Contravariant, v)
}

func TestInferVarianceInvariantWhenUsedBothWays(t *testing.T) {
	_, ctx := newRegistrar()
	sigs := []*types.Subroutine{
		{NonDefaults: []types.Param{{Keyword: "x", Type: &types.QuantifiedPlaceholder{Name: "T"}}}, Return: &types.QuantifiedPlaceholder{Name: "T"}},
	}
	v := InferVariance("Cell", "T", sigs, ctx)
	assert.Equal(t, types.Invariant, v)
}

func TestInferVarianceInvariantInsideMutableRef(t *testing.T) {
	_, ctx := newRegistrar()
	sigs := []*types.Subroutine{
		{Return: &types.RefMut{Elem: &types.QuantifiedPlaceholder{Name: "T"}}},
	}
	v := InferVariance("MutBox", "T", sigs, ctx)
	assert.Equal(t, types.Invariant, v)
}

func TestInferVarianceDefaultsToInvariantWhenUnused(t *testing.T) {
	_, ctx := newRegistrar()
	v := InferVariance("Unused", "T", nil, ctx)
	assert.Equal(t, types.Invariant, v)
}

package registrar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/types"
)

func TestPreDefineVarWithoutDeclMintsFreeVar(t *testing.T) {
	r, ctx := newRegistrar()
	rep := r.PreDefineVar(VarSig{Name: "x"}, ctx)
	require.Nil(t, rep)

	b, ok := ctx.LookupLocal("x")
	require.True(t, ok)
	assert.Equal(t, types.BindDeclared, b.Kind)
	_, isFreeVar := b.Type.(*types.FreeVar)
	assert.True(t, isFreeVar)
}

func TestPreDefineVarDuplicateErrors(t *testing.T) {
	r, ctx := newRegistrar()
	require.Nil(t, r.PreDefineVar(VarSig{Name: "x"}, ctx))
	rep := r.PreDefineVar(VarSig{Name: "x"}, ctx)
	require.NotNil(t, rep)
	assert.Equal(t, "TC004", rep.Code)
}

func TestDeclareSubInstallsPlaceholderSignature(t *testing.T) {
	r, ctx := newRegistrar()
	sig := SubrSig{
		Name:        "f",
		NonDefaults: []ParamSig{{Pattern: &ast.NamePattern{Name: "a"}}},
	}
	b, rep := r.DeclareSub(sig, ctx)
	require.Nil(t, rep)
	require.NotNil(t, b)
	subr, ok := b.Type.(*types.Subroutine)
	require.True(t, ok)
	assert.Len(t, subr.NonDefaults, 1)
	assert.Equal(t, "a", subr.NonDefaults[0].Keyword)
}

func TestDeclareSubDuplicateErrors(t *testing.T) {
	r, ctx := newRegistrar()
	sig := SubrSig{Name: "f"}
	_, rep := r.DeclareSub(sig, ctx)
	require.Nil(t, rep)
	_, rep = r.DeclareSub(sig, ctx)
	require.NotNil(t, rep)
	assert.Equal(t, "TC004", rep.Code)
}

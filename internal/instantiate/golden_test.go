package instantiate

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/types"
)

type intrinsicCase struct {
	Name string `yaml:"name"`
	Elem string `yaml:"elem"`
	Want string `yaml:"want"`
}

type intrinsicFixture struct {
	Cases []intrinsicCase `yaml:"cases"`
}

func TestIntrinsicsAgainstGoldenFixture(t *testing.T) {
	raw, err := os.ReadFile("testdata/intrinsics.yaml")
	require.NoError(t, err)

	var fixture intrinsicFixture
	require.NoError(t, yaml.Unmarshal(raw, &fixture))
	require.NotEmpty(t, fixture.Cases)

	ins, ctx := newInstantiator()
	ctx.Declare("Int", &types.Binding{Type: types.TInt})

	for _, c := range fixture.Cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			spec := &ast.PreDecl{
				Kind: ast.PreDeclPoly,
				Name: c.Name,
				Args: []ast.TypeSpec{&ast.PreDecl{Kind: ast.PreDeclMono, Name: c.Elem}},
			}
			got, errs := ins.InstantiateTypeSpec(spec, Normal, NewCache(), ctx)
			require.Empty(t, errs)
			require.Equal(t, c.Want, got.String())
		})
	}
}

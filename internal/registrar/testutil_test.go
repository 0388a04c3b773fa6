package registrar

import (
	"github.com/veylang/typecore/internal/evaluator"
	"github.com/veylang/typecore/internal/instantiate"
	"github.com/veylang/typecore/internal/subtype"
	"github.com/veylang/typecore/internal/types"
	"github.com/veylang/typecore/internal/unify"
)

func newRegistrar() (*Registrar, *types.Context) {
	cache := subtype.NewCache()
	oracle := subtype.New(cache)
	uni := unify.New(oracle)
	ins := instantiate.New(evaluator.New(), uni)
	ctx := types.NewRootContext("test", cache)
	return New(ins, uni), ctx
}

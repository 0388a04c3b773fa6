package instantiate

import (
	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

// InstantiateConstExpr reduces a const-expr into a TypeParam, folding
// arithmetic through the Evaluator and making every quantified surface
// name in cache resolvable as a constant so an array length like `[T; N]`
// or a const-generic bound can reference a bound variable by name
// (§4.3). When the Evaluator cannot fully fold the expression it still
// returns the syntactic form with its subterms instantiated — the
// partial-result convention carried through from the Evaluator itself.
func (ins *Instantiator) InstantiateConstExpr(expr ast.ConstExpr, cache *Cache, ctx *types.Context) (types.TypeParam, []*errors.Report) {
	ins.exposeCacheAsConsts(cache, ctx)

	v, rep := ins.eval.Eval(expr, ctx)
	if rep != nil {
		return &types.Value{V: nil}, []*errors.Report{rep}
	}
	return v, nil
}

// exposeCacheAsConsts registers every name minted so far in cache as a
// lookup-able constant in ctx, so the Evaluator's Accessor branch
// resolves a quantified variable the same way it resolves any other
// named constant. Re-registering an already-exposed name is harmless;
// Context.DefineConst overwrites rather than erroring.
func (ins *Instantiator) exposeCacheAsConsts(cache *Cache, ctx *types.Context) {
	for _, name := range cache.Names() {
		fv, ok := cache.Lookup(name)
		if !ok {
			continue
		}
		ctx.DefineConst(name, &types.FreeVarParam{FV: fv})
	}
}

// Package evaluator is the Evaluator (C2): it reduces constant/type-level
// terms — arithmetic on type parameters, predicate normalization —
// whenever the Instantiator needs a value out of a const-expr (§4's
// component table). Projections are not resolved; they stay in their
// syntactic form.
package evaluator

import (
	"fmt"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

// Evaluator reduces const-expr ASTs into TypeParam values. It may be
// reentered from instantiate_const_expr while the Instantiator is
// mid-traversal (§9 "Evaluator recursion"); results are cached by the
// identity of the expression node (its pointer, not its structure, so
// two structurally equal nodes are evaluated separately) and the
// enclosing context, and a reentrancy guard turns self-referential
// evaluation into a reported cycle rather than a stack overflow.
type Evaluator struct {
	cache      map[cacheKey]types.TypeParam
	inProgress map[cacheKey]bool
}

type cacheKey struct {
	expr ast.ConstExpr
	ctx  *types.Context
}

// New creates an Evaluator with an empty cache.
func New() *Evaluator {
	return &Evaluator{
		cache:      make(map[cacheKey]types.TypeParam),
		inProgress: make(map[cacheKey]bool),
	}
}

// Eval reduces a const-expr node in the given Context. On success it
// returns the reduced TypeParam (a concrete value where every operand
// is concrete, else the syntactic form with reduced subterms); on
// failure (including a detected cycle)
// it returns an error Report, never both.
func (e *Evaluator) Eval(expr ast.ConstExpr, ctx *types.Context) (types.TypeParam, *errors.Report) {
	key := cacheKey{expr: expr, ctx: ctx}
	if v, ok := e.cache[key]; ok {
		return v, nil
	}
	if e.inProgress[key] {
		return nil, errors.New("evaluator", errors.FeatureError, "cyclic constant expression", spanOf(expr))
	}
	e.inProgress[key] = true
	defer delete(e.inProgress, key)

	v, errReport := e.evalUncached(expr, ctx)
	if errReport == nil {
		e.cache[key] = v
	}
	return v, errReport
}

func spanOf(n ast.Node) *ast.Span {
	if n == nil {
		return nil
	}
	s := n.Position()
	return &s
}

func (e *Evaluator) evalUncached(expr ast.ConstExpr, ctx *types.Context) (types.TypeParam, *errors.Report) {
	switch n := expr.(type) {
	case *ast.Literal:
		return &types.Value{V: n.Value}, nil

	case *ast.Accessor:
		if v, _, ok := ctx.LookupConst(n.Name); ok {
			return v, nil
		}
		if b, _, ok := ctx.Lookup(n.Name); ok {
			return &types.TypeAsParam{T: b.Type}, nil
		}
		return nil, errors.New("evaluator", errors.NotConstExpr, fmt.Sprintf("%q is not a constant expression", n.Name), spanOf(expr)).
			WithData("name", n.Name)

	case *ast.BinOp:
		return e.evalBinOp(n, ctx)

	case *ast.UnaryOp:
		return e.evalUnaryOp(n, ctx)

	case *ast.Application:
		return e.evalApplication(n, ctx)

	case *ast.ListLit:
		elems, rep := e.evalAll(n.Elems, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.ListLit{Elems: elems}, nil

	case *ast.SetLit:
		elems, rep := e.evalAll(n.Elems, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.SetLit{Elems: elems}, nil

	case *ast.TupleLit:
		elems, rep := e.evalAll(n.Elems, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.TupleLit{Elems: elems}, nil

	case *ast.DictLit:
		entries := make([]types.DictEntry, len(n.Entries))
		for i, ent := range n.Entries {
			k, rep := e.Eval(ent.Key, ctx)
			if rep != nil {
				return nil, rep
			}
			v, rep := e.Eval(ent.Value, ctx)
			if rep != nil {
				return nil, rep
			}
			entries[i] = types.DictEntry{Key: k, Value: v}
		}
		return &types.DictLit{Entries: entries}, nil

	case *ast.RecordLit:
		fields := make([]types.RecordField, len(n.Fields))
		for i, f := range n.Fields {
			v, rep := e.Eval(f.Value, ctx)
			if rep != nil {
				return nil, rep
			}
			fields[i] = types.RecordField{Name: f.Name, Value: v}
		}
		return &types.RecordLit{Fields: fields}, nil

	case *ast.Lambda:
		body, rep := e.Eval(n.Body, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.Lambda{Params: n.Params, Body: body}, nil

	case *ast.Ascription:
		// Type ascription on a const-expr reduces the underlying
		// expression; the ascribed type is enforced by the caller
		// (instantiate_const_expr) via the Unifier, not here.
		return e.Eval(n.Expr, ctx)

	default:
		return nil, errors.New("evaluator", errors.FeatureError, fmt.Sprintf("unsupported const-expr node %T", expr), spanOf(expr))
	}
}

func (e *Evaluator) evalAll(exprs []ast.ConstExpr, ctx *types.Context) ([]types.TypeParam, *errors.Report) {
	out := make([]types.TypeParam, len(exprs))
	for i, x := range exprs {
		v, rep := e.Eval(x, ctx)
		if rep != nil {
			return nil, rep
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) evalApplication(n *ast.Application, ctx *types.Context) (types.TypeParam, *errors.Report) {
	callee, rep := e.Eval(n.Callee, ctx)
	if rep != nil {
		return nil, rep
	}
	args, rep := e.evalAll(n.Args, ctx)
	if rep != nil {
		return nil, rep
	}
	calleeName := callee.String()
	if cr, ok := callee.(*types.ConstRef); ok {
		calleeName = cr.Name
	}
	// Best-effort: no builtin const-function table is wired in, so an
	// Application always reduces to its syntactic form with subterms
	// instantiated, per §4.3's instantiate_const_expr contract ("when
	// evaluation succeeds it returns the value; otherwise it returns the
	// syntactic form with its subterms instantiated").
	return &types.App{Callee: calleeName, Args: args}, nil
}

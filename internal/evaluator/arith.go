package evaluator

import (
	"fmt"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

func (e *Evaluator) evalBinOp(n *ast.BinOp, ctx *types.Context) (types.TypeParam, *errors.Report) {
	left, rep := e.Eval(n.Left, ctx)
	if rep != nil {
		return nil, rep
	}
	right, rep := e.Eval(n.Right, ctx)
	if rep != nil {
		return nil, rep
	}
	lv, lok := asValue(left)
	rv, rok := asValue(right)
	if lok && rok {
		if v, ok := foldArith(n.Op, lv, rv); ok {
			return &types.Value{V: v}, nil
		}
	}
	// One or both operands stayed symbolic (a FreeVarParam, a ConstRef, a
	// projection not yet resolvable): keep the syntactic form with its
	// subterms reduced, matching the instantiate_const_expr fallback.
	return &types.BinOp{Op: n.Op, Left: left, Right: right}, nil
}

func (e *Evaluator) evalUnaryOp(n *ast.UnaryOp, ctx *types.Context) (types.TypeParam, *errors.Report) {
	operand, rep := e.Eval(n.Operand, ctx)
	if rep != nil {
		return nil, rep
	}
	if v, ok := asValue(operand); ok {
		switch n.Op {
		case "-":
			switch x := v.(type) {
			case int:
				return &types.Value{V: -x}, nil
			case int64:
				return &types.Value{V: -x}, nil
			case float64:
				return &types.Value{V: -x}, nil
			}
		case "not":
			if b, ok := v.(bool); ok {
				return &types.Value{V: !b}, nil
			}
		}
	}
	return &types.UnaryOp{Op: n.Op, Operand: operand}, nil
}

func asValue(p types.TypeParam) (interface{}, bool) {
	v, ok := p.(*types.Value)
	if !ok {
		return nil, false
	}
	return v.V, true
}

// foldArith evaluates a binary operator over two concrete operands. It
// supports the arithmetic and comparison operators that appear in
// dependent type-parameter indices (array lengths, const-generic
// bounds) and in refinement predicates.
func foldArith(op string, l, r interface{}) (interface{}, bool) {
	if lb, ok := l.(bool); ok {
		if rb, ok := r.(bool); ok {
			switch op {
			case "and", "&&":
				return lb && rb, true
			case "or", "||":
				return lb || rb, true
			case "==":
				return lb == rb, true
			case "!=":
				return lb != rb, true
			}
			return nil, false
		}
	}

	lf, lIsFloat, lok := toFloat(l)
	rf, rIsFloat, rok := toFloat(r)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case "+", "-", "*", "/", "%":
		result := arithOp(op, lf, rf)
		if result == nil {
			return nil, false
		}
		if !lIsFloat && !rIsFloat && op != "/" {
			return int(*result), true
		}
		return *result, true
	case "==":
		return lf == rf, true
	case "!=":
		return lf != rf, true
	case "<":
		return lf < rf, true
	case "<=":
		return lf <= rf, true
	case ">":
		return lf > rf, true
	case ">=":
		return lf >= rf, true
	default:
		return nil, false
	}
}

func arithOp(op string, l, r float64) *float64 {
	var v float64
	switch op {
	case "+":
		v = l + r
	case "-":
		v = l - r
	case "*":
		v = l * r
	case "/":
		if r == 0 {
			return nil
		}
		v = l / r
	case "%":
		if r == 0 {
			return nil
		}
		v = float64(int64(l) % int64(r))
	default:
		return nil
	}
	return &v
}

func toFloat(v interface{}) (float64, bool, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), false, true
	case int64:
		return float64(x), false, true
	case float64:
		return x, true, true
	default:
		return 0, false, false
	}
}

// NormalizePredicate reduces a surface PredExpr into a canonical
// types.Predicate, evaluating every const-expr operand through the same
// Evaluator so a predicate like `v < n + 1` resolves `n + 1` before the
// Subtype Oracle ever compares it to another refinement (§4.1.1).
func (e *Evaluator) NormalizePredicate(p ast.PredExpr, ctx *types.Context) (types.Predicate, *errors.Report) {
	pred, rep := e.predUncached(p, ctx)
	if rep != nil {
		return nil, rep
	}
	return types.Canonicalize(pred), nil
}

func (e *Evaluator) predUncached(p ast.PredExpr, ctx *types.Context) (types.Predicate, *errors.Report) {
	switch n := p.(type) {
	case *ast.PredCompare:
		rhs, rep := e.Eval(n.Rhs, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.PredCompare{Subject: n.Subject, Op: types.PredCmpOp(n.Op), Rhs: rhs}, nil

	case *ast.PredAnd:
		l, rep := e.predUncached(n.Left, ctx)
		if rep != nil {
			return nil, rep
		}
		r, rep := e.predUncached(n.Right, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.PredAnd{Left: l, Right: r}, nil

	case *ast.PredOr:
		l, rep := e.predUncached(n.Left, ctx)
		if rep != nil {
			return nil, rep
		}
		r, rep := e.predUncached(n.Right, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.PredOr{Left: l, Right: r}, nil

	case *ast.PredNot:
		operand, rep := e.predUncached(n.Operand, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.PredNot{Operand: operand}, nil

	case *ast.PredCall:
		args, rep := e.evalAll(n.Args, ctx)
		if rep != nil {
			return nil, rep
		}
		return &types.PredCall{Subject: predSubject(args), Callee: n.Callee, Args: args}, nil

	default:
		return nil, errors.New("evaluator", errors.FeatureError, fmt.Sprintf("unsupported predicate node %T", p), spanOf(p))
	}
}

// predSubject best-effort names the subject of a call predicate lacking
// an explicit one: its first argument, if it names a bound variable.
func predSubject(args []types.TypeParam) string {
	if len(args) == 0 {
		return ""
	}
	if ref, ok := args[0].(*types.ConstRef); ok {
		return ref.Name
	}
	return ""
}

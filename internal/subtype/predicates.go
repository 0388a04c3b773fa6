package subtype

import "github.com/veylang/typecore/internal/types"

// CmpResult is try_cmp's result domain (§4.1.3).
type CmpResult int

const (
	CmpLess CmpResult = iota
	CmpEqual
	CmpGreater
	CmpLessEqual
	CmpGreaterEqual
	CmpNotEqual
	CmpAny  // unknown but possible
	CmpNone // impossible
)

// entailedBy reports whether some predicate in ps (all on the same
// subject, already α-renamed to match q) entails q, per §4.1.1.
func entailedBy(ps []types.Predicate, q types.Predicate) bool {
	for _, p := range ps {
		if predSupertypeOf(p, q) {
			return true
		}
	}
	return false
}

// predSupertypeOf implements `P :> Q` of §4.1.1.
func predSupertypeOf(p, q types.Predicate) bool {
	if pc, ok := p.(*types.PredCompare); ok {
		// P is a vacuous bound: v <= top or v >= bottom.
		if isVacuousUpper(pc) || isVacuousLower(pc) {
			return true
		}
	}

	pc, pIsCmp := p.(*types.PredCompare)
	qc, qIsCmp := q.(*types.PredCompare)
	if pIsCmp && qIsCmp {
		return cmpPredEntails(pc, qc)
	}

	// Boolean connectives on either side (§4.1.1 last bullet).
	switch qt := q.(type) {
	case *types.PredAnd:
		if pIsCmp && (pc.Op == types.PredLt || pc.Op == types.PredLe || pc.Op == types.PredGt || pc.Op == types.PredGe) {
			return predSupertypeOf(p, qt.Left) || predSupertypeOf(p, qt.Right)
		}
	case *types.PredOr:
		return predSupertypeOf(p, qt.Left) && predSupertypeOf(p, qt.Right)
	}
	switch pt := p.(type) {
	case *types.PredAnd:
		return predSupertypeOf(pt.Left, q) || predSupertypeOf(pt.Right, q)
	case *types.PredOr:
		return predSupertypeOf(pt.Left, q) && predSupertypeOf(pt.Right, q)
	}
	return false
}

func isVacuousUpper(p *types.PredCompare) bool {
	v, ok := p.Rhs.(*types.Value)
	return p.Op == types.PredLe && ok && isPosInf(v.V)
}

func isVacuousLower(p *types.PredCompare) bool {
	v, ok := p.Rhs.(*types.Value)
	return p.Op == types.PredGe && ok && isNegInf(v.V)
}

func isPosInf(v interface{}) bool {
	f, ok := v.(float64)
	return ok && f > 0 && isInf(f)
}
func isNegInf(v interface{}) bool {
	f, ok := v.(float64)
	return ok && f < 0 && isInf(f)
}
func isInf(f float64) bool { return f > 1e308 || f < -1e308 }

func cmpPredEntails(p, q *types.PredCompare) bool {
	cmp := tryCmp(p.Rhs, q.Rhs)
	switch {
	case p.Op == types.PredEq && q.Op == types.PredEq:
		return cmp == CmpEqual
	case p.Op == types.PredGe && (q.Op == types.PredGe || q.Op == types.PredEq):
		return cmp == CmpLessEqual || cmp == CmpLess || cmp == CmpEqual
	case p.Op == types.PredLe && (q.Op == types.PredLe || q.Op == types.PredEq):
		return cmp == CmpGreaterEqual || cmp == CmpGreater || cmp == CmpEqual
	default:
		return false
	}
}

// tryCmp compares two type parameters per §4.1.3's precedence rules.
// It does not reduce arithmetic expressions itself (that requires an
// Evaluator and a Context, which this narrow entry point does not
// have); callers that need rule 2 should pre-reduce through
// internal/evaluator before calling tryCmp.
func tryCmp(l, r types.TypeParam) CmpResult {
	// Rule 3: a linked free variable is cracked and retried. A
	// FreeVarParam wraps the free-variable *type* cell, not a TypeParam,
	// so cracking it only helps when the cell is still unbound (rule 4
	// applies instead) or linked to a type this package cannot further
	// decompose into a TypeParam; either way there is nothing more
	// concrete to retry with, so it falls through to rule 4 below.

	lval, lok := l.(*types.Value)
	rval, rok := r.(*types.Value)
	if lok && rok {
		return compareValues(lval.V, rval.V)
	}
	// Rule 4: one side erased/unbound, the other concrete — reported as
	// unknown-but-possible (CmpAny); the placeholder's type and bounds
	// are not consulted.
	if lok != rok {
		return CmpAny
	}
	return CmpAny
}

func compareValues(l, r interface{}) CmpResult {
	lf, lok := numeric(l)
	rf, rok := numeric(r)
	if lok && rok {
		switch {
		case lf < rf:
			return CmpLess
		case lf > rf:
			return CmpGreater
		default:
			return CmpEqual
		}
	}
	if l == r {
		return CmpEqual
	}
	return CmpNotEqual
}

func numeric(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

package subtype

import "github.com/veylang/typecore/internal/types"

// credibility is the cheap test's verdict strength (§4.1 step 1).
type credibility int

const (
	maybe credibility = iota
	absolutelyTrue
	absolutelyFalse
)

// decide runs the three-phase cascade of §4.1 on two already-cracked,
// non-free-variable types (free variables are handled by the caller in
// decideWithFreeVars before reaching here).
func (o *Oracle) decide(l, r types.Type, ctx *types.Context) bool {
	// A Structural wrapper on either side (§4.3's Structural intrinsic)
	// opts its operand out of the nominal phase entirely: it is compared
	// by the cheap/structural cascade only, never by super-class/glue
	// lookups.
	ls, lStruct := l.(*types.Structural)
	rs, rStruct := r.(*types.Structural)
	if lStruct || rStruct {
		inner := func(t types.Type, s *types.Structural, isStruct bool) types.Type {
			if isStruct {
				return s.Inner
			}
			return t
		}
		return o.decideStructuralOnly(inner(l, ls, lStruct), inner(r, rs, rStruct), ctx)
	}

	useCache := isGround(l) && isGround(r)
	if useCache && o.cache != nil {
		if v, ok := o.cache.Get(l, r); ok {
			return v
		}
	}

	cred, verdict := cheapTest(l, r)
	var result bool
	switch cred {
	case absolutelyTrue:
		result = true
	case absolutelyFalse:
		result = false
	default:
		if ok, handled := o.structuralTest(l, r, ctx); handled {
			result = ok
		} else {
			result = o.nominalTest(l, r, ctx)
		}
		_ = verdict
	}

	if useCache && o.cache != nil {
		o.cache.Put(l, r, result)
	}
	return result
}

// decideStructuralOnly runs the cheap and structural cascades but never
// falls back to the nominal phase, the semantics the Structural
// intrinsic requires.
func (o *Oracle) decideStructuralOnly(l, r types.Type, ctx *types.Context) bool {
	cred, verdict := cheapTest(l, r)
	switch cred {
	case absolutelyTrue:
		return true
	case absolutelyFalse:
		return false
	default:
		_ = verdict
		if ok, handled := o.structuralTest(l, r, ctx); handled {
			return ok
		}
		return false
	}
}

// cheapTest implements §4.1 step 1's absolute rules. The returned bool
// is only meaningful when credibility is absolutelyTrue/False.
func cheapTest(l, r types.Type) (credibility, bool) {
	if l.String() == r.String() {
		return absolutelyTrue, true
	}
	if lp, ok := l.(*types.Primitive); ok && lp.Kind == types.Obj {
		return absolutelyTrue, true
	}
	if rp, ok := r.(*types.Primitive); ok && rp.Kind == types.Never {
		return absolutelyTrue, true
	}
	lp, lIsPrim := l.(*types.Primitive)
	rp, rIsPrim := r.(*types.Primitive)
	if lIsPrim && rIsPrim {
		lr, lok := types.ArithRank(lp.Kind)
		rr, rok := types.ArithRank(rp.Kind)
		if lok && rok {
			if lr >= rr {
				return absolutelyTrue, true
			}
			return absolutelyFalse, false
		}
		return absolutelyFalse, false
	}
	lm, lIsMono := l.(*types.MonoType)
	rm, rIsMono := r.(*types.MonoType)
	if lIsMono && rIsMono {
		if lm.Name == rm.Name {
			return absolutelyTrue, true
		}
		// Differently named simple classes/traits are unrelated unless R's
		// nominal chain (super classes/traits, glue adapters) says
		// otherwise; the cheap test defers rather than forecloses, so
		// that phase 3 (§4.1 step 3) still gets to run.
		return maybe, false
	}
	// An open poly placeholder (MonoType) compared with its own
	// specialization (PolyType of the same name) is always compatible —
	// the placeholder form stands for "any instantiation" (§4.1 step 1,
	// "generic class/trait placeholders versus their specializations").
	if lIsMono {
		if rpoly, ok := r.(*types.PolyType); ok && rpoly.Name == lm.Name {
			return absolutelyTrue, true
		}
	}
	if rIsMono {
		if lpoly, ok := l.(*types.PolyType); ok && lpoly.Name == rm.Name {
			return absolutelyTrue, true
		}
	}
	return maybe, false
}

// structuralTest implements §4.1 step 2. The second return value is
// false when no structural rule applies to this pair (falling through
// to the nominal test).
func (o *Oracle) structuralTest(l, r types.Type, ctx *types.Context) (bool, bool) {
	switch lt := l.(type) {
	case *types.Subroutine:
		rt, ok := r.(*types.Subroutine)
		if !ok {
			return false, true
		}
		return o.subroutineSupertype(lt, rt, ctx), true

	case *types.Ref:
		rt, ok := r.(*types.Ref)
		if !ok {
			return false, true
		}
		return o.SupertypeOf(lt.Elem, rt.Elem, ctx), true

	case *types.RefMut:
		rt, ok := r.(*types.RefMut)
		if !ok {
			return false, true
		}
		if o.legacyMutableRefVariance {
			return o.SupertypeOf(lt.Elem, rt.Elem, ctx), true
		}
		return o.SameTypeOf(lt.Elem, rt.Elem, ctx), true

	case *types.Refinement:
		return o.refinementSupertype(lt, r, ctx), true

	case *types.Union:
		return o.SupertypeOf(lt.Left, r, ctx) || o.SupertypeOf(lt.Right, r, ctx), true

	case *types.Intersection:
		return o.SupertypeOf(lt.Left, r, ctx) && o.SupertypeOf(lt.Right, r, ctx), true

	case *types.Complement:
		// `not A :> R` iff R is not related to A at all.
		return !o.Related(lt.Operand, r, ctx), true

	case *types.PolyType:
		rt, ok := r.(*types.PolyType)
		if !ok || rt.Name != lt.Name || len(rt.Params) != len(lt.Params) {
			return false, false
		}
		return o.polyParamsSupertype(lt, rt, ctx), true

	case *types.Quantified:
		return o.quantifiedSupertype(lt, r, ctx), true
	}

	switch r.(type) {
	case *types.Union:
		ru := r.(*types.Union)
		return o.SupertypeOf(l, ru.Left, ctx) && o.SupertypeOf(l, ru.Right, ctx), true
	case *types.Intersection:
		ri := r.(*types.Intersection)
		return o.SupertypeOf(l, ri.Left, ctx) || o.SupertypeOf(l, ri.Right, ctx), true
	}

	return false, false
}

func (o *Oracle) subroutineSupertype(l, r *types.Subroutine, ctx *types.Context) bool {
	if l.Kind != r.Kind {
		return false
	}
	lNonDef, lDef, lVar := l.Arity()
	rNonDef, rDef, rVar := r.Arity()
	if lNonDef != rNonDef || lDef != rDef || lVar != rVar {
		return false
	}
	if l.Kind == types.KindMethod {
		if (l.Self == nil) != (r.Self == nil) {
			return false
		}
		if l.Self != nil && !o.SameTypeOf(*l.Self, *r.Self, ctx) {
			return false
		}
	}
	for i := range l.NonDefaults {
		if !o.SupertypeOf(r.NonDefaults[i].Type, l.NonDefaults[i].Type, ctx) {
			return false
		}
	}
	for i := range l.Defaults {
		if !o.SupertypeOf(r.Defaults[i].Type, l.Defaults[i].Type, ctx) {
			return false
		}
	}
	if l.VarParam != nil && !o.SupertypeOf(r.VarParam.Type, l.VarParam.Type, ctx) {
		return false
	}
	if l.KwVarParam != nil && !o.SupertypeOf(r.KwVarParam.Type, l.KwVarParam.Type, ctx) {
		return false
	}
	return o.SupertypeOf(l.Return, r.Return, ctx)
}

func (o *Oracle) refinementSupertype(l *types.Refinement, r types.Type, ctx *types.Context) bool {
	rr, ok := r.(*types.Refinement)
	if !ok {
		// A bare base type is treated as its own unconstrained refinement.
		return o.SupertypeOf(l.Base, r, ctx) && len(l.Preds) == 0
	}
	if !o.SupertypeOf(l.Base, rr.Base, ctx) {
		return false
	}
	for _, q := range renamePreds(rr.Preds, rr.Var, l.Var) {
		if !entailedBy(l.Preds, q) {
			return false
		}
	}
	return true
}

func renamePreds(preds []types.Predicate, from, to string) []types.Predicate {
	if from == to {
		return preds
	}
	out := make([]types.Predicate, len(preds))
	for i, p := range preds {
		out[i] = renamePred(p, from, to)
	}
	return out
}

func renamePred(p types.Predicate, from, to string) types.Predicate {
	switch p := p.(type) {
	case *types.PredCompare:
		if p.Subject == from {
			return &types.PredCompare{Subject: to, Op: p.Op, Rhs: p.Rhs}
		}
		return p
	case *types.PredAnd:
		return &types.PredAnd{Left: renamePred(p.Left, from, to), Right: renamePred(p.Right, from, to)}
	case *types.PredOr:
		return &types.PredOr{Left: renamePred(p.Left, from, to), Right: renamePred(p.Right, from, to)}
	case *types.PredNot:
		return &types.PredNot{Operand: renamePred(p.Operand, from, to)}
	default:
		return p
	}
}

func (o *Oracle) polyParamsSupertype(l, r *types.PolyType, ctx *types.Context) bool {
	for i := range l.Params {
		switch l.VarianceOf(i) {
		case types.Covariant:
			if !o.paramSupertype(l.Params[i], r.Params[i], ctx) {
				return false
			}
		case types.Contravariant:
			if !o.paramSupertype(r.Params[i], l.Params[i], ctx) {
				return false
			}
		default:
			if !paramsEqual(l.Params[i], r.Params[i]) {
				return false
			}
		}
	}
	return true
}

func (o *Oracle) paramSupertype(l, r types.TypeParam, ctx *types.Context) bool {
	lt, lok := l.(*types.TypeAsParam)
	rt, rok := r.(*types.TypeAsParam)
	if lok && rok {
		return o.SupertypeOf(lt.T, rt.T, ctx)
	}
	return paramsEqual(l, r)
}

func paramsEqual(l, r types.TypeParam) bool { return l.String() == r.String() }

func (o *Oracle) quantifiedSupertype(l *types.Quantified, r types.Type, ctx *types.Context) bool {
	rq, ok := r.(*types.Quantified)
	if !ok {
		return o.subroutineSupertype(l.Callable, &types.Subroutine{Kind: l.Callable.Kind, Return: types.TNever}, ctx)
	}
	inst := func(q *types.Quantified) *types.Subroutine {
		sub := make(map[string]types.Type, len(q.Bounds))
		for _, b := range q.Bounds {
			var sup, bnd types.Type = types.TObj, types.TNever
			if b.Sup != nil {
				sup = b.Sup
			}
			if b.Sub != nil {
				bnd = b.Sub
			}
			fv := types.NewFreeVar(ctx.CurrentLevel(), b.Var, &types.Sandwiched{Sub: bnd, Sup: sup})
			sub[b.Var] = fv
		}
		return substSubr(q.Callable, sub)
	}
	return o.subroutineSupertype(inst(l), inst(rq), ctx)
}

func substSubr(s *types.Subroutine, sub map[string]types.Type) *types.Subroutine {
	out := &types.Subroutine{Kind: s.Kind, Self: s.Self, Return: substType(s.Return, sub)}
	for _, p := range s.NonDefaults {
		out.NonDefaults = append(out.NonDefaults, types.Param{Keyword: p.Keyword, Type: substType(p.Type, sub)})
	}
	for _, p := range s.Defaults {
		out.Defaults = append(out.Defaults, types.DefaultParam{Keyword: p.Keyword, Type: substType(p.Type, sub), Default: p.Default})
	}
	if s.VarParam != nil {
		t := substType(s.VarParam.Type, sub)
		out.VarParam = &types.Param{Keyword: s.VarParam.Keyword, Type: t}
	}
	if s.KwVarParam != nil {
		t := substType(s.KwVarParam.Type, sub)
		out.KwVarParam = &types.Param{Keyword: s.KwVarParam.Keyword, Type: t}
	}
	return out
}

func substType(t types.Type, sub map[string]types.Type) types.Type {
	if ph, ok := t.(*types.QuantifiedPlaceholder); ok {
		if rep, ok := sub[ph.Name]; ok {
			return rep
		}
	}
	return t
}

// nominalTest implements §4.1 step 3: consult R's super lists, then
// every glue adapter visible from ctx.
func (o *Oracle) nominalTest(l, r types.Type, ctx *types.Context) bool {
	rm, ok := r.(*types.MonoType)
	if ok && rm.DefinedIn != nil {
		for _, super := range rm.DefinedIn.SuperClasses() {
			if o.SupertypeOf(l, super, ctx) {
				return true
			}
		}
		for _, super := range rm.DefinedIn.SuperTraits() {
			if o.SupertypeOf(l, super, ctx) {
				return true
			}
		}
	}
	for _, ga := range ctx.GlueAdaptersInScope() {
		if o.SupertypeOf(ga.BaseType, r, ctx) && o.SupertypeOf(l, ga.ImplementedTrait, ctx) {
			return true
		}
	}
	return false
}

package registrar

import (
	"fmt"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/types"
)

// CallArg is one positional argument's inferred type and source span.
type CallArg struct {
	Type types.Type
	Loc  ast.Span
}

// CallKwArg is one keyword argument's name, inferred type, and span.
type CallKwArg struct {
	Name string
	Type types.Type
	Loc  ast.Span
}

// CallArgs is the argument list of one call expression.
type CallArgs struct {
	Pos      []CallArg
	Kw       []CallKwArg
	Receiver types.Type // non-nil for a method call; unified against the callee's Self
	Loc      ast.Span
}

// ResolveCall implements the overload/call resolution algorithm of §4.5:
// instantiate a quantified callee fresh, check arity, sub_unify every
// positional argument, resolve keyword arguments by name (catching
// duplicates and unknowns with a did-you-mean suggestion), and return
// the instantiated result type.
func (r *Registrar) ResolveCall(calleeType types.Type, args CallArgs, ctx *types.Context) (types.Type, []*errors.Report) {
	subr, errs := r.prepareCallee(calleeType, args, ctx)
	if subr == nil {
		return types.TObj, errs
	}

	filled := make([]bool, len(subr.NonDefaults)+len(subr.Defaults))
	slotType := func(i int) types.Type {
		if i < len(subr.NonDefaults) {
			return subr.NonDefaults[i].Type
		}
		return subr.Defaults[i-len(subr.NonDefaults)].Type
	}
	slotKeyword := func(i int) string {
		if i < len(subr.NonDefaults) {
			return subr.NonDefaults[i].Keyword
		}
		return subr.Defaults[i-len(subr.NonDefaults)].Keyword
	}

	maxPos := len(subr.NonDefaults) + len(subr.Defaults)
	if len(args.Pos) > maxPos && subr.VarParam == nil {
		errs = append(errs, errors.New("registrar", errors.TooManyArgs,
			fmt.Sprintf("too many positional arguments: got %d, want at most %d", len(args.Pos), maxPos), spanPtr(args.Loc)))
	}

	for i, a := range args.Pos {
		if i < maxPos {
			filled[i] = true
			if rep := r.uni.SubUnify(a.Type, slotType(i), ctx); rep != nil {
				errs = append(errs, argMismatch(slotKeyword(i), i, a.Loc, rep))
			}
			continue
		}
		if subr.VarParam != nil {
			if rep := r.uni.SubUnify(a.Type, subr.VarParam.Type, ctx); rep != nil {
				errs = append(errs, argMismatch(subr.VarParam.Keyword, i, a.Loc, rep))
			}
		}
	}

	allKeywords := make([]string, 0, len(filled))
	for i := range filled {
		allKeywords = append(allKeywords, slotKeyword(i))
	}

	seenKw := map[string]bool{}
	for _, kw := range args.Kw {
		if kw.Name == "" {
			continue
		}
		if seenKw[kw.Name] {
			errs = append(errs, errors.New("registrar", errors.MultipleArgs,
				fmt.Sprintf("argument %q supplied more than once", kw.Name), spanPtr(kw.Loc)).WithData("name", kw.Name))
			continue
		}
		seenKw[kw.Name] = true

		idx := indexOfKeyword(allKeywords, kw.Name)
		if idx < 0 {
			if subr.KwVarParam != nil {
				if rep := r.uni.SubUnify(kw.Type, subr.KwVarParam.Type, ctx); rep != nil {
					errs = append(errs, argMismatch(kw.Name, -1, kw.Loc, rep))
				}
				continue
			}
			rep := errors.New("registrar", errors.UnexpectedKwArg,
				fmt.Sprintf("unexpected keyword argument %q", kw.Name), spanPtr(kw.Loc)).WithData("name", kw.Name)
			if suggestion, ok := didYouMean(kw.Name, allKeywords); ok {
				rep = rep.WithFix(suggestion, confidenceFor(kw.Name, suggestion))
			}
			errs = append(errs, rep)
			continue
		}
		if filled[idx] {
			errs = append(errs, errors.New("registrar", errors.MultipleArgs,
				fmt.Sprintf("argument %q supplied both positionally and by keyword", kw.Name), spanPtr(kw.Loc)).WithData("name", kw.Name))
			continue
		}
		filled[idx] = true
		if rep := r.uni.SubUnify(kw.Type, slotType(idx), ctx); rep != nil {
			errs = append(errs, argMismatch(kw.Name, idx, kw.Loc, rep))
		}
	}

	for i := 0; i < len(subr.NonDefaults); i++ {
		if !filled[i] {
			errs = append(errs, errors.New("registrar", errors.ArgsMissing,
				fmt.Sprintf("missing required argument %q", slotKeyword(i)), spanPtr(args.Loc)).WithData("name", slotKeyword(i)))
		}
	}

	return subr.Return, errs
}

// prepareCallee instantiates a quantified callee in a fresh cache and
// unifies its Self against the receiver, or uses an ordinary
// Subroutine directly (§4.5 step 1).
func (r *Registrar) prepareCallee(calleeType types.Type, args CallArgs, ctx *types.Context) (*types.Subroutine, []*errors.Report) {
	var errs []*errors.Report
	switch c := calleeType.(type) {
	case *types.Quantified:
		subr := instantiateQuantified(c, ctx)
		if args.Receiver != nil && subr.Self != nil {
			if rep := r.uni.Unify(*subr.Self, args.Receiver, ctx); rep != nil {
				errs = append(errs, rep)
			}
		}
		return subr, errs
	case *types.Subroutine:
		if args.Receiver != nil && c.Self != nil {
			if rep := r.uni.Unify(*c.Self, args.Receiver, ctx); rep != nil {
				errs = append(errs, rep)
			}
		}
		return c, errs
	default:
		return nil, append(errs, errors.New("registrar", errors.NotAType, "callee is not a subroutine type", spanPtr(args.Loc)).
			WithData("callee", calleeType.String()))
	}
}

// instantiateQuantified replaces every QuantifiedPlaceholder in q's
// callable with a fresh FreeVar carrying that bound's sandwich
// constraint, one fresh cell per distinct placeholder name.
func instantiateQuantified(q *types.Quantified, ctx *types.Context) *types.Subroutine {
	fresh := make(map[string]*types.FreeVar, len(q.Bounds))
	for _, b := range q.Bounds {
		fresh[b.Var] = types.NewFreeVar(ctx.CurrentLevel(), b.Var, &types.Sandwiched{Sub: b.Sub, Sup: b.Sup})
	}

	var rewrite func(t types.Type) types.Type
	rewrite = func(t types.Type) types.Type {
		switch n := t.(type) {
		case *types.QuantifiedPlaceholder:
			if fv, ok := fresh[n.Name]; ok {
				return fv
			}
			return t
		case *types.Ref:
			return &types.Ref{Elem: rewrite(n.Elem)}
		case *types.RefMut:
			return &types.RefMut{Elem: rewrite(n.Elem)}
		case *types.Tuple:
			elems := make([]types.Type, len(n.Elems))
			for i, e := range n.Elems {
				elems[i] = rewrite(e)
			}
			return &types.Tuple{Elems: elems}
		case *types.PolyType:
			params := make([]types.TypeParam, len(n.Params))
			for i, p := range n.Params {
				if tp, ok := p.(*types.TypeAsParam); ok {
					params[i] = &types.TypeAsParam{T: rewrite(tp.T)}
				} else {
					params[i] = p
				}
			}
			return &types.PolyType{Name: n.Name, IsTrait: n.IsTrait, Params: params, Variances: n.Variances, DefinedIn: n.DefinedIn}
		case *types.Union:
			return &types.Union{Left: rewrite(n.Left), Right: rewrite(n.Right)}
		case *types.Intersection:
			return &types.Intersection{Left: rewrite(n.Left), Right: rewrite(n.Right)}
		case *types.Refinement:
			return &types.Refinement{Base: rewrite(n.Base), Var: n.Var, Preds: n.Preds}
		default:
			return t
		}
	}

	s := q.Callable
	out := &types.Subroutine{Kind: s.Kind, Self: s.Self, Return: rewrite(s.Return)}
	for _, p := range s.NonDefaults {
		out.NonDefaults = append(out.NonDefaults, types.Param{Keyword: p.Keyword, Type: rewrite(p.Type)})
	}
	for _, p := range s.Defaults {
		out.Defaults = append(out.Defaults, types.DefaultParam{Keyword: p.Keyword, Type: rewrite(p.Type), Default: p.Default})
	}
	if s.VarParam != nil {
		out.VarParam = &types.Param{Keyword: s.VarParam.Keyword, Type: rewrite(s.VarParam.Type)}
	}
	if s.KwVarParam != nil {
		out.KwVarParam = &types.Param{Keyword: s.KwVarParam.Keyword, Type: rewrite(s.KwVarParam.Type)}
	}
	return out
}

func indexOfKeyword(keywords []string, name string) int {
	for i, k := range keywords {
		if k == name {
			return i
		}
	}
	return -1
}

func argMismatch(paramName string, index int, loc ast.Span, cause *errors.Report) *errors.Report {
	rep := errors.New("registrar", errors.TypeMismatch,
		fmt.Sprintf("argument for %q does not fit the declared parameter type", paramName), spanPtr(loc)).
		WithData("param", paramName).
		WithData("cause", cause.Message)
	if index >= 0 {
		rep = rep.WithData("index", index)
	}
	return rep
}

// didYouMean finds the closest candidate to name by Levenshtein edit
// distance, returning it only when close enough to be a plausible typo
// (§4.5 step 4). No pack library offers edit-distance search, so this
// is the one place in the Registrar built on a hand-rolled algorithm
// rather than an imported one.
func didYouMean(name string, candidates []string) (string, bool) {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		if c == "" {
			continue
		}
		d := levenshtein(name, c)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist < 0 {
		return "", false
	}
	threshold := len(name)/2 + 1
	if bestDist > threshold {
		return "", false
	}
	return best, true
}

func confidenceFor(name, suggestion string) float64 {
	d := levenshtein(name, suggestion)
	maxLen := len(name)
	if len(suggestion) > maxLen {
		maxLen = len(suggestion)
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(d)/float64(maxLen)
}

// levenshtein computes the classic edit distance between a and b.
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

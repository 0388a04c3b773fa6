package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/instantiate"
	"github.com/veylang/typecore/internal/registrar"
	"github.com/veylang/typecore/internal/types"
)

var (
	sectionColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	okColor      = color.New(color.FgGreen).SprintFunc()
	failColor    = color.New(color.FgRed).SprintFunc()
)

func section(title string) {
	fmt.Println(sectionColor(title))
	fmt.Println(sectionColor(underline(title)))
}

func underline(s string) string {
	out := make([]byte, len(s))
	for i := range out {
		out[i] = '-'
	}
	return string(out)
}

// demoPrimitiveSubtyping walks the arithmetic tower Bool<:Nat<:Int<:
// Ratio<:Float through the Subtype Oracle's cheap-test phase.
func demoPrimitiveSubtyping(s *session) {
	section("1. Primitive arithmetic tower")
	tower := []types.Type{types.TBool, types.TNat, types.TInt, types.TRatio, types.TFloat}
	for i := 0; i < len(tower)-1; i++ {
		lo, hi := tower[i], tower[i+1]
		fmt.Printf("  %s <: %s ? %s\n", lo, hi, yesNo(checkSubtype(s, lo, hi)))
	}
	fmt.Println()
}

// checkSubtype asks whether sub is a subtype of sup.
func checkSubtype(s *session, sub, sup types.Type) bool {
	return s.oracle.SupertypeOf(sup, sub, s.ctx)
}

func sameTypeOf(s *session, a, b types.Type) bool {
	return s.oracle.SameTypeOf(a, b, s.ctx)
}

func yesNo(b bool) string {
	if b {
		return okColor("yes")
	}
	return failColor("no")
}

// demoGenericIdentity declares `fn identity(x) = x` through the
// Registrar exactly the way a block's forward-reference-tolerant
// declaration pass would: DeclareSub installs the placeholder
// signature, AssignParams resolves the parameter against it, and
// AssignSubr generalizes the still-unbound parameter/return variable
// into a reusable quantified scheme. The scheme is then instantiated
// twice through ResolveCall, once per call site, to show each call
// gets its own fresh type variable.
func demoGenericIdentity(s *session) {
	section("2. Let-generalized identity function")

	sig := registrar.SubrSig{
		Name:        "identity",
		NonDefaults: []registrar.ParamSig{{Pattern: &ast.NamePattern{Name: "x"}}},
	}
	enclosingLevel := s.ctx.CurrentLevel()
	s.ctx.EnterLevel()

	decl, rep := s.reg.DeclareSub(sig, s.ctx)
	if rep != nil {
		fmt.Printf("  %s: %v\n", failColor("declare_sub failed"), rep.Message)
		return
	}
	placeholder := decl.Type.(*types.Subroutine)

	group := registrar.ParamGroup{NonDefaults: []registrar.ParamSig{sig.NonDefaults[0]}}
	assigned, errs := s.reg.AssignParams(group, placeholder, instantiate.NewCache(), s.ctx)
	if len(errs) > 0 {
		fmt.Printf("  %s: %v\n", failColor("assign_params failed"), errs[0].Message)
		return
	}

	bodyType := placeholder.NonDefaults[0].Type // body is just `x`
	info, errs := s.reg.AssignSubr("identity", nil, assigned, false, bodyType, enclosingLevel, ast.Span{}, s.ctx)
	if len(errs) > 0 {
		fmt.Printf("  %s: %v\n", failColor("assign_subr failed"), errs[0].Message)
		return
	}
	fmt.Printf("  identity : %s\n", info.Type.String())

	for _, arg := range []types.Type{types.TInt, types.TStr} {
		ret, errs := s.reg.ResolveCall(info.Type, registrar.CallArgs{Pos: []registrar.CallArg{{Type: arg}}}, s.ctx)
		if len(errs) > 0 {
			fmt.Printf("  identity(%s) -> %s: %v\n", arg, failColor("error"), errs[0].Message)
			continue
		}
		fmt.Printf("  identity(%s) -> %s\n", arg, ret.String())
	}
	fmt.Println()
}

// demoStructuralMatch shows two independently built Structural(Int)
// applications compared purely by shape, with no nominal phase.
func demoStructuralMatch(s *session) {
	section("3. Structural intrinsic skips the nominal phase")

	left, errs := s.ins.InstantiateTypeSpec(&ast.TypeApp{
		Callee: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Structural"},
		Args:   []ast.TypeSpec{&ast.PreDecl{Kind: ast.PreDeclMono, Name: "Int"}},
	}, instantiate.Normal, instantiate.NewCache(), s.ctx)
	if len(errs) > 0 {
		fmt.Printf("  %s: %v\n", failColor("error"), errs[0].Message)
		return
	}
	right, errs := s.ins.InstantiateTypeSpec(&ast.TypeApp{
		Callee: &ast.PreDecl{Kind: ast.PreDeclMono, Name: "Structural"},
		Args:   []ast.TypeSpec{&ast.PreDecl{Kind: ast.PreDeclMono, Name: "Int"}},
	}, instantiate.Normal, instantiate.NewCache(), s.ctx)
	if len(errs) > 0 {
		fmt.Printf("  %s: %v\n", failColor("error"), errs[0].Message)
		return
	}
	fmt.Printf("  %s same as %s ? %s\n", left, right, yesNo(sameTypeOf(s, left, right)))
	fmt.Println()
}

// demoCallResolution exercises §4.5's keyword-argument path, including
// the did-you-mean suggestion for a misspelled keyword.
func demoCallResolution(s *session) {
	section("4. Keyword call resolution")

	callee := &types.Subroutine{
		NonDefaults: []types.Param{{Keyword: "count", Type: types.TInt}},
		Return:      types.TStr,
	}

	_, errs := s.reg.ResolveCall(callee, registrar.CallArgs{
		Kw: []registrar.CallKwArg{{Name: "count", Type: types.TInt}},
	}, s.ctx)
	fmt.Printf("  render(count: Int) -> %s\n", yesNo(len(errs) == 0))

	_, errs = s.reg.ResolveCall(callee, registrar.CallArgs{
		Kw: []registrar.CallKwArg{{Name: "coutn", Type: types.TInt}},
	}, s.ctx)
	if len(errs) > 0 {
		msg := errs[0].Message
		if errs[0].Fix != nil {
			msg = fmt.Sprintf("%s (did you mean %q?)", msg, errs[0].Fix.Suggestion)
		}
		fmt.Printf("  render(coutn: Int) -> %s: %s\n", failColor("error"), msg)
	}
	fmt.Println()
}

// demoSubclassNominal installs Animal/Dog through RegisterGenType and
// confirms the Oracle's nominal phase discovers the inherited relation.
func demoSubclassNominal(s *session) {
	section("5. Nominal subclass relation")

	_, rep := s.reg.RegisterGenType(registrar.GenTypeSpec{Kind: registrar.GenClass, Name: "Animal"}, s.ctx)
	if rep != nil {
		fmt.Printf("  %s: %v\n", failColor("error"), rep.Message)
		return
	}
	_, rep = s.reg.RegisterGenType(registrar.GenTypeSpec{
		Kind:    registrar.GenSubclass,
		Name:    "Dog",
		Extends: []ast.TypeSpec{&ast.PreDecl{Kind: ast.PreDeclMono, Name: "Animal"}},
	}, s.ctx)
	if rep != nil {
		fmt.Printf("  %s: %v\n", failColor("error"), rep.Message)
		return
	}

	dog, _ := s.ctx.LookupLocal("Dog")
	animal, _ := s.ctx.LookupLocal("Animal")
	fmt.Printf("  Dog <: Animal ? %s\n", yesNo(checkSubtype(s, dog.Type, animal.Type)))
	fmt.Println()
}

// Package types is the Type Model (C1): the internal representation of
// types, type parameters, predicates, and free variables shared by every
// other component. It intentionally carries no behavior beyond
// construction and printing — subtyping lives in internal/subtype,
// unification in internal/unify, the same split the spec draws between
// "data model" (§3) and "component design" (§4).
package types

import (
	"fmt"
	"strings"
)

// Type is the tagged union of §3.1. Every variant below implements it;
// dispatch elsewhere is a type switch, not a virtual method, so the
// Subtype Oracle and Unifier can each interpret the same data
// differently without Type itself growing oracle/unifier logic.
type Type interface {
	fmt.Stringer
	isType()
}

// Prim enumerates the base primitives of §3.1.
type Prim int

const (
	Obj Prim = iota
	Never
	Bool
	Nat
	Int
	Ratio
	Float
	Str
	NoneType
	TypeKind
	ClassKind
	TraitKind
	ModuleKind
)

var primNames = map[Prim]string{
	Obj: "Obj", Never: "Never", Bool: "Bool", Nat: "Nat", Int: "Int",
	Ratio: "Ratio", Float: "Float", Str: "Str", NoneType: "NoneType",
	TypeKind: "Type", ClassKind: "Class", TraitKind: "Trait", ModuleKind: "Module",
}

func (p Prim) String() string {
	if n, ok := primNames[p]; ok {
		return n
	}
	return "UnknownPrim"
}

// Primitive is a leaf primitive type.
type Primitive struct{ Kind Prim }

func (*Primitive) isType()          {}
func (t *Primitive) String() string { return t.Kind.String() }

// arithTowerRank orders the numeric tower Bool ≤ Nat ≤ Int ≤ Ratio ≤
// Float for the cheap test in the Subtype Oracle (§4.1 rule 1).
var arithTowerRank = map[Prim]int{Bool: 0, Nat: 1, Int: 2, Ratio: 3, Float: 4}

// ArithRank returns the numeric tower position of a primitive, and
// whether it participates in the tower at all.
func ArithRank(p Prim) (int, bool) {
	r, ok := arithTowerRank[p]
	return r, ok
}

// MonoType is a mono class/trait referenced by qualified name (§3.1).
type MonoType struct {
	Name      string
	IsTrait   bool
	DefinedIn *Context // defining scope, for nominal lookups (§4.1 phase 3)
}

func (*MonoType) isType()          {}
func (t *MonoType) String() string { return t.Name }

// Variance governs how a poly type's parameter participates in
// subtyping (§4.1 "Polymorphic applications").
type Variance int

const (
	Covariant Variance = iota
	Contravariant
	Invariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "+"
	case Contravariant:
		return "-"
	default:
		return "="
	}
}

// PolyType is a poly class/trait: a name plus an ordered sequence of
// type parameters (§3.1).
type PolyType struct {
	Name      string
	IsTrait   bool
	Params    []TypeParam
	Variances []Variance // parallel to Params; defaults to Invariant if short
	DefinedIn *Context
}

func (*PolyType) isType() {}
func (t *PolyType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
}

// VarianceOf returns the declared variance of parameter i from
// Variances, defaulting to Invariant when the slice is too short.
// Variance inferred by the Registrar's InferVariance is recorded on the
// Context, not on the PolyType, and is not seen here.
func (t *PolyType) VarianceOf(i int) Variance {
	if i < len(t.Variances) {
		return t.Variances[i]
	}
	return Invariant
}

// SubrKind distinguishes function, procedure, and bound-method forms.
type SubrKind int

const (
	KindFunc SubrKind = iota
	KindProc
	KindMethod
)

// Param is one non-default parameter slot, optionally keyworded.
type Param struct {
	Keyword string // "" if positional-only
	Type    Type
}

func (p Param) String() string {
	if p.Keyword == "" {
		return p.Type.String()
	}
	return fmt.Sprintf("%s: %s", p.Keyword, p.Type.String())
}

// DefaultParam is a default parameter slot: a type plus the type of its
// default-value expression (§3.1).
type DefaultParam struct {
	Keyword string
	Type    Type
	Default TypeParam
}

func (p DefaultParam) String() string {
	if p.Keyword == "" {
		return fmt.Sprintf("%s := %s", p.Type.String(), p.Default.String())
	}
	return fmt.Sprintf("%s: %s := %s", p.Keyword, p.Type.String(), p.Default.String())
}

// Subroutine is a function/procedure/method type (§3.1).
type Subroutine struct {
	Kind        SubrKind
	Self        *Type // bound self type, only meaningful when Kind == KindMethod
	NonDefaults []Param
	Defaults    []DefaultParam
	VarParam    *Param // variadic positional, optional
	KwVarParam  *Param // variadic keyword, optional
	Return      Type
}

func (*Subroutine) isType() {}
func (t *Subroutine) String() string {
	var parts []string
	for _, p := range t.NonDefaults {
		parts = append(parts, p.String())
	}
	for _, p := range t.Defaults {
		parts = append(parts, p.String())
	}
	if t.VarParam != nil {
		parts = append(parts, "*"+t.VarParam.String())
	}
	if t.KwVarParam != nil {
		parts = append(parts, "**"+t.KwVarParam.String())
	}
	arrow := "->"
	if t.Kind == KindProc {
		arrow = "=>"
	}
	self := ""
	if t.Kind == KindMethod && t.Self != nil {
		self = fmt.Sprintf("(self: %s)", (*t.Self).String())
	}
	return fmt.Sprintf("%s(%s) %s %s", self, strings.Join(parts, ", "), arrow, t.Return.String())
}

// Arity returns (non-default count, default count, has variadic positional).
func (t *Subroutine) Arity() (int, int, bool) {
	return len(t.NonDefaults), len(t.Defaults), t.VarParam != nil
}

// Refinement is `{v: T | P...}` (§3.1, §3.3).
type Refinement struct {
	Base  Type
	Var   string
	Preds []Predicate
}

func (*Refinement) isType() {}
func (t *Refinement) String() string {
	preds := make([]string, len(t.Preds))
	for i, p := range t.Preds {
		preds[i] = p.String()
	}
	if len(preds) == 0 {
		return fmt.Sprintf("{%s: %s}", t.Var, t.Base.String())
	}
	return fmt.Sprintf("{%s: %s | %s}", t.Var, t.Base.String(), strings.Join(preds, ", "))
}

// Singleton builds the refinement `{v: T | v == value}` used for
// literal-pattern parameter inference (§4.3) and call-site narrowing
// (§8 scenario 4).
func Singleton(base Type, varName string, value TypeParam) *Refinement {
	return &Refinement{
		Base: base,
		Var:  varName,
		Preds: []Predicate{&PredCompare{
			Subject: varName,
			Op:      PredEq,
			Rhs:     value,
		}},
	}
}

// QBound is one bound in a Quantified scheme (§3.1): rank-1 only, so the
// bound variable never itself ranges over a quantified type.
type QBound struct {
	Var string
	Sub Type // lower bound, nil if none
	Sup Type // upper bound, nil if none
}

func (b QBound) String() string {
	switch {
	case b.Sub != nil && b.Sup != nil:
		return fmt.Sprintf("%s <: %s <: %s", b.Sub.String(), b.Var, b.Sup.String())
	case b.Sup != nil:
		return fmt.Sprintf("%s <: %s", b.Var, b.Sup.String())
	case b.Sub != nil:
		return fmt.Sprintf("%s <: %s", b.Sub.String(), b.Var)
	default:
		return b.Var
	}
}

// Quantified is a callable type with rank-1 bounds over named quantified
// variables (§3.1); instantiated fresh at every use site (§4.3).
type Quantified struct {
	Callable *Subroutine
	Bounds   []QBound
}

func (*Quantified) isType() {}
func (t *Quantified) String() string {
	vars := make([]string, len(t.Bounds))
	for i, b := range t.Bounds {
		vars[i] = b.String()
	}
	if len(vars) == 0 {
		return t.Callable.String()
	}
	return fmt.Sprintf("|%s| %s", strings.Join(vars, ", "), t.Callable.String())
}

// Ref and RefMut are the reference wrappers of §3.1. Per SPEC_FULL.md /
// §9, RefMut is invariant universally; a legacy covariant reading is
// available only through a config flag consulted by the Subtype Oracle,
// never by the Type Model itself.
type Ref struct{ Elem Type }

func (*Ref) isType()          {}
func (t *Ref) String() string { return fmt.Sprintf("Ref(%s)", t.Elem.String()) }

type RefMut struct{ Elem Type }

func (*RefMut) isType()          {}
func (t *RefMut) String() string { return fmt.Sprintf("Ref!(%s)", t.Elem.String()) }

// Union is `A ∨ B`.
type Union struct{ Left, Right Type }

func (*Union) isType()          {}
func (t *Union) String() string { return fmt.Sprintf("(%s or %s)", t.Left.String(), t.Right.String()) }

// Intersection is `A ∧ B`.
type Intersection struct{ Left, Right Type }

func (*Intersection) isType() {}
func (t *Intersection) String() string {
	return fmt.Sprintf("(%s and %s)", t.Left.String(), t.Right.String())
}

// Complement is `¬A`.
type Complement struct{ Operand Type }

func (*Complement) isType()          {}
func (t *Complement) String() string { return fmt.Sprintf("not %s", t.Operand.String()) }

// Projection is `T.Name`, an associated type selected on T.
type Projection struct {
	Base Type
	Name string
}

func (*Projection) isType()          {}
func (t *Projection) String() string { return fmt.Sprintf("%s.%s", t.Base.String(), t.Name) }

// QuantifiedPlaceholder is a named stand-in used inside a Quantified
// scheme's body; it must be replaced by a fresh FreeVar (via
// internal/instantiate) before it may reach the Unifier (§3.1).
type QuantifiedPlaceholder struct{ Name string }

func (*QuantifiedPlaceholder) isType()          {}
func (t *QuantifiedPlaceholder) String() string { return t.Name }

// Common primitive singletons, mirroring the teacher's predefined-type
// var block in its own types.go.
var (
	TObj      = &Primitive{Kind: Obj}
	TNever    = &Primitive{Kind: Never}
	TBool     = &Primitive{Kind: Bool}
	TNat      = &Primitive{Kind: Nat}
	TInt      = &Primitive{Kind: Int}
	TRatio    = &Primitive{Kind: Ratio}
	TFloat    = &Primitive{Kind: Float}
	TStr      = &Primitive{Kind: Str}
	TNone     = &Primitive{Kind: NoneType}
	TTypeType = &Primitive{Kind: TypeKind}
)

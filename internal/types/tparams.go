package types

import (
	"fmt"
	"strings"
)

// TypeParam is the value-level language the type system quotes (§3.2):
// the thing that fills a poly type's argument slot, a refinement's
// right-hand side, or a default parameter's default value.
type TypeParam interface {
	fmt.Stringer
	isTypeParam()
}

// Value is a concrete constant operand (an int, a string, a bool, ...).
type Value struct{ V interface{} }

func (*Value) isTypeParam() {}
func (p *Value) String() string {
	switch v := p.V.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ConstRef names a compile-time constant registered in a Context.
type ConstRef struct{ Name string }

func (*ConstRef) isTypeParam()  {}
func (p *ConstRef) String() string { return p.Name }

// App is a polymorphic application `F(args...)` at the type-parameter
// level (distinct from a type-level TypeApp — this is a value-level
// application, e.g. a const function call used inside a dependent index).
type App struct {
	Callee string
	Args   []TypeParam
}

func (*App) isTypeParam() {}
func (p *App) String() string {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Callee, strings.Join(parts, ", "))
}

// BinOp is a binary operator application, e.g. `N + 1`.
type BinOp struct {
	Op          string
	Left, Right TypeParam
}

func (*BinOp) isTypeParam() {}
func (p *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Left.String(), p.Op, p.Right.String())
}

// UnaryOp is a unary operator application, e.g. `-N`.
type UnaryOp struct {
	Op      string
	Operand TypeParam
}

func (*UnaryOp) isTypeParam() {}
func (p *UnaryOp) String() string {
	return fmt.Sprintf("%s%s", p.Op, p.Operand.String())
}

// ListLit, SetLit, TupleLit are ordered aggregate literals.
type ListLit struct{ Elems []TypeParam }

func (*ListLit) isTypeParam() {}
func (p *ListLit) String() string { return bracket("[", p.Elems, "]") }

type SetLit struct{ Elems []TypeParam }

func (*SetLit) isTypeParam()      {}
func (p *SetLit) String() string { return bracket("{", p.Elems, "}") }

type TupleLit struct{ Elems []TypeParam }

func (*TupleLit) isTypeParam()      {}
func (p *TupleLit) String() string { return bracket("(", p.Elems, ")") }

func bracket(open string, elems []TypeParam, close string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return open + strings.Join(parts, ", ") + close
}

// DictEntry is one key/value pair inside a DictLit.
type DictEntry struct{ Key, Value TypeParam }

// DictLit is an unordered key/value literal.
type DictLit struct{ Entries []DictEntry }

func (*DictLit) isTypeParam() {}
func (p *DictLit) String() string {
	parts := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key.String(), e.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RecordField is one named field inside a RecordLit.
type RecordField struct {
	Name  string
	Value TypeParam
}

// RecordLit is a named-field literal.
type RecordLit struct{ Fields []RecordField }

func (*RecordLit) isTypeParam() {}
func (p *RecordLit) String() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Lambda is a const-level anonymous function literal.
type Lambda struct {
	Params []string
	Body   TypeParam
}

func (*Lambda) isTypeParam() {}
func (p *Lambda) String() string {
	return fmt.Sprintf("(%s) => %s", strings.Join(p.Params, ", "), p.Body.String())
}

// ParamProjection is `p.Name`, a type-parameter-level field projection.
type ParamProjection struct {
	Base TypeParam
	Name string
}

func (*ParamProjection) isTypeParam() {}
func (p *ParamProjection) String() string {
	return fmt.Sprintf("%s.%s", p.Base.String(), p.Name)
}

// TypeAsParam embeds a Type as a type parameter, for type-level
// arguments to poly classes/traits whose parameter is itself a Type
// (e.g. `List(Int)`'s `Int` argument).
type TypeAsParam struct{ T Type }

func (*TypeAsParam) isTypeParam()  {}
func (p *TypeAsParam) String() string { return p.T.String() }

// FreeVarParam wraps a *FreeVar so a free variable may appear at the
// type-parameter level (e.g. an uninstantiated dependent-length index).
type FreeVarParam struct{ FV *FreeVar }

func (*FreeVarParam) isTypeParam() {}
func (p *FreeVarParam) String() string { return p.FV.String() }

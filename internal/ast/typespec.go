package ast

// TypeSpec is the surface syntax for a type expression, as handed to the
// Instantiator (§4.3). Exactly one concrete variant below implements it;
// dispatch is a type switch, mirroring how the teacher's parser AST hands
// distinct node structs to its type checker rather than one tagged union
// with a Kind field.
type TypeSpec interface {
	Node
	typeSpecNode()
}

// IntervalOp names the four interval boundary shapes from §6.
type IntervalOp int

const (
	Closed IntervalOp = iota
	LeftOpen
	RightOpen
	Open
)

func (op IntervalOp) String() string {
	switch op {
	case Closed:
		return "closed"
	case LeftOpen:
		return "left-open"
	case RightOpen:
		return "right-open"
	case Open:
		return "open"
	default:
		return "unknown-interval-op"
	}
}

// Infer stands in for an omitted type annotation.
type Infer struct{ base }

func (*Infer) typeSpecNode() {}

// PreDeclKind distinguishes the four shapes a pre-declared name spec may take.
type PreDeclKind int

const (
	PreDeclMono PreDeclKind = iota
	PreDeclPoly
	PreDeclAttr
	PreDeclSubscr
)

// PreDecl references a name that should already be registered: a mono
// type, a poly application, an attribute projection, or a subscripted form.
type PreDecl struct {
	base
	Kind PreDeclKind
	Name string   // qualified name for Mono/Poly/Attr
	Args []TypeSpec // Poly type arguments, or Subscr index args
	Attr string   // attribute name, for Kind == PreDeclAttr
	Base TypeSpec // receiver, for Kind == PreDeclAttr / PreDeclSubscr
}

func (*PreDecl) typeSpecNode() {}

// Array is a homogeneous sequence type, e.g. `[T]`.
type Array struct {
	base
	Elem TypeSpec
	Len  ConstExpr // optional; nil means unbounded
}

func (*Array) typeSpecNode() {}

// SetWithLen is a set type carrying a cardinality parameter.
type SetWithLen struct {
	base
	Elem TypeSpec
	Len  ConstExpr
}

func (*SetWithLen) typeSpecNode() {}

// Tuple is a fixed-arity heterogeneous product.
type Tuple struct {
	base
	Elems []TypeSpec
}

func (*Tuple) typeSpecNode() {}

// Dict is a key/value mapping type.
type Dict struct {
	base
	Key   TypeSpec
	Value TypeSpec
}

func (*Dict) typeSpecNode() {}

// RecordField is one named field inside a Record spec.
type RecordField struct {
	Name string
	Type TypeSpec
}

// Record is a named-tuple/struct-like type.
type Record struct {
	base
	Fields []RecordField
}

func (*Record) typeSpecNode() {}

// And is an intersection type spec, `A and B`.
type And struct {
	base
	Left, Right TypeSpec
}

func (*And) typeSpecNode() {}

// Or is a union type spec, `A or B`.
type Or struct {
	base
	Left, Right TypeSpec
}

func (*Or) typeSpecNode() {}

// Not is a complement type spec, `not A`.
type Not struct {
	base
	Operand TypeSpec
}

func (*Not) typeSpecNode() {}

// Enum is an enumeration of literal const-exprs, e.g. `{1, 2, 3}`.
type Enum struct {
	base
	Values []ConstExpr
}

func (*Enum) typeSpecNode() {}

// Interval is a bounded numeric range, e.g. `1..10` or `1<..<10`.
type Interval struct {
	base
	Op       IntervalOp
	Lhs, Rhs ConstExpr
}

func (*Interval) typeSpecNode() {}

// SubrParam is one parameter slot inside a Subr spec.
type SubrParam struct {
	Keyword string // optional keyword name
	Type    TypeSpec
	Default ConstExpr // non-nil only for default parameters
}

// Subr is a subroutine (function/procedure) type spec.
type Subr struct {
	base
	Bounds       []TyBound
	NonDefaults  []SubrParam
	VarParams    *SubrParam // variadic positional, optional
	Defaults     []SubrParam
	KwVarParams  *SubrParam // variadic keyword, optional
	IsProcedure  bool       // arrow distinguishes function vs procedure
	ReturnType   TypeSpec
}

func (*Subr) typeSpecNode() {}

// TyBoundKind distinguishes the three quantified-bound shapes from §4.3.
type TyBoundKind int

const (
	BoundSub  TyBoundKind = iota // T <: U
	BoundSup                     // T :> U
	BoundKind                    // T: U  (kind ascription)
)

// TyBound is one bound in a quantified signature's bound list.
type TyBound struct {
	Var   string
	Kind  TyBoundKind
	Bound TypeSpec
}

// TypeApp is an explicit polymorphic application, `F(args...)`.
type TypeApp struct {
	base
	Callee TypeSpec
	Args   []TypeSpec
}

func (*TypeApp) typeSpecNode() {}

// Refinement is `{ Var: Typ | Pred }`.
type Refinement struct {
	base
	Var  string
	Typ  TypeSpec
	Pred PredExpr
}

func (*Refinement) typeSpecNode() {}

// Projection is `T.Name`, an associated type selected on T.
type Projection struct {
	base
	Base TypeSpec
	Name string
}

func (*Projection) typeSpecNode() {}

// Package errors provides centralized error code definitions and the
// structured error report type for the type-system core (§7).
package errors

// Error code constants, one per error kind in §7's table. All live in
// the "TC" (type-checking) phase since the core has no lexer/parser
// phases of its own (those are external collaborators per §1).
const (
	NoVar              = "TC001" // identifier referenced where no binding is in scope
	NoAttr             = "TC002" // attribute access on a receiver lacking the named member
	NoType             = "TC003" // type name used but undefined
	DuplicateDecl      = "TC004" // name declared twice in the same scope
	Reassign           = "TC005" // immutable binding assigned after initialization
	TypeMismatch       = "TC006" // unification failed at a specific location
	ReturnTypeMismatch = "TC007" // body type does not fit declared return type
	Subtyping          = "TC008" // sub_unify failed with unrelated types
	TooManyArgs        = "TC009" // call arity: too many positional arguments
	ArgsMissing        = "TC010" // call arity: required arguments missing
	MultipleArgs       = "TC011" // same parameter supplied twice
	UnexpectedKwArg    = "TC012" // unknown keyword argument
	ImportError        = "TC013" // unknown module
	ModuleEnvError     = "TC014" // stdlib module requested without the right environment
	FeatureError       = "TC015" // construct recognized but unimplemented
	SelfTypeError      = "TC016" // Self used outside a class/trait body
	NotAType           = "TC017" // term appeared where a type was required
	NotConstExpr       = "TC018" // term appeared where a const expression was required
)

// ErrorInfo documents one error code's phase/category/description, the
// same taxonomy the teacher's ErrorRegistry uses for its own codes.
type ErrorInfo struct {
	Code        string
	Category    string
	Description string
}

// Registry maps every code above to its documentation entry.
var Registry = map[string]ErrorInfo{
	NoVar:              {NoVar, "scope", "Unbound variable"},
	NoAttr:             {NoAttr, "scope", "No such attribute"},
	NoType:             {NoType, "scope", "Undefined type name"},
	DuplicateDecl:      {DuplicateDecl, "scope", "Duplicate declaration"},
	Reassign:           {Reassign, "mutability", "Reassignment of immutable binding"},
	TypeMismatch:       {TypeMismatch, "unification", "Type mismatch"},
	ReturnTypeMismatch: {ReturnTypeMismatch, "unification", "Return type mismatch"},
	Subtyping:          {Subtyping, "subtyping", "Subtyping constraint violated"},
	TooManyArgs:        {TooManyArgs, "arity", "Too many arguments"},
	ArgsMissing:        {ArgsMissing, "arity", "Missing required arguments"},
	MultipleArgs:       {MultipleArgs, "arity", "Argument supplied more than once"},
	UnexpectedKwArg:    {UnexpectedKwArg, "arity", "Unexpected keyword argument"},
	ImportError:        {ImportError, "module", "Module not found"},
	ModuleEnvError:     {ModuleEnvError, "module", "Module requires a different environment"},
	FeatureError:       {FeatureError, "unsupported", "Construct not yet implemented"},
	SelfTypeError:      {SelfTypeError, "scope", "Self used outside a class/trait body"},
	NotAType:           {NotAType, "kind", "Expected a type"},
	NotConstExpr:       {NotConstExpr, "kind", "Expected a constant expression"},
}

// GetErrorInfo returns documentation for a code, if known.
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, ok := Registry[code]
	return info, ok
}

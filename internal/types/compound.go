package types

import (
	"fmt"
	"strings"

	"github.com/veylang/typecore/internal/ast"
)

// Tuple is a fixed-arity heterogeneous product (§3.1's `tuple`, and the
// target shape of the NamedTuple intrinsic, §4.3).
type Tuple struct{ Elems []Type }

func (*Tuple) isType() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Dict is a key/value mapping type (§3.1).
type Dict struct{ Key, Value Type }

func (*Dict) isType()          {}
func (t *Dict) String() string { return fmt.Sprintf("Dict(%s, %s)", t.Key.String(), t.Value.String()) }

// RecordTypeField is one named field inside a Record.
type RecordTypeField struct {
	Name string
	Type Type
}

// Record is a named-tuple/struct-like type (§3.1).
type Record struct{ Fields []RecordTypeField }

func (*Record) isType() {}
func (t *Record) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Enum is an enumeration of literal const values (§3.1).
type Enum struct{ Values []TypeParam }

func (*Enum) isType() {}
func (t *Enum) String() string {
	parts := make([]string, len(t.Values))
	for i, v := range t.Values {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Interval is a bounded numeric range, e.g. `1..10` (§3.1). Op mirrors
// the parser's ast.IntervalOp so the Instantiator can carry it straight
// through without a translation table.
type Interval struct {
	Op     ast.IntervalOp
	Lo, Hi TypeParam
}

func (*Interval) isType() {}
func (t *Interval) String() string {
	switch t.Op {
	case ast.LeftOpen:
		return fmt.Sprintf("%s<..%s", t.Lo.String(), t.Hi.String())
	case ast.RightOpen:
		return fmt.Sprintf("%s..<%s", t.Lo.String(), t.Hi.String())
	case ast.Open:
		return fmt.Sprintf("%s<..<%s", t.Lo.String(), t.Hi.String())
	default:
		return fmt.Sprintf("%s..%s", t.Lo.String(), t.Hi.String())
	}
}

// Structural marks its wrapped type as compared purely structurally:
// the Subtype Oracle's nominal phase (§4.1 step 3) never runs for it,
// only the cheap and structural cascades (§4.3's `Structural` intrinsic).
type Structural struct{ Inner Type }

func (*Structural) isType()          {}
func (t *Structural) String() string { return fmt.Sprintf("Structural(%s)", t.Inner.String()) }

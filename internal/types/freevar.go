package types

import (
	"fmt"
	"sync/atomic"
)

// Level identifies the lexical region owning a free variable; higher
// means deeper scope (§3.4 GLOSSARY).
type Level int

// Cyclicity tracks whether a free variable appears inside its own
// bound, e.g. `?T <: Eq(?T)` (§3.4).
type Cyclicity int

const (
	NonCyclic Cyclicity = iota
	// CyclicSuper marks a Sandwiched constraint whose Sup mentions the
	// variable itself; confronting it with a concrete type triggers the
	// cyclic conformance check of §4.1.2.
	CyclicSuper
)

// Constraint is the payload attached to an Unbound free variable (§3.4).
type Constraint interface{ isConstraint() }

// Sandwiched is `sub <: ?T <: sup`.
type Sandwiched struct {
	Sub, Sup  Type
	Cyclicity Cyclicity
}

func (*Sandwiched) isConstraint() {}

// TypeOf constrains a variable to range over values of type T (used for
// type-parameter free variables rather than type free variables).
type TypeOf struct{ T Type }

func (*TypeOf) isConstraint() {}

// Uninited is a placeholder constraint present only during construction,
// before the Instantiator has assigned a real constraint.
type Uninited struct{}

func (*Uninited) isConstraint() {}

// linkState is the FreeVar's link status (§3.4).
type linkState int

const (
	stateUnbound linkState = iota
	stateLinked
	stateUndoablyLinked
)

var freeVarCounter uint64

// FreeVar is a uniquely identified, interior-mutable cell (§3.4). It is
// the only mutable node in the Type Model; every other Type variant is
// immutable once built. Mutation is restricted to link-state
// transitions, performed exclusively through internal/unify so the
// invariants of §3.4 hold at every observation point.
type FreeVar struct {
	id    uint64
	Name  string // optional, for diagnostics only
	Level Level

	state      linkState
	constraint Constraint // meaningful only while Unbound
	link       Type       // meaningful while Linked or UndoablyLinked

	// prior remembers the state this cell held before an undoable link
	// was installed, so a failed speculative segment can restore it
	// (§4.2 "Speculative execution").
	prior *priorState
}

type priorState struct {
	state      linkState
	constraint Constraint
	link       Type
}

// NewFreeVar mints a fresh cell at the given level with the given
// constraint. Fresh cells always start Unbound.
func NewFreeVar(level Level, name string, c Constraint) *FreeVar {
	if c == nil {
		c = &Uninited{}
	}
	return &FreeVar{
		id:         atomic.AddUint64(&freeVarCounter, 1),
		Name:       name,
		Level:      level,
		state:      stateUnbound,
		constraint: c,
	}
}

func (*FreeVar) isType() {}

func (v *FreeVar) String() string {
	if v.state != stateUnbound {
		return v.link.String()
	}
	if v.Name != "" {
		return "?" + v.Name
	}
	return fmt.Sprintf("?%d", v.id)
}

// ID returns the cell's generational identity, stable across its
// lifetime regardless of link state — used as an arena key per §9's
// "Recursive type graphs" guidance.
func (v *FreeVar) ID() uint64 { return v.id }

// IsUnbound reports whether the cell currently accepts a link.
func (v *FreeVar) IsUnbound() bool { return v.state == stateUnbound }

// IsLinked reports whether the cell is Linked or UndoablyLinked.
func (v *FreeVar) IsLinked() bool { return v.state != stateUnbound }

// Crack follows a linked cell transparently (§3.4 invariant 1: "read-
// through is transparent to all clients"). It returns the cell's
// current link target and true, or (nil, false) if still Unbound. If
// the link target is itself a linked FreeVar, Crack follows the chain
// to its end.
func Crack(t Type) (Type, bool) {
	v, ok := t.(*FreeVar)
	if !ok {
		return t, true
	}
	if v.state == stateUnbound {
		return nil, false
	}
	return Crack(v.link)
}

// GetConstraint returns the cell's constraint. Per invariant 1 this is
// only meaningful while Unbound; callers must check IsUnbound first.
func (v *FreeVar) GetConstraint() Constraint { return v.constraint }

// setLink is the single mutation point shared by Link and UndoableLink.
func (v *FreeVar) setLink(t Type, undoable bool) {
	if undoable {
		v.prior = &priorState{state: v.state, constraint: v.constraint, link: v.link}
		v.state = stateUndoablyLinked
	} else {
		v.prior = nil
		v.state = stateLinked
	}
	v.link = t
	v.constraint = nil // invariant 1: never both linked and constrained
}

// Link permanently links the cell to t. Callers (internal/unify) must
// already have verified the cell's constraint admits t, and must have
// lowered the level of every free variable inside t to at most v.Level
// (invariant 3) before calling this.
func (v *FreeVar) Link(t Type) { v.setLink(t, false) }

// UndoableLink links the cell to t while remembering the prior state,
// for use inside a speculative trial segment (§4.2). Pair with Undo.
func (v *FreeVar) UndoableLink(t Type) { v.setLink(t, true) }

// Undo reverts the most recent UndoableLink, restoring Unbound state
// and the prior constraint. It is a no-op (but reported) if the cell
// was never undoably linked — callers should treat that as a bug in
// segment bookkeeping.
func (v *FreeVar) Undo() bool {
	if v.state != stateUndoablyLinked || v.prior == nil {
		return false
	}
	v.state = v.prior.state
	v.constraint = v.prior.constraint
	v.link = v.prior.link
	v.prior = nil
	return true
}

// Tighten replaces the cell's constraint, enforced by the caller
// (internal/unify's SubUnify and its bound-narrowing helpers) to only
// ever narrow (§3.4 invariant 2: "the new constraint must be a subset
// of the old"). Tighten does not itself validate subset-ness; callers
// check it against the existing bounds first.
func (v *FreeVar) Tighten(c Constraint) {
	v.constraint = c
}

// LowerLevel lowers the cell's level, never raises it (§3.4 invariant
// 3 / §8 invariant 7 "level monotonicity"). A request to raise the
// level is silently ignored.
func (v *FreeVar) LowerLevel(to Level) {
	if to < v.Level {
		v.Level = to
	}
}

package types

import (
	"fmt"
	"sync"

	"github.com/veylang/typecore/internal/ast"
)

// ContextKind distinguishes the declaration regions of §3.5.
type ContextKind int

const (
	KindModuleCtx ContextKind = iota
	KindFunctionCtx
	KindProcedureCtx
	KindClassBodyCtx
	KindTraitBodyCtx
	KindPatchCtx
	KindInstantCtx
)

func (k ContextKind) String() string {
	switch k {
	case KindModuleCtx:
		return "module"
	case KindFunctionCtx:
		return "function"
	case KindProcedureCtx:
		return "procedure"
	case KindClassBodyCtx:
		return "class"
	case KindTraitBodyCtx:
		return "trait"
	case KindPatchCtx:
		return "patch"
	case KindInstantCtx:
		return "instant"
	default:
		return "unknown"
	}
}

// BindingKind distinguishes how a local binding came to exist (§3.5).
type BindingKind int

const (
	BindParam BindingKind = iota
	BindDeclared
	BindDefined
	BindAutoGenerated
	BindDeleted
)

// Visibility marks a binding public or private, used by the
// visibility-aware attribute lookup supplement (SPEC_FULL.md item 2a).
type Visibility int

const (
	Public Visibility = iota
	Private
)

// Binding is one local name's stored information (§3.5).
type Binding struct {
	Type       Type
	Mutable    bool
	Visibility Visibility
	Kind       BindingKind
	Loc        ast.Span
}

// VarInfo is the result of finalizing a signature (§4.4 assign_subr):
// the name, its resolved type (possibly a *Quantified scheme after
// generalization), and the Binding it now lives under.
type VarInfo struct {
	Name    string
	Type    Type
	Binding *Binding
}

// GlueAdapter records a scoped, retroactive subtype declaration (§3.5,
// GLOSSARY): within the owning Context, values of BaseType are also
// subtypes of ImplementedTrait.
type GlueAdapter struct {
	AdapterName      string
	BaseType         Type
	ImplementedTrait Type
}

// SubtypeCache is the narrow interface Context needs from the
// process-wide cache (§3.5, §5 "Shared state"). The concrete
// implementation lives in internal/subtype, which depends on this
// package; Context only depends on the interface, avoiding an import
// cycle while still letting every Context reach the same cache.
type SubtypeCache interface {
	Get(sup, sub Type) (value bool, found bool)
	Put(sup, sub Type, value bool)
}

// levelCounter issues fresh free-variable levels for an entire Context
// tree. It is shared by pointer from the root down, matching §3.5's "a
// level counter used to issue fresh free-variable levels" — one counter
// per compilation unit, not one per Context.
type levelCounter struct {
	mu  sync.Mutex
	cur Level
}

func (lc *levelCounter) enter() Level {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.cur++
	return lc.cur
}

func (lc *levelCounter) exit() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.cur > 0 {
		lc.cur--
	}
}

func (lc *levelCounter) current() Level {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.cur
}

// Context is a lexical scope (§3.5). The leaf→root chain is exclusive
// ownership: a Context's Outer edge belongs to it alone, and the root
// module Context outlives every descendant.
type Context struct {
	QualifiedName string
	Kind          ContextKind
	Outer         *Context

	// PatchTarget is the base type a KindPatchCtx patches; Self inside a
	// patch body resolves to this, not to the patch's own name
	// (SPEC_FULL.md supplement 2).
	PatchTarget Type

	// SelfType is the type `Self` resolves to inside a KindClassBodyCtx
	// or KindTraitBodyCtx body: the exact MonoType/PolyType the
	// Registrar declared this context's name under in the enclosing
	// scope, kept here rather than rebuilt from QualifiedName so the two
	// never drift apart.
	SelfType Type

	locals map[string]*Binding
	consts map[string]TypeParam

	superClasses []Type
	superTraits  []Type

	// variances records explicit per-parameter variance declarations for
	// poly types defined in this context, keyed by the poly type's name.
	variances map[string][]Variance

	glueAdapters []GlueAdapter

	levels *levelCounter
	cache  SubtypeCache
}

// NewRootContext creates the outermost module Context, owning a fresh
// level counter and the process-wide subtype cache.
func NewRootContext(name string, cache SubtypeCache) *Context {
	return &Context{
		QualifiedName: name,
		Kind:          KindModuleCtx,
		locals:        make(map[string]*Binding),
		consts:        make(map[string]TypeParam),
		variances:     make(map[string][]Variance),
		levels:        &levelCounter{},
		cache:         cache,
	}
}

// NewChild creates a nested Context, inheriting the tree's level
// counter and subtype cache.
func (c *Context) NewChild(name string, kind ContextKind) *Context {
	return &Context{
		QualifiedName: qualify(c.QualifiedName, name),
		Kind:          kind,
		Outer:         c,
		locals:        make(map[string]*Binding),
		consts:        make(map[string]TypeParam),
		variances:     make(map[string][]Variance),
		levels:        c.levels,
		cache:         c.cache,
	}
}

func qualify(outer, name string) string {
	if outer == "" {
		return name
	}
	return outer + "." + name
}

// Cache returns the process-wide subtype cache reachable from this
// Context.
func (c *Context) Cache() SubtypeCache { return c.cache }

// EnterLevel/ExitLevel bracket a lexical region that should issue
// deeper free-variable levels than its enclosing one (§4.3's Normal
// instantiation mode deepens levels; PreRegister mode does not).
func (c *Context) EnterLevel() Level { return c.levels.enter() }
func (c *Context) ExitLevel()        { c.levels.exit() }
func (c *Context) CurrentLevel() Level { return c.levels.current() }

// Declare installs a new local binding. Redeclaring an existing symbol
// is an error unless the name is "_" (§4.4 pre_define_var).
func (c *Context) Declare(name string, b *Binding) error {
	if name == "_" {
		c.locals[name] = b
		return nil
	}
	if _, exists := c.locals[name]; exists {
		return fmt.Errorf("DuplicateDecl: %s already declared in %s", name, c.QualifiedName)
	}
	c.locals[name] = b
	return nil
}

// Redefine overwrites an existing binding (e.g. moving it from
// BindDeclared to BindDefined in assign_var_sig) without triggering the
// duplicate check.
func (c *Context) Redefine(name string, b *Binding) {
	c.locals[name] = b
}

// LookupLocal looks up a name in this Context only (no outward search).
func (c *Context) LookupLocal(name string) (*Binding, bool) {
	b, ok := c.locals[name]
	return b, ok
}

// LocalNames returns every name declared directly in this Context, in
// no particular order; callers that need deterministic output should
// sort the result themselves.
func (c *Context) LocalNames() []string {
	names := make([]string, 0, len(c.locals))
	for name := range c.locals {
		names = append(names, name)
	}
	return names
}

// Lookup searches this Context and its enclosing chain, returning the
// binding and the Context that owns it.
func (c *Context) Lookup(name string) (*Binding, *Context, bool) {
	for ctx := c; ctx != nil; ctx = ctx.Outer {
		if b, ok := ctx.locals[name]; ok {
			return b, ctx, true
		}
	}
	return nil, nil, false
}

// DefineConst / LookupConst manage compile-time constants (§3.5). Const
// definitions within one block must be processed in source order by
// the Registrar (§4.4's ordering guarantee); Context itself does not
// enforce ordering, only storage.
func (c *Context) DefineConst(name string, v TypeParam) { c.consts[name] = v }

func (c *Context) LookupConst(name string) (TypeParam, *Context, bool) {
	for ctx := c; ctx != nil; ctx = ctx.Outer {
		if v, ok := ctx.consts[name]; ok {
			return v, ctx, true
		}
	}
	return nil, nil, false
}

// AddSuperClass / AddSuperTrait record the local super lists consulted
// by the Subtype Oracle's nominal test (§4.1 phase 3).
func (c *Context) AddSuperClass(t Type) { c.superClasses = append(c.superClasses, t) }
func (c *Context) AddSuperTrait(t Type) { c.superTraits = append(c.superTraits, t) }

func (c *Context) SuperClasses() []Type { return c.superClasses }
func (c *Context) SuperTraits() []Type  { return c.superTraits }

// DeclareVariance records an explicit variance declaration for a poly
// type's parameter index.
func (c *Context) DeclareVariance(typeName string, index int, v Variance) {
	vs := c.variances[typeName]
	for len(vs) <= index {
		vs = append(vs, Invariant)
	}
	vs[index] = v
	c.variances[typeName] = vs
}

func (c *Context) VarianceOf(typeName string, index int) (Variance, bool) {
	vs, ok := c.variances[typeName]
	if !ok || index >= len(vs) {
		return Invariant, false
	}
	return vs[index], true
}

// RegisterGlueAdapter installs a scoped adapter (§4.4 register_trait_impl
// uses this for bidirectional association; arbitrary third-party glue
// adapters use it directly).
func (c *Context) RegisterGlueAdapter(adapterName string, base, trait Type) {
	c.glueAdapters = append(c.glueAdapters, GlueAdapter{
		AdapterName:      adapterName,
		BaseType:         base,
		ImplementedTrait: trait,
	})
}

// GlueAdaptersInScope walks the enclosing chain, yielding every glue
// adapter visible from this Context, outermost last-declared-wins order
// undone: adapters are returned innermost-context-first, matching how a
// nearer declaration should be tried before an outer one (§4.1 phase 3).
func (c *Context) GlueAdaptersInScope() []GlueAdapter {
	var all []GlueAdapter
	for ctx := c; ctx != nil; ctx = ctx.Outer {
		all = append(all, ctx.glueAdapters...)
	}
	return all
}

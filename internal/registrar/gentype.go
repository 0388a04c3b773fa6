package registrar

import (
	"fmt"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/instantiate"
	"github.com/veylang/typecore/internal/types"
)

// GenTypeKind distinguishes the five user-defined generator-object
// shapes register_gen_type installs (§4.4).
type GenTypeKind int

const (
	GenClass GenTypeKind = iota
	GenTrait
	GenPatch
	GenSubclass
	GenSubtrait
)

// GenTypeSpec is the surface shape handed to register_gen_type: a
// name, its kind, the types it extends (super classes/traits for a
// subclass/subtrait, or the single patched type for a patch), and
// whether the body defines a `__call__` method — callable-class sugar
// installs that instead of the ordinary `__new__` constructor.
type GenTypeSpec struct {
	Kind        GenTypeKind
	Name        string
	Extends     []ast.TypeSpec
	PatchTarget ast.TypeSpec
	HasCallSugar bool
	Loc         ast.Span
}

// RegisterGenType installs a user-defined class/trait/patch/subclass/
// subtrait: it constructs the nested context, populates the
// appropriate auto-method, and — for a subclass/subtrait — inherits
// the super contexts' nominal lists so the Subtype Oracle's nominal
// phase discovers the relationship without a separate registration
// step. Redefining an existing name is an error (§4.4).
func (r *Registrar) RegisterGenType(spec GenTypeSpec, ctx *types.Context) (*types.Context, *errors.Report) {
	childKind := types.KindClassBodyCtx
	if spec.Kind == GenTrait || spec.Kind == GenSubtrait {
		childKind = types.KindTraitBodyCtx
	}
	if spec.Kind == GenPatch {
		childKind = types.KindPatchCtx
	}
	child := ctx.NewChild(spec.Name, childKind)

	isTrait := spec.Kind == GenTrait || spec.Kind == GenSubtrait
	selfType := types.Type(&types.MonoType{Name: spec.Name, IsTrait: isTrait, DefinedIn: child})
	child.SelfType = selfType

	if spec.Kind == GenPatch {
		target, errs := r.ins.InstantiateTypeSpec(spec.PatchTarget, instantiate.PreRegister, instantiate.NewCache(), ctx)
		if len(errs) > 0 {
			return nil, errs[0]
		}
		child.PatchTarget = target
		selfType = target
		child.SelfType = target
	}

	for _, ext := range spec.Extends {
		superT, errs := r.ins.InstantiateTypeSpec(ext, instantiate.PreRegister, instantiate.NewCache(), ctx)
		if len(errs) > 0 {
			return nil, errs[0]
		}
		if isTrait {
			child.AddSuperTrait(superT)
		} else {
			child.AddSuperClass(superT)
		}
		if superMono, ok := superT.(*types.MonoType); ok && superMono.DefinedIn != nil {
			for _, sc := range superMono.DefinedIn.SuperClasses() {
				child.AddSuperClass(sc)
			}
			for _, st := range superMono.DefinedIn.SuperTraits() {
				child.AddSuperTrait(st)
			}
		}
	}

	if err := ctx.Declare(spec.Name, &types.Binding{Type: selfType, Kind: types.BindDefined, Loc: spec.Loc}); err != nil {
		return nil, errors.New("registrar", errors.DuplicateDecl, err.Error(), spanPtr(spec.Loc)).WithData("name", spec.Name)
	}

	if spec.Kind != GenTrait && spec.Kind != GenSubtrait {
		ctorName, ctor := autoConstructor(spec.Name, selfType, spec.HasCallSugar)
		child.Declare(ctorName, ctor)
	}

	return child, nil
}

// autoConstructor builds the class body's auto-generated constructor
// binding: `__call__` under callable-class sugar, `__new__` otherwise.
// Exactly one binding is returned; no separate `new` is installed.
func autoConstructor(className string, selfType types.Type, callSugar bool) (string, *types.Binding) {
	ctor := &types.Subroutine{
		Kind:   types.KindProc,
		Return: selfType,
	}
	name := "__new__"
	if callSugar {
		name = "__call__"
	}
	return name, &types.Binding{Type: ctor, Kind: types.BindAutoGenerated}
}

// RegisterTraitImpl installs a bidirectional association between a
// class and a trait it implements, so the Subtype Oracle's nominal
// phase discovers the link through the same glue-adapter path used for
// third-party retroactive impls (§4.4).
func (r *Registrar) RegisterTraitImpl(class, trait types.Type, ctx *types.Context) {
	name := fmt.Sprintf("%s:%s", class.String(), trait.String())
	ctx.RegisterGlueAdapter(name, class, trait)
}

// ResolveSelf resolves what `Self` refers to from ctx: a patch's own
// target type when ctx is (or is nested inside) a patch body, or the
// innermost enclosing class/trait body's own type otherwise (§4.4
// supplement 2 — patches resolve Self to the patched type, not to a
// synthetic patch type).
func ResolveSelf(ctx *types.Context) (types.Type, bool) {
	for c := ctx; c != nil; c = c.Outer {
		if c.Kind == types.KindPatchCtx && c.PatchTarget != nil {
			return c.PatchTarget, true
		}
		if (c.Kind == types.KindClassBodyCtx || c.Kind == types.KindTraitBodyCtx) && c.SelfType != nil {
			return c.SelfType, true
		}
	}
	return nil, false
}

// LookupAttr resolves a named attribute on a receiver type's defining
// context, honoring visibility: a Private binding is only reachable
// from within the defining context's own subtree (§4.4 supplement
// 2a). A visibility violation and a missing attribute both report
// NoAttr, matching the surface symptom a caller observes either way.
func LookupAttr(recv types.Type, name string, fromCtx *types.Context, loc ast.Span) (*types.Binding, *errors.Report) {
	mt, ok := recv.(*types.MonoType)
	if !ok || mt.DefinedIn == nil {
		return nil, errors.New("registrar", errors.NoAttr, "receiver has no attributes", spanPtr(loc)).WithData("attr", name)
	}
	b, ok := mt.DefinedIn.LookupLocal(name)
	if !ok {
		return nil, errors.New("registrar", errors.NoAttr, fmt.Sprintf("no attribute %q", name), spanPtr(loc)).WithData("attr", name)
	}
	if b.Visibility == types.Private && !withinSubtree(mt.DefinedIn, fromCtx) {
		return nil, errors.New("registrar", errors.NoAttr, fmt.Sprintf("attribute %q is private", name), spanPtr(loc)).WithData("attr", name)
	}
	return b, nil
}

func withinSubtree(owner, candidate *types.Context) bool {
	for c := candidate; c != nil; c = c.Outer {
		if c == owner {
			return true
		}
	}
	return false
}

package subtype

import (
	"sync"

	"github.com/veylang/typecore/internal/types"
)

// Cache is the process-wide subtype cache of §3.5 / §4.1 ("Results for
// ground pairs are memoized in the subtype cache keyed on (R, L)").
// It satisfies types.SubtypeCache so every Context in a compilation
// unit can share one instance without internal/types importing this
// package.
type Cache struct {
	mu sync.RWMutex
	m  map[pairKey]bool
}

type pairKey struct{ sup, sub string }

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{m: make(map[pairKey]bool)}
}

func (c *Cache) Get(sup, sub types.Type) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[pairKey{sup.String(), sub.String()}]
	return v, ok
}

func (c *Cache) Put(sup, sub types.Type, value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[pairKey{sup.String(), sub.String()}] = value
}

// isGround reports whether t contains no unlinked free variable, the
// precondition for safely memoizing a decision about it.
func isGround(t types.Type) bool {
	switch t := t.(type) {
	case *types.FreeVar:
		if t.IsUnbound() {
			return false
		}
		linked, ok := types.Crack(t)
		return ok && isGround(linked)
	case *types.Subroutine:
		for _, p := range t.NonDefaults {
			if !isGround(p.Type) {
				return false
			}
		}
		for _, p := range t.Defaults {
			if !isGround(p.Type) {
				return false
			}
		}
		if t.VarParam != nil && !isGround(t.VarParam.Type) {
			return false
		}
		if t.KwVarParam != nil && !isGround(t.KwVarParam.Type) {
			return false
		}
		return isGround(t.Return)
	case *types.Refinement:
		return isGround(t.Base)
	case *types.Union:
		return isGround(t.Left) && isGround(t.Right)
	case *types.Intersection:
		return isGround(t.Left) && isGround(t.Right)
	case *types.Complement:
		return isGround(t.Operand)
	case *types.Ref:
		return isGround(t.Elem)
	case *types.RefMut:
		return isGround(t.Elem)
	case *types.Projection:
		return isGround(t.Base)
	default:
		return true
	}
}

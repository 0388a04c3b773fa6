package instantiate

import "github.com/veylang/typecore/internal/types"

// Cache is the per-signature type-variable cache of §4.3: every
// quantified surface name used inside one signature's bounds and body
// must mint exactly one FreeVar, shared across every occurrence.
// Names is kept in first-seen order so a caller generalizing the
// signature afterward (internal/registrar's assign_subr) can emit
// QBounds in source order rather than Go's unordered map iteration.
type Cache struct {
	vars  map[string]*types.FreeVar
	names []string
}

// NewCache builds an empty type-variable cache for one signature.
func NewCache() *Cache {
	return &Cache{vars: make(map[string]*types.FreeVar)}
}

// Lookup returns the cached variable for name, if one has been minted.
func (c *Cache) Lookup(name string) (*types.FreeVar, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// GetOrMint returns the cached variable for name, minting a fresh one
// at the given level with the given constraint if this is the first
// occurrence.
func (c *Cache) GetOrMint(name string, level types.Level, constraint types.Constraint) *types.FreeVar {
	if v, ok := c.vars[name]; ok {
		return v
	}
	v := types.NewFreeVar(level, name, constraint)
	c.vars[name] = v
	c.names = append(c.names, name)
	return v
}

// Names returns every surface name minted so far, in first-seen order.
func (c *Cache) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len reports how many distinct names have been minted.
func (c *Cache) Len() int { return len(c.names) }

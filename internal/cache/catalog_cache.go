package cache

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/inmovalia/catalogo/internal/catalog/domain"
)

// CatalogCache holds the merged catalog snapshot per tenant. Snapshots are
// only ever replaced wholesale, so readers never observe a mix of pre- and
// post-mutation state for the same kind.
//
// A fetch registers a generation before hitting storage; a snapshot is only
// accepted if no newer fetch started for that tenant in the meantime, so a
// superseded fetch that completes late is discarded.
type CatalogCache struct {
	mu        sync.RWMutex
	snapshots map[snowflake.ID]catalogdomain.Catalogs
	gens      map[snowflake.ID]uint64
}

func NewCatalogCache() *CatalogCache {
	return &CatalogCache{
		snapshots: make(map[snowflake.ID]catalogdomain.Catalogs),
		gens:      make(map[snowflake.ID]uint64),
	}
}

// Begin marks the start of a fetch for the tenant and returns its generation.
func (c *CatalogCache) Begin(tenantID snowflake.ID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[tenantID]++
	return c.gens[tenantID]
}

// Complete stores the snapshot if gen is still the latest fetch for the
// tenant. It reports whether the snapshot was accepted.
func (c *CatalogCache) Complete(tenantID snowflake.ID, gen uint64, snapshot catalogdomain.Catalogs) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[tenantID] != gen {
		return false
	}
	c.snapshots[tenantID] = snapshot
	return true
}

// Get returns the tenant's current snapshot, if any.
func (c *CatalogCache) Get(tenantID snowflake.ID) (catalogdomain.Catalogs, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot, ok := c.snapshots[tenantID]
	return snapshot, ok
}

// Invalidate drops the tenant's snapshot. In-flight fetches begun before the
// invalidation will be rejected on Complete.
func (c *CatalogCache) Invalidate(tenantID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, tenantID)
	c.gens[tenantID]++
}

package cache

import (
	"testing"

	"github.com/bwmarrin/snowflake"

	catalogdomain "github.com/inmovalia/catalogo/internal/catalog/domain"
)

func TestCatalogCacheStoresLatestGeneration(t *testing.T) {
	c := NewCatalogCache()
	tenantID := snowflake.ID(1001)

	gen := c.Begin(tenantID)
	snapshot := catalogdomain.Catalogs{
		catalogdomain.KindContactType: {{Code: "cliente"}},
	}
	if !c.Complete(tenantID, gen, snapshot) {
		t.Fatalf("current generation must be accepted")
	}

	got, ok := c.Get(tenantID)
	if !ok {
		t.Fatalf("expected snapshot present")
	}
	if len(got[catalogdomain.KindContactType]) != 1 {
		t.Fatalf("unexpected snapshot content: %+v", got)
	}
}

func TestCatalogCacheDiscardsSupersededFetch(t *testing.T) {
	c := NewCatalogCache()
	tenantID := snowflake.ID(1002)

	stale := c.Begin(tenantID)
	fresh := c.Begin(tenantID)

	freshSnapshot := catalogdomain.Catalogs{
		catalogdomain.KindAmenity: {{Code: "wifi", Active: false}},
	}
	if !c.Complete(tenantID, fresh, freshSnapshot) {
		t.Fatalf("latest fetch must be accepted")
	}

	// The older fetch finishes late; its snapshot must not clobber the
	// newer one.
	staleSnapshot := catalogdomain.Catalogs{
		catalogdomain.KindAmenity: {{Code: "wifi", Active: true}},
	}
	if c.Complete(tenantID, stale, staleSnapshot) {
		t.Fatalf("superseded fetch must be rejected")
	}

	got, _ := c.Get(tenantID)
	if got[catalogdomain.KindAmenity][0].Active {
		t.Fatalf("stale snapshot overwrote the fresh one")
	}
}

func TestCatalogCacheInvalidateRejectsInFlightFetch(t *testing.T) {
	c := NewCatalogCache()
	tenantID := snowflake.ID(1003)

	gen := c.Begin(tenantID)
	c.Invalidate(tenantID)

	if c.Complete(tenantID, gen, catalogdomain.Catalogs{}) {
		t.Fatalf("fetch begun before invalidation must be rejected")
	}
	if _, ok := c.Get(tenantID); ok {
		t.Fatalf("invalidate must drop the snapshot")
	}
}

func TestCatalogCacheIsolatesTenants(t *testing.T) {
	c := NewCatalogCache()
	a := snowflake.ID(2001)
	b := snowflake.ID(2002)

	genA := c.Begin(a)
	c.Complete(a, genA, catalogdomain.Catalogs{})

	c.Invalidate(b)

	if _, ok := c.Get(a); !ok {
		t.Fatalf("tenant A snapshot must survive tenant B invalidation")
	}
}

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/inmovalia/catalogo/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStoreDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&CatalogItem{}, &ActivationOverride{}, &Amenity{}, &OperationType{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func TestActivationUpsertIsIdempotentPerScope(t *testing.T) {
	db, node := setupStoreDB(t)
	repo := NewActivationRepository()
	ctx := context.Background()

	tenantID := node.Generate()

	first := &ActivationOverride{
		ID:       node.Generate(),
		TenantID: tenantID,
		Kind:     domain.KindAmenity,
		Code:     "wifi",
		Active:   false,
	}
	require.NoError(t, repo.Upsert(ctx, db, first))

	// Same tenant, kind and code flips the stored row instead of adding one.
	second := &ActivationOverride{
		ID:       node.Generate(),
		TenantID: tenantID,
		Kind:     domain.KindAmenity,
		Code:     "wifi",
		Active:   true,
	}
	require.NoError(t, repo.Upsert(ctx, db, second))

	rows, err := repo.ListForTenant(ctx, db, tenantID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Active)
	assert.Equal(t, "wifi", rows[0].Code)
}

func TestActivationOverridesAreScopedToTenant(t *testing.T) {
	db, node := setupStoreDB(t)
	repo := NewActivationRepository()
	ctx := context.Background()

	tenantA := node.Generate()
	tenantB := node.Generate()

	require.NoError(t, repo.Upsert(ctx, db, &ActivationOverride{
		ID:       node.Generate(),
		TenantID: tenantA,
		Kind:     domain.KindAmenity,
		Code:     "piscina",
		Active:   false,
	}))

	rowsA, err := repo.ListForTenant(ctx, db, tenantA)
	require.NoError(t, err)
	assert.Len(t, rowsA, 1)

	rowsB, err := repo.ListForTenant(ctx, db, tenantB)
	require.NoError(t, err)
	assert.Empty(t, rowsB)
}

func TestUnifiedStoreVisibility(t *testing.T) {
	db, node := setupStoreDB(t)
	st := unifiedStore{}
	ctx := context.Background()

	tenantA := node.Generate()
	tenantB := node.Generate()

	global := Record{
		ID:     node.Generate(),
		Kind:   domain.KindContactType,
		Code:   "cliente",
		Name:   "Cliente",
		Active: true,
	}
	require.NoError(t, st.Create(ctx, db, &global))

	owned := Record{
		ID:       node.Generate(),
		TenantID: &tenantA,
		Kind:     domain.KindContactType,
		Code:     "inversionista",
		Name:     "Inversionista",
		Active:   true,
	}
	require.NoError(t, st.Create(ctx, db, &owned))

	recsA, err := st.List(ctx, db, tenantA, domain.KindContactType, true)
	require.NoError(t, err)
	assert.Len(t, recsA, 2)

	recsB, err := st.List(ctx, db, tenantB, domain.KindContactType, true)
	require.NoError(t, err)
	require.Len(t, recsB, 1)
	assert.Equal(t, "cliente", recsB[0].Code)
	assert.Equal(t, domain.OriginGlobal, recsB[0].Origin())

	// Deletes are tenant-scoped; a tenant cannot reach the global row.
	require.NoError(t, st.Delete(ctx, db, tenantA, domain.KindContactType, global.ID))
	recsA, err = st.List(ctx, db, tenantA, domain.KindContactType, true)
	require.NoError(t, err)
	assert.Len(t, recsA, 2)
}

func TestDomainTablesMigrateSharedColumns(t *testing.T) {
	db, _ := setupStoreDB(t)

	// The shared columns live on an embedded struct; they must land in every
	// dedicated table, not just the fields declared on the outer model.
	migrator := db.Migrator()
	for _, column := range []string{"id", "tenant_id", "code", "name", "active", "sort_order", "is_default", "translations", "slug_translations"} {
		assert.True(t, migrator.HasColumn(&OperationType{}, column), "operation_types missing column %s", column)
		assert.True(t, migrator.HasColumn(&Amenity{}, column), "amenities missing column %s", column)
	}
	assert.True(t, migrator.HasColumn(&Amenity{}, "category"))
}

func TestStoresPersistExplicitInactive(t *testing.T) {
	db, node := setupStoreDB(t)
	ctx := context.Background()
	tenantID := node.Generate()

	unified := unifiedStore{}
	pending := Record{
		ID:       node.Generate(),
		TenantID: &tenantID,
		Kind:     domain.KindContactType,
		Code:     "pendiente",
		Name:     "Pendiente",
		Active:   false,
	}
	require.NoError(t, unified.Create(ctx, db, &pending))

	recs, err := unified.List(ctx, db, tenantID, domain.KindContactType, true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Active, "explicit inactive create must not be promoted to active")

	separate := separateStore{}
	amenity := Record{
		ID:       node.Generate(),
		TenantID: &tenantID,
		Kind:     domain.KindAmenity,
		Code:     "sauna",
		Name:     "Sauna",
		Active:   false,
	}
	require.NoError(t, separate.Create(ctx, db, &amenity))

	got, err := separate.Get(ctx, db, tenantID, domain.KindAmenity, amenity.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Active)

	repo := NewActivationRepository()
	require.NoError(t, repo.Upsert(ctx, db, &ActivationOverride{
		ID:       node.Generate(),
		TenantID: tenantID,
		Kind:     domain.KindAmenity,
		Code:     "wifi",
		Active:   false,
	}))
	rows, err := repo.ListForTenant(ctx, db, tenantID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Active, "an off override must be stored off")
}

func TestSeparateStoreRoundTripsExtraColumns(t *testing.T) {
	db, node := setupStoreDB(t)
	st := separateStore{}
	ctx := context.Background()

	tenantID := node.Generate()
	category := "recreativa"

	rec := Record{
		ID:       node.Generate(),
		TenantID: &tenantID,
		Kind:     domain.KindAmenity,
		Code:     "piscina",
		Name:     "Piscina",
		Active:   true,
		Extra:    map[string]any{"category": category},
	}
	require.NoError(t, st.Create(ctx, db, &rec))

	got, err := st.Get(ctx, db, tenantID, domain.KindAmenity, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "piscina", got.Code)
	require.NotNil(t, got.Extra)
	assert.Equal(t, category, got.Extra["category"])
}

package store

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/inmovalia/catalogo/internal/catalog/domain"
	"github.com/inmovalia/catalogo/internal/translation"
	"gorm.io/gorm"
)

// Record is the storage-neutral shape of one catalog row. Both backends map
// their tables onto it; columns specific to one domain table travel in Extra
// without the contract interpreting them.
type Record struct {
	ID          snowflake.ID
	TenantID    *snowflake.ID
	Kind        domain.Kind
	Code        string
	Name        string
	NamePlural  *string
	Description *string
	Icon        *string
	Color       *string
	SortOrder   int
	Active      bool
	IsDefault   bool

	Config           map[string]any
	Translations     translation.Map
	SlugTranslations map[string]string
	Extra            map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Origin derives the record origin from its tenant reference.
func (r Record) Origin() domain.Origin {
	if r.TenantID == nil {
		return domain.OriginGlobal
	}
	return domain.OriginTenant
}

// Store is the uniform contract over both storage strategies. List and Get
// return the rows visible to the tenant: global rows plus the tenant's own.
// The includeInactive flag filters on the stored active column; per-tenant
// activation overrides are layered on by the resolver.
type Store interface {
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, includeInactive bool) ([]Record, error)
	Get(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, id snowflake.ID) (*Record, error)
	Create(ctx context.Context, db *gorm.DB, rec *Record) error
	Update(ctx context.Context, db *gorm.DB, rec *Record) error
	Delete(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, id snowflake.ID) error
	Count(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, active *bool) (int64, error)
}

// Provider selects the backing store for a kind from its static metadata.
type Provider struct {
	unified  Store
	separate Store
}

func NewProvider() *Provider {
	return &Provider{
		unified:  &unifiedStore{},
		separate: &separateStore{},
	}
}

// ForKind returns the store backing the given kind.
func (p *Provider) ForKind(kind domain.Kind) (Store, error) {
	meta, ok := domain.MetaFor(kind)
	if !ok {
		return nil, domain.ErrUnknownKind
	}
	if meta.Storage == domain.StorageSeparate {
		return p.separate, nil
	}
	return p.unified, nil
}

func visibleScope(db *gorm.DB, tenantID snowflake.ID) *gorm.DB {
	return db.Where("tenant_id IS NULL OR tenant_id = ?", tenantID)
}

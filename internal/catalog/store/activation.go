package store

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/inmovalia/catalogo/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivationOverride records whether a global item is active for one tenant.
// Global rows are never mutated by tenant-facing operations; toggling a
// global item upserts a row here instead.
type ActivationOverride struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex:ux_catalog_activations,priority:1"`
	Kind     domain.Kind  `gorm:"type:text;not null;uniqueIndex:ux_catalog_activations,priority:2"`
	Code     string       `gorm:"type:text;not null;uniqueIndex:ux_catalog_activations,priority:3"`
	Active   bool         `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ActivationOverride) TableName() string { return "catalog_activations" }

// ActivationRepository persists per-tenant activation overrides.
type ActivationRepository interface {
	ListForTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]ActivationOverride, error)
	Upsert(ctx context.Context, db *gorm.DB, override *ActivationOverride) error
}

type activationRepo struct{}

func NewActivationRepository() ActivationRepository {
	return &activationRepo{}
}

func (r *activationRepo) ListForTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]ActivationOverride, error) {
	var rows []ActivationOverride
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activationRepo) Upsert(ctx context.Context, db *gorm.DB, override *ActivationOverride) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"},
			{Name: "kind"},
			{Name: "code"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"active", "updated_at"}),
	}).Create(override).Error
}

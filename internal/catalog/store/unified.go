package store

import (
	"context"
	"errors"

	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/inmovalia/catalogo/internal/catalog/domain"
	"github.com/inmovalia/catalogo/internal/translation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogItem is the polymorphic unified table. Rows for every unified kind
// share it, discriminated by the kind column; a NULL tenant_id marks a global
// system default.
type CatalogItem struct {
	ID          snowflake.ID  `gorm:"primaryKey"`
	TenantID    *snowflake.ID `gorm:"column:tenant_id;index:ix_catalog_items_scope,priority:1"`
	Kind        domain.Kind   `gorm:"type:text;not null;index:ix_catalog_items_scope,priority:2"`
	Code        string        `gorm:"type:text;not null;index:ix_catalog_items_scope,priority:3"`
	Name        string        `gorm:"type:text;not null"`
	NamePlural  *string       `gorm:"column:name_plural;type:text"`
	Description *string       `gorm:"type:text"`
	Icon        *string       `gorm:"type:text"`
	Color       *string       `gorm:"type:text"`
	SortOrder   int           `gorm:"column:sort_order;not null;default:0"`
	// No column default on Active: gorm substitutes the default for an
	// explicit false on create, which would resurrect toggled-off items.
	Active    bool `gorm:"not null"`
	IsDefault bool `gorm:"column:is_default;not null;default:false"`

	Config       datatypes.JSONMap                   `gorm:"type:jsonb"`
	Translations datatypes.JSONType[translation.Map] `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CatalogItem) TableName() string { return "catalog_items" }

func (m CatalogItem) record() Record {
	return Record{
		ID:           m.ID,
		TenantID:     m.TenantID,
		Kind:         m.Kind,
		Code:         m.Code,
		Name:         m.Name,
		NamePlural:   m.NamePlural,
		Description:  m.Description,
		Icon:         m.Icon,
		Color:        m.Color,
		SortOrder:    m.SortOrder,
		Active:       m.Active,
		IsDefault:    m.IsDefault,
		Config:       map[string]any(m.Config),
		Translations: m.Translations.Data(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func catalogItemFromRecord(rec Record) CatalogItem {
	item := CatalogItem{
		ID:          rec.ID,
		TenantID:    rec.TenantID,
		Kind:        rec.Kind,
		Code:        rec.Code,
		Name:        rec.Name,
		NamePlural:  rec.NamePlural,
		Description: rec.Description,
		Icon:        rec.Icon,
		Color:       rec.Color,
		SortOrder:   rec.SortOrder,
		Active:      rec.Active,
		IsDefault:   rec.IsDefault,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.Config != nil {
		item.Config = datatypes.JSONMap(rec.Config)
	}
	if rec.Translations != nil {
		item.Translations = datatypes.NewJSONType(rec.Translations)
	}
	return item
}

type unifiedStore struct{}

func (s *unifiedStore) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, includeInactive bool) ([]Record, error) {
	stmt := visibleScope(db.WithContext(ctx).Model(&CatalogItem{}), tenantID).
		Where("kind = ?", kind)
	if !includeInactive {
		stmt = stmt.Where("active = ?", true)
	}

	var rows []CatalogItem
	if err := stmt.Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs, nil
}

func (s *unifiedStore) Get(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, id snowflake.ID) (*Record, error) {
	var row CatalogItem
	err := visibleScope(db.WithContext(ctx), tenantID).
		Where("kind = ? AND id = ?", kind, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	rec := row.record()
	return &rec, nil
}

func (s *unifiedStore) Create(ctx context.Context, db *gorm.DB, rec *Record) error {
	row := catalogItemFromRecord(*rec)
	return db.WithContext(ctx).Create(&row).Error
}

func (s *unifiedStore) Update(ctx context.Context, db *gorm.DB, rec *Record) error {
	row := catalogItemFromRecord(*rec)
	return db.WithContext(ctx).Save(&row).Error
}

func (s *unifiedStore) Delete(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND kind = ? AND id = ?", tenantID, kind, id).
		Delete(&CatalogItem{}).Error
}

func (s *unifiedStore) Count(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, active *bool) (int64, error) {
	stmt := visibleScope(db.WithContext(ctx).Model(&CatalogItem{}), tenantID).
		Where("kind = ?", kind)
	if active != nil {
		stmt = stmt.Where("active = ?", *active)
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

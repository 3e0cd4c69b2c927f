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

// TaxonomyColumns are the contract-guaranteed columns every dedicated domain
// table carries. Each table adds its own columns on top.
type TaxonomyColumns struct {
	ID          snowflake.ID  `gorm:"primaryKey"`
	TenantID    *snowflake.ID `gorm:"column:tenant_id;index"`
	Code        string        `gorm:"type:text;not null"`
	Name        string        `gorm:"type:text;not null"`
	Description *string       `gorm:"type:text"`
	Icon        *string       `gorm:"type:text"`
	Color       *string       `gorm:"type:text"`
	SortOrder   int           `gorm:"column:sort_order;not null;default:0"`
	// No column default on Active, so an explicit false survives create.
	Active    bool `gorm:"not null"`
	IsDefault bool `gorm:"column:is_default;not null;default:false"`

	Translations     datatypes.JSONType[translation.Map]   `gorm:"type:jsonb"`
	SlugTranslations datatypes.JSONType[map[string]string] `gorm:"column:slug_translations;type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (c TaxonomyColumns) record(kind domain.Kind) Record {
	return Record{
		ID:               c.ID,
		TenantID:         c.TenantID,
		Kind:             kind,
		Code:             c.Code,
		Name:             c.Name,
		Description:      c.Description,
		Icon:             c.Icon,
		Color:            c.Color,
		SortOrder:        c.SortOrder,
		Active:           c.Active,
		IsDefault:        c.IsDefault,
		Translations:     c.Translations.Data(),
		SlugTranslations: c.SlugTranslations.Data(),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func taxonomyFromRecord(rec Record) TaxonomyColumns {
	cols := TaxonomyColumns{
		ID:          rec.ID,
		TenantID:    rec.TenantID,
		Code:        rec.Code,
		Name:        rec.Name,
		Description: rec.Description,
		Icon:        rec.Icon,
		Color:       rec.Color,
		SortOrder:   rec.SortOrder,
		Active:      rec.Active,
		IsDefault:   rec.IsDefault,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.Translations != nil {
		cols.Translations = datatypes.NewJSONType(rec.Translations)
	}
	if rec.SlugTranslations != nil {
		cols.SlugTranslations = datatypes.NewJSONType(rec.SlugTranslations)
	}
	return cols
}

// PropertyType also carries a coarse category used by listing filters on the
// public site (residential, commercial, land).
type PropertyType struct {
	TaxonomyColumns
	NamePlural *string `gorm:"column:name_plural;type:text"`
	Category   *string `gorm:"type:text"`
}

func (PropertyType) TableName() string { return "property_types" }

type OperationType struct {
	TaxonomyColumns
}

func (OperationType) TableName() string { return "operation_types" }

type SaleStatus struct {
	TaxonomyColumns
}

func (SaleStatus) TableName() string { return "sale_statuses" }

// Amenity is approval-gated: tenant-created rows start inactive until a
// tenant admin approves them.
type Amenity struct {
	TaxonomyColumns
	Category *string `gorm:"type:text"`
}

func (Amenity) TableName() string { return "amenities" }

// ContactExtension defines an extra attribute tenants attach to contacts.
type ContactExtension struct {
	TaxonomyColumns
	DataType string `gorm:"column:data_type;type:text;not null;default:'text'"`
}

func (ContactExtension) TableName() string { return "contact_extensions" }

type LeadSource struct {
	TaxonomyColumns
}

func (LeadSource) TableName() string { return "lead_sources" }

const (
	extraCategory = "category"
	extraDataType = "data_type"
)

func (m PropertyType) record() Record {
	rec := m.TaxonomyColumns.record(domain.KindPropertyType)
	rec.NamePlural = m.NamePlural
	if m.Category != nil {
		rec.Extra = map[string]any{extraCategory: *m.Category}
	}
	return rec
}

func (m OperationType) record() Record {
	return m.TaxonomyColumns.record(domain.KindOperationType)
}

func (m SaleStatus) record() Record {
	return m.TaxonomyColumns.record(domain.KindSaleStatus)
}

func (m Amenity) record() Record {
	rec := m.TaxonomyColumns.record(domain.KindAmenity)
	if m.Category != nil {
		rec.Extra = map[string]any{extraCategory: *m.Category}
	}
	return rec
}

func (m ContactExtension) record() Record {
	rec := m.TaxonomyColumns.record(domain.KindContactExtension)
	rec.Extra = map[string]any{extraDataType: m.DataType}
	return rec
}

func (m LeadSource) record() Record {
	return m.TaxonomyColumns.record(domain.KindLeadSource)
}

func extraString(extra map[string]any, key string) *string {
	if extra == nil {
		return nil
	}
	value, ok := extra[key].(string)
	if !ok || value == "" {
		return nil
	}
	return &value
}

type separateStore struct{}

type row interface {
	record() Record
}

func listRows[M row](ctx context.Context, db *gorm.DB, tenantID snowflake.ID, includeInactive bool) ([]Record, error) {
	stmt := visibleScope(db.WithContext(ctx).Model(new(M)), tenantID)
	if !includeInactive {
		stmt = stmt.Where("active = ?", true)
	}

	var rows []M
	if err := stmt.Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	recs := make([]Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.record())
	}
	return recs, nil
}

func getRow[M row](ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Record, error) {
	var r M
	err := visibleScope(db.WithContext(ctx), tenantID).
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	rec := r.record()
	return &rec, nil
}

func deleteRow[M any](ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(new(M)).Error
}

func countRows[M any](ctx context.Context, db *gorm.DB, tenantID snowflake.ID, active *bool) (int64, error) {
	stmt := visibleScope(db.WithContext(ctx).Model(new(M)), tenantID)
	if active != nil {
		stmt = stmt.Where("active = ?", *active)
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *separateStore) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, includeInactive bool) ([]Record, error) {
	switch kind {
	case domain.KindPropertyType:
		return listRows[PropertyType](ctx, db, tenantID, includeInactive)
	case domain.KindOperationType:
		return listRows[OperationType](ctx, db, tenantID, includeInactive)
	case domain.KindSaleStatus:
		return listRows[SaleStatus](ctx, db, tenantID, includeInactive)
	case domain.KindAmenity:
		return listRows[Amenity](ctx, db, tenantID, includeInactive)
	case domain.KindContactExtension:
		return listRows[ContactExtension](ctx, db, tenantID, includeInactive)
	case domain.KindLeadSource:
		return listRows[LeadSource](ctx, db, tenantID, includeInactive)
	default:
		return nil, domain.ErrUnknownKind
	}
}

func (s *separateStore) Get(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, id snowflake.ID) (*Record, error) {
	switch kind {
	case domain.KindPropertyType:
		return getRow[PropertyType](ctx, db, tenantID, id)
	case domain.KindOperationType:
		return getRow[OperationType](ctx, db, tenantID, id)
	case domain.KindSaleStatus:
		return getRow[SaleStatus](ctx, db, tenantID, id)
	case domain.KindAmenity:
		return getRow[Amenity](ctx, db, tenantID, id)
	case domain.KindContactExtension:
		return getRow[ContactExtension](ctx, db, tenantID, id)
	case domain.KindLeadSource:
		return getRow[LeadSource](ctx, db, tenantID, id)
	default:
		return nil, domain.ErrUnknownKind
	}
}

func (s *separateStore) Create(ctx context.Context, db *gorm.DB, rec *Record) error {
	model, err := modelFromRecord(*rec)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(model).Error
}

func (s *separateStore) Update(ctx context.Context, db *gorm.DB, rec *Record) error {
	model, err := modelFromRecord(*rec)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Save(model).Error
}

func (s *separateStore) Delete(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, id snowflake.ID) error {
	switch kind {
	case domain.KindPropertyType:
		return deleteRow[PropertyType](ctx, db, tenantID, id)
	case domain.KindOperationType:
		return deleteRow[OperationType](ctx, db, tenantID, id)
	case domain.KindSaleStatus:
		return deleteRow[SaleStatus](ctx, db, tenantID, id)
	case domain.KindAmenity:
		return deleteRow[Amenity](ctx, db, tenantID, id)
	case domain.KindContactExtension:
		return deleteRow[ContactExtension](ctx, db, tenantID, id)
	case domain.KindLeadSource:
		return deleteRow[LeadSource](ctx, db, tenantID, id)
	default:
		return domain.ErrUnknownKind
	}
}

func (s *separateStore) Count(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, kind domain.Kind, active *bool) (int64, error) {
	switch kind {
	case domain.KindPropertyType:
		return countRows[PropertyType](ctx, db, tenantID, active)
	case domain.KindOperationType:
		return countRows[OperationType](ctx, db, tenantID, active)
	case domain.KindSaleStatus:
		return countRows[SaleStatus](ctx, db, tenantID, active)
	case domain.KindAmenity:
		return countRows[Amenity](ctx, db, tenantID, active)
	case domain.KindContactExtension:
		return countRows[ContactExtension](ctx, db, tenantID, active)
	case domain.KindLeadSource:
		return countRows[LeadSource](ctx, db, tenantID, active)
	default:
		return 0, domain.ErrUnknownKind
	}
}

func modelFromRecord(rec Record) (any, error) {
	switch rec.Kind {
	case domain.KindPropertyType:
		m := PropertyType{
			TaxonomyColumns: taxonomyFromRecord(rec),
			NamePlural:      rec.NamePlural,
			Category:        extraString(rec.Extra, extraCategory),
		}
		return &m, nil
	case domain.KindOperationType:
		m := OperationType{TaxonomyColumns: taxonomyFromRecord(rec)}
		return &m, nil
	case domain.KindSaleStatus:
		m := SaleStatus{TaxonomyColumns: taxonomyFromRecord(rec)}
		return &m, nil
	case domain.KindAmenity:
		m := Amenity{
			TaxonomyColumns: taxonomyFromRecord(rec),
			Category:        extraString(rec.Extra, extraCategory),
		}
		return &m, nil
	case domain.KindContactExtension:
		m := ContactExtension{TaxonomyColumns: taxonomyFromRecord(rec), DataType: "text"}
		if dataType := extraString(rec.Extra, extraDataType); dataType != nil {
			m.DataType = *dataType
		}
		return &m, nil
	case domain.KindLeadSource:
		m := LeadSource{TaxonomyColumns: taxonomyFromRecord(rec)}
		return &m, nil
	default:
		return nil, domain.ErrUnknownKind
	}
}

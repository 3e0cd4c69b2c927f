package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is one CRM organization. Catalog rows with a NULL tenant reference
// are global defaults shared by every tenant.
type Tenant struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`
	Slug string       `gorm:"type:text;not null;uniqueIndex:ux_tenants_slug"`

	// DefaultLocale is the base locale: canonical item fields are written in
	// it and it is never stored inside a translations map.
	DefaultLocale  string  `gorm:"column:default_locale;type:text;not null;default:'es'"`
	FallbackLocale *string `gorm:"column:fallback_locale;type:text"`

	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Tenant) TableName() string { return "tenants" }

// Locale is one enabled locale of a tenant, in display order. The locale set
// is data, not a hardcoded enum.
type Locale struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex:ux_tenant_locales,priority:1"`
	Code      string       `gorm:"type:text;not null;uniqueIndex:ux_tenant_locales,priority:2"`
	Name      string       `gorm:"type:text;not null"`
	Position  int          `gorm:"not null;default:0"`
	IsDefault bool         `gorm:"column:is_default;not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Locale) TableName() string { return "tenant_locales" }

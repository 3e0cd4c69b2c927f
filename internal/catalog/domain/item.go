package domain

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/inmovalia/catalogo/internal/translation"
)

// Origin tells whether an item is a system default or tenant-owned. It is
// derived from the tenant reference and never persisted.
type Origin string

const (
	OriginGlobal Origin = "global"
	OriginTenant Origin = "tenant"
)

// Item is the resolved view of one catalog entry, identical for unified and
// separate storage. Domain-specific columns of separate tables ride along in
// Extra without the resolver interpreting them.
type Item struct {
	ID          string  `json:"id"`
	TenantID    *string `json:"tenant_id,omitempty"`
	Kind        Kind    `json:"kind"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	NamePlural  *string `json:"name_plural,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	SortOrder   int     `json:"sort_order"`
	Active      bool    `json:"active"`
	IsDefault   bool    `json:"is_default"`
	Origin      Origin  `json:"origin"`

	Config           map[string]any    `json:"config,omitempty"`
	Translations     translation.Map   `json:"translations,omitempty"`
	SlugTranslations map[string]string `json:"slug_translations,omitempty"`
	Extra            map[string]any    `json:"extra,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName resolves the item name for a locale through the translation
// overlay. The canonical name never resolves to blank.
func (i Item) DisplayName(locale, fallbackLocale string) string {
	return translation.Resolve(i.Translations, translation.FieldName, locale, fallbackLocale, i.Name)
}

// DisplayDescription resolves the item description for a locale.
func (i Item) DisplayDescription(locale, fallbackLocale string) string {
	canonical := ""
	if i.Description != nil {
		canonical = *i.Description
	}
	return translation.Resolve(i.Translations, translation.FieldDescription, locale, fallbackLocale, canonical)
}

// Catalogs is the merged per-kind view a tenant sees.
type Catalogs map[Kind][]Item

// DeriveCode builds a machine code from a display name: lowercased, accents
// stripped, word separators collapsed to underscores.
func DeriveCode(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

package domain

import (
	"context"
	"errors"

	"github.com/inmovalia/catalogo/internal/translation"
)

// Service is the catalog resolver: the merged per-tenant view over both
// storage backends plus the tenant-facing mutation contract.
//
// The active tenant is carried in ctx. Reads other than FetchAll and List are
// served from the tenant's cached snapshot and never hit storage; every
// successful mutation replaces the snapshot wholesale before returning.
type Service interface {
	// FetchAll loads and caches the merged catalogs for the tenant in ctx.
	// Without a tenant in scope it returns an empty mapping. On storage
	// failure the previous snapshot is kept.
	FetchAll(ctx context.Context) (Catalogs, error)

	// List reads one kind from storage, optionally including inactive items.
	List(ctx context.Context, kind Kind, includeInactive bool) ([]Item, error)

	GetByCode(ctx context.Context, kind Kind, code string) (*Item, bool)
	GetByID(ctx context.Context, id string) (*Item, bool)
	GetDefault(ctx context.Context, kind Kind) (*Item, bool)

	Create(ctx context.Context, kind Kind, req CreateRequest) (*Item, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Item, error)
	Delete(ctx context.Context, id string) error

	// Toggle flips per-tenant visibility. For global items it writes an
	// activation override row; the global row itself is never touched.
	Toggle(ctx context.Context, kind Kind, code string, active bool) (*Item, error)

	// Counts returns per-kind item counts for the separate-store kinds.
	Counts(ctx context.Context) (map[Kind]int64, error)

	// InactiveCount counts hidden items of a kind without loading them.
	InactiveCount(ctx context.Context, kind Kind) (int64, error)
}

// CreateRequest carries the tenant-supplied fields for a new item. Code is
// derived from Name when absent.
type CreateRequest struct {
	Code             string            `json:"code"`
	Name             string            `json:"name"`
	NamePlural       *string           `json:"name_plural"`
	Description      *string           `json:"description"`
	Icon             *string           `json:"icon"`
	Color            *string           `json:"color"`
	SortOrder        *int              `json:"sort_order"`
	Active           *bool             `json:"active"`
	IsDefault        *bool             `json:"is_default"`
	Config           map[string]any    `json:"config"`
	Translations     translation.Map   `json:"translations"`
	SlugTranslations map[string]string `json:"slug_translations"`
	Extra            map[string]any    `json:"extra"`
}

// UpdateRequest carries a partial edit; nil fields are left untouched.
type UpdateRequest struct {
	Code             *string           `json:"code,omitempty"`
	Name             *string           `json:"name,omitempty"`
	NamePlural       *string           `json:"name_plural,omitempty"`
	Description      *string           `json:"description,omitempty"`
	Icon             *string           `json:"icon,omitempty"`
	Color            *string           `json:"color,omitempty"`
	SortOrder        *int              `json:"sort_order,omitempty"`
	Active           *bool             `json:"active,omitempty"`
	IsDefault        *bool             `json:"is_default,omitempty"`
	Config           map[string]any    `json:"config,omitempty"`
	Translations     translation.Map   `json:"translations,omitempty"`
	SlugTranslations map[string]string `json:"slug_translations,omitempty"`
	Extra            map[string]any    `json:"extra,omitempty"`
}

var (
	ErrTenantRequired = errors.New("tenant_required")
	ErrUnknownKind    = errors.New("unknown_kind")
	ErrNameRequired   = errors.New("name_required")
	ErrCodeTaken      = errors.New("code_taken")
	ErrInvalidConfig  = errors.New("invalid_config")
	ErrNotFound       = errors.New("not_found")

	// ErrGlobalReadOnly rejects content edits or deletion of global items;
	// the only tenant-facing mutation on a global item is Toggle.
	ErrGlobalReadOnly = errors.New("global_read_only")
)

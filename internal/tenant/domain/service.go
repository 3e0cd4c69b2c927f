package domain

import (
	"context"
	"errors"
	"time"
)

// Service resolves tenants and their locale configuration. Lookups go through
// a short TTL cache; the tenant middleware calls Get on every request.
type Service interface {
	Get(ctx context.Context, id string) (*Response, error)
	Locales(ctx context.Context, id string) ([]LocaleResponse, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
}

type CreateRequest struct {
	Name           string          `json:"name"`
	DefaultLocale  string          `json:"default_locale"`
	FallbackLocale *string         `json:"fallback_locale"`
	Locales        []LocaleRequest `json:"locales"`
}

type LocaleRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Response struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	DefaultLocale  string    `json:"default_locale"`
	FallbackLocale *string   `json:"fallback_locale,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type LocaleResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	IsDefault bool   `json:"is_default"`
}

var (
	ErrNotFound     = errors.New("tenant_not_found")
	ErrInvalidID    = errors.New("invalid_tenant_id")
	ErrInvalidName  = errors.New("invalid_tenant_name")
	ErrSlugConflict = errors.New("tenant_slug_conflict")
)

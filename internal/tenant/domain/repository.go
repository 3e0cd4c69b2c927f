package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Tenant, error)
	Create(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	ListLocales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]Locale, error)
	ReplaceLocales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, locales []Locale) error
}

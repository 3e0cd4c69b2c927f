package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/inmovalia/catalogo/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tenant, error) {
	var t domain.Tenant
	err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Tenant, error) {
	var t domain.Tenant
	err := db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Create(tenant).Error
}

func (r *repo) ListLocales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]domain.Locale, error) {
	var locales []domain.Locale
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("position ASC, code ASC").
		Find(&locales).Error
	if err != nil {
		return nil, err
	}
	return locales, nil
}

func (r *repo) ReplaceLocales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, locales []domain.Locale) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&domain.Locale{}).Error; err != nil {
			return err
		}
		if len(locales) == 0 {
			return nil
		}
		return tx.Create(&locales).Error
	})
}

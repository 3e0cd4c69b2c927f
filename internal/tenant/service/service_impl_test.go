package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/inmovalia/catalogo/internal/tenant/domain"
	"github.com/inmovalia/catalogo/internal/tenant/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTenantService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&domain.Tenant{}, &domain.Locale{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateDerivesSlugAndSeedsDefaultLocale(t *testing.T) {
	svc := setupTenantService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Inmobiliaria Águila"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "inmobiliaria-aguila" {
		t.Fatalf("expected accent-stripped slug, got %q", created.Slug)
	}
	if created.DefaultLocale != "es" {
		t.Fatalf("expected es default locale, got %q", created.DefaultLocale)
	}

	locales, err := svc.Locales(ctx, created.ID)
	if err != nil {
		t.Fatalf("locales: %v", err)
	}
	if len(locales) != 1 || locales[0].Code != "es" || !locales[0].IsDefault {
		t.Fatalf("expected a single default es locale, got %+v", locales)
	}
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc := setupTenantService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.CreateRequest{Name: "Acme Realty"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// A second tenant whose name slugs to the same value is rejected before
	// the insert, not by the unique index.
	if _, err := svc.Create(ctx, domain.CreateRequest{Name: "ACME Realty"}); err != domain.ErrSlugConflict {
		t.Fatalf("expected ErrSlugConflict, got %v", err)
	}
}

func TestGetUnknownAndInvalidIDs(t *testing.T) {
	svc := setupTenantService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "not-a-number"); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.Get(ctx, snowflake.ID(424242).String()); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

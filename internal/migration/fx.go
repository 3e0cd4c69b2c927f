package migration

import (
	"github.com/inmovalia/catalogo/internal/catalog/store"
	"github.com/inmovalia/catalogo/internal/config"
	"github.com/inmovalia/catalogo/internal/seed"
	tenantdomain "github.com/inmovalia/catalogo/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are local-dev backends; gorm keeps their
			// schema in sync without the versioned migrations.
			if err := conn.AutoMigrate(
				&tenantdomain.Tenant{},
				&tenantdomain.Locale{},
				&store.CatalogItem{},
				&store.ActivationOverride{},
				&store.PropertyType{},
				&store.OperationType{},
				&store.SaleStatus{},
				&store.Amenity{},
				&store.ContactExtension{},
				&store.LeadSource{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureGlobalDefaults(conn); err != nil {
			return err
		}
		if cfg.BootstrapTenant {
			return seed.EnsureBootstrapTenant(conn, cfg.DefaultTenantID)
		}
		return nil
	}),
)

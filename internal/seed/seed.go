package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/inmovalia/catalogo/internal/catalog/domain"
	"github.com/inmovalia/catalogo/internal/catalog/store"
	tenantdomain "github.com/inmovalia/catalogo/internal/tenant/domain"
	"github.com/inmovalia/catalogo/internal/translation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	bootstrapTenantName = "Principal"
	bootstrapTenantSlug = "principal"
)

type unifiedSeed struct {
	Code      string
	Name      string
	Icon      string
	Color     string
	IsDefault bool
	Config    map[string]any
}

type separateSeed struct {
	Code       string
	Name       string
	NamePlural string
	Category   string
	Color      string
	Icon       string
	DataType   string
	IsDefault  bool
	NameEN     string
}

var unifiedSeeds = map[domain.Kind][]unifiedSeed{
	domain.KindContactType: {
		{Code: "cliente", Name: "Cliente", IsDefault: true},
		{Code: "propietario", Name: "Propietario"},
		{Code: "prospecto", Name: "Prospecto"},
		{Code: "proveedor", Name: "Proveedor"},
	},
	domain.KindActivityType: {
		{Code: "llamada", Name: "Llamada", Icon: "phone", IsDefault: true},
		{Code: "reunion", Name: "Reunión", Icon: "users"},
		{Code: "visita", Name: "Visita", Icon: "map-pin"},
		{Code: "correo", Name: "Correo", Icon: "mail"},
		{Code: "tarea", Name: "Tarea", Icon: "check-square"},
	},
	domain.KindPropertyLabel: {
		{Code: "destacado", Name: "Destacado", Color: "#f59e0b"},
		{Code: "oportunidad", Name: "Oportunidad", Color: "#10b981"},
		{Code: "exclusiva", Name: "Exclusiva", Color: "#8b5cf6"},
		{Code: "nuevo", Name: "Nuevo", Color: "#3b82f6"},
	},
	domain.KindDocumentType: {
		{Code: "identificacion", Name: "Identificación", IsDefault: true},
		{Code: "contrato", Name: "Contrato"},
		{Code: "escritura", Name: "Escritura"},
		{Code: "comprobante_domicilio", Name: "Comprobante de domicilio"},
	},
	domain.KindAdvisorSpecialty: {
		{Code: "residencial", Name: "Residencial", IsDefault: true},
		{Code: "comercial", Name: "Comercial"},
		{Code: "industrial", Name: "Industrial"},
		{Code: "terrenos", Name: "Terrenos"},
	},
	domain.KindAdvisorLevel: {
		{Code: "junior", Name: "Junior", IsDefault: true, Config: map[string]any{"commission_pct": 40.0}},
		{Code: "senior", Name: "Senior", Config: map[string]any{"commission_pct": 55.0}},
		{Code: "master", Name: "Master", Config: map[string]any{"commission_pct": 70.0}},
	},
}

var separateSeeds = map[domain.Kind][]separateSeed{
	domain.KindPropertyType: {
		{Code: "casa", Name: "Casa", NamePlural: "Casas", Category: "residencial", IsDefault: true, NameEN: "House"},
		{Code: "departamento", Name: "Departamento", NamePlural: "Departamentos", Category: "residencial", NameEN: "Apartment"},
		{Code: "terreno", Name: "Terreno", NamePlural: "Terrenos", Category: "terrenos", NameEN: "Land"},
		{Code: "oficina", Name: "Oficina", NamePlural: "Oficinas", Category: "comercial", NameEN: "Office"},
		{Code: "local_comercial", Name: "Local comercial", NamePlural: "Locales comerciales", Category: "comercial", NameEN: "Retail space"},
	},
	domain.KindOperationType: {
		{Code: "venta", Name: "Venta", IsDefault: true, NameEN: "Sale"},
		{Code: "renta", Name: "Renta", NameEN: "Rent"},
	},
	domain.KindSaleStatus: {
		{Code: "disponible", Name: "Disponible", Color: "#10b981", IsDefault: true},
		{Code: "apartado", Name: "Apartado", Color: "#f59e0b"},
		{Code: "vendido", Name: "Vendido", Color: "#6b7280"},
		{Code: "cancelado", Name: "Cancelado", Color: "#ef4444"},
	},
	domain.KindAmenity: {
		{Code: "wifi", Name: "WiFi", Icon: "wifi", NameEN: "WiFi"},
		{Code: "piscina", Name: "Piscina", Icon: "waves", NameEN: "Pool"},
		{Code: "jardin", Name: "Jardín", Icon: "flower", NameEN: "Garden"},
		{Code: "estacionamiento", Name: "Estacionamiento", Icon: "car", NameEN: "Parking"},
		{Code: "seguridad", Name: "Seguridad", Icon: "shield", NameEN: "Security"},
	},
	domain.KindContactExtension: {
		{Code: "rfc", Name: "RFC", DataType: "text"},
		{Code: "curp", Name: "CURP", DataType: "text"},
		{Code: "fecha_nacimiento", Name: "Fecha de nacimiento", DataType: "date"},
	},
	domain.KindLeadSource: {
		{Code: "portal_web", Name: "Portal web", IsDefault: true},
		{Code: "referido", Name: "Referido"},
		{Code: "redes_sociales", Name: "Redes sociales"},
		{Code: "llamada_entrante", Name: "Llamada entrante"},
	},
}

// EnsureGlobalDefaults seeds the tenant-independent catalog rows. It is
// idempotent; rows are matched by kind and code with a NULL tenant_id.
func EnsureGlobalDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnifiedDefaults(ctx, tx, node); err != nil {
			return err
		}
		return ensureSeparateDefaults(ctx, tx, node)
	})
}

func ensureUnifiedDefaults(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, meta := range domain.Kinds() {
		if meta.Storage != domain.StorageUnified {
			continue
		}
		for i, row := range unifiedSeeds[meta.Kind] {
			var existing store.CatalogItem
			err := tx.WithContext(ctx).
				Where("tenant_id IS NULL AND kind = ? AND code = ?", meta.Kind, row.Code).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			item := store.CatalogItem{
				ID:        node.Generate(),
				Kind:      meta.Kind,
				Code:      row.Code,
				Name:      row.Name,
				SortOrder: i,
				Active:    true,
				IsDefault: row.IsDefault,
			}
			if row.Icon != "" {
				item.Icon = ptr(row.Icon)
			}
			if row.Color != "" {
				item.Color = ptr(row.Color)
			}
			if row.Config != nil {
				item.Config = datatypes.JSONMap(row.Config)
			}
			if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureSeparateDefaults(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	stores := store.NewProvider()
	for _, meta := range domain.Kinds() {
		if meta.Storage != domain.StorageSeparate {
			continue
		}
		st, err := stores.ForKind(meta.Kind)
		if err != nil {
			return err
		}

		existing, err := st.List(ctx, tx, 0, meta.Kind, true)
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(existing))
		for _, row := range existing {
			if row.TenantID == nil {
				present[row.Code] = true
			}
		}

		for i, row := range separateSeeds[meta.Kind] {
			if present[row.Code] {
				continue
			}

			rec := store.Record{
				ID:        node.Generate(),
				Kind:      meta.Kind,
				Code:      row.Code,
				Name:      row.Name,
				SortOrder: i,
				Active:    true,
				IsDefault: row.IsDefault,
			}
			if row.NamePlural != "" {
				rec.NamePlural = ptr(row.NamePlural)
			}
			if row.Icon != "" {
				rec.Icon = ptr(row.Icon)
			}
			if row.Color != "" {
				rec.Color = ptr(row.Color)
			}
			if row.Category != "" {
				rec.Extra = map[string]any{"category": row.Category}
			}
			if row.DataType != "" {
				rec.Extra = map[string]any{"data_type": row.DataType}
			}
			if row.NameEN != "" {
				rec.Translations = translation.Map{"en": {Name: row.NameEN}}
				if meta.SlugTranslatable {
					rec.SlugTranslations = map[string]string{"en": slug.Make(row.NameEN)}
				}
			}

			if err := st.Create(ctx, tx, &rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// EnsureBootstrapTenant creates a first tenant for local setups, with its
// locale list, when BOOTSTRAP_TENANT is enabled.
func EnsureBootstrapTenant(db *gorm.DB, tenantID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing tenantdomain.Tenant
		err := tx.WithContext(ctx).Where("slug = ?", bootstrapTenantSlug).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id := node.Generate()
		if tenantID != 0 {
			id = snowflake.ID(tenantID)
		}
		tenant := tenantdomain.Tenant{
			ID:            id,
			Name:          bootstrapTenantName,
			Slug:          bootstrapTenantSlug,
			DefaultLocale: "es",
			Active:        true,
		}
		if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
			return err
		}

		locales := []tenantdomain.Locale{
			{ID: node.Generate(), TenantID: tenant.ID, Code: "es", Name: "Español", Position: 0, IsDefault: true},
			{ID: node.Generate(), TenantID: tenant.ID, Code: "en", Name: "English", Position: 1},
		}
		return tx.WithContext(ctx).Create(&locales).Error
	})
}

func ptr(s string) *string { return &s }

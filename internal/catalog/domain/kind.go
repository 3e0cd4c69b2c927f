package domain

import "strings"

// Kind identifies one configurable taxonomy.
type Kind string

const (
	KindContactType      Kind = "contact_type"
	KindActivityType     Kind = "activity_type"
	KindPropertyLabel    Kind = "property_label"
	KindDocumentType     Kind = "document_type"
	KindAdvisorSpecialty Kind = "advisor_specialty"
	KindAdvisorLevel     Kind = "advisor_level"

	KindPropertyType     Kind = "property_type"
	KindOperationType    Kind = "operation_type"
	KindSaleStatus       Kind = "sale_status"
	KindAmenity          Kind = "amenity"
	KindContactExtension Kind = "contact_extension"
	KindLeadSource       Kind = "lead_source"
)

// Storage classifies where a kind's rows live.
type Storage string

const (
	StorageUnified  Storage = "unified"
	StorageSeparate Storage = "separate"
)

// Meta is the static descriptor for one kind. The editor renders each kind
// from this descriptor instead of hardcoding per-kind behavior.
type Meta struct {
	Kind    Kind
	Storage Storage
	Label   string

	HasPlural      bool
	HasDescription bool
	HasIcon        bool
	HasColor       bool

	// ConfigFields lists numeric keys accepted inside an item's config map,
	// e.g. the commission percentage on advisor levels.
	ConfigFields []string

	Translatable     bool
	SlugTranslatable bool

	// ApprovalGated kinds default tenant-created items to inactive until a
	// tenant admin activates them.
	ApprovalGated bool
}

var registry = []Meta{
	{Kind: KindContactType, Storage: StorageUnified, Label: "Tipos de contacto", HasPlural: true, HasDescription: true, HasIcon: true, HasColor: true, Translatable: true},
	{Kind: KindActivityType, Storage: StorageUnified, Label: "Tipos de actividad", HasIcon: true, HasColor: true, Translatable: true},
	{Kind: KindPropertyLabel, Storage: StorageUnified, Label: "Etiquetas de propiedad", HasColor: true, Translatable: true},
	{Kind: KindDocumentType, Storage: StorageUnified, Label: "Tipos de documento", HasDescription: true, Translatable: true},
	{Kind: KindAdvisorSpecialty, Storage: StorageUnified, Label: "Especialidades de asesor", HasDescription: true, Translatable: true},
	{Kind: KindAdvisorLevel, Storage: StorageUnified, Label: "Niveles de asesor", HasDescription: true, ConfigFields: []string{"commission_pct"}, Translatable: true},

	{Kind: KindPropertyType, Storage: StorageSeparate, Label: "Tipos de propiedad", HasPlural: true, HasDescription: true, HasIcon: true, Translatable: true, SlugTranslatable: true},
	{Kind: KindOperationType, Storage: StorageSeparate, Label: "Tipos de operación", HasDescription: true, Translatable: true, SlugTranslatable: true},
	{Kind: KindSaleStatus, Storage: StorageSeparate, Label: "Estados de venta", HasColor: true, Translatable: true},
	{Kind: KindAmenity, Storage: StorageSeparate, Label: "Amenidades", HasIcon: true, Translatable: true, SlugTranslatable: true, ApprovalGated: true},
	{Kind: KindContactExtension, Storage: StorageSeparate, Label: "Extensiones de contacto", HasDescription: true, Translatable: true},
	{Kind: KindLeadSource, Storage: StorageSeparate, Label: "Fuentes de lead", HasIcon: true, Translatable: true},
}

// Route aliases accepted in the public API in addition to the canonical codes.
var aliases = map[string]Kind{
	"tipos_contacto":        KindContactType,
	"tipos_actividad":       KindActivityType,
	"etiquetas_propiedad":   KindPropertyLabel,
	"tipos_documento":       KindDocumentType,
	"especialidades_asesor": KindAdvisorSpecialty,
	"niveles_asesor":        KindAdvisorLevel,
	"tipos_propiedad":       KindPropertyType,
	"tipos_operacion":       KindOperationType,
	"estados_venta":         KindSaleStatus,
	"amenidades":            KindAmenity,
	"extensiones_contacto":  KindContactExtension,
	"fuentes_lead":          KindLeadSource,
}

var metaByKind = func() map[Kind]Meta {
	m := make(map[Kind]Meta, len(registry))
	for _, meta := range registry {
		m[meta.Kind] = meta
	}
	return m
}()

// Kinds returns every kind descriptor in registry order.
func Kinds() []Meta {
	out := make([]Meta, len(registry))
	copy(out, registry)
	return out
}

// MetaFor returns the descriptor for a kind.
func MetaFor(kind Kind) (Meta, bool) {
	meta, ok := metaByKind[kind]
	return meta, ok
}

// ParseKind resolves a canonical kind code or a route alias.
func ParseKind(raw string) (Kind, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", false
	}
	if _, ok := metaByKind[Kind(value)]; ok {
		return Kind(value), true
	}
	if kind, ok := aliases[value]; ok {
		return kind, true
	}
	return "", false
}

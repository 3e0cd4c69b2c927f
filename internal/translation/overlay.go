package translation

import "strings"

// Fields is the per-locale override for a catalog item. Every field is
// optional; a blank field never shadows the canonical value.
type Fields struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Map holds sparse per-locale overrides keyed by locale code. The tenant's
// base locale is never stored here; the canonical item fields are the source
// of truth for the base locale.
type Map map[string]Fields

const (
	FieldName        = "name"
	FieldDescription = "description"
)

// Resolve returns the display string for field in the requested locale.
// Precedence: requested locale, then the tenant fallback locale (if any),
// then the canonical value.
func Resolve(m Map, field, locale, fallbackLocale, canonical string) string {
	if value := lookup(m, field, locale); value != "" {
		return value
	}
	if fallbackLocale != "" && fallbackLocale != locale {
		if value := lookup(m, field, fallbackLocale); value != "" {
			return value
		}
	}
	return canonical
}

// Clean strips blank fields and locale entries whose every field is blank.
// Running Clean on its own output is a no-op.
func Clean(m Map) Map {
	if len(m) == 0 {
		return nil
	}
	out := make(Map, len(m))
	for locale, fields := range m {
		cleaned := Fields{
			Name:        strings.TrimSpace(fields.Name),
			Description: strings.TrimSpace(fields.Description),
		}
		if cleaned == (Fields{}) {
			continue
		}
		key := strings.TrimSpace(locale)
		if key == "" {
			continue
		}
		out[key] = cleaned
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Has reports whether the locale carries at least one non-blank field.
func Has(m Map, locale string) bool {
	fields, ok := m[locale]
	if !ok {
		return false
	}
	return strings.TrimSpace(fields.Name) != "" || strings.TrimSpace(fields.Description) != ""
}

// Strip removes the given locale entry. Used to keep the base locale out of
// the stored map on writes.
func Strip(m Map, locale string) Map {
	if len(m) == 0 {
		return m
	}
	if _, ok := m[locale]; !ok {
		return m
	}
	out := make(Map, len(m))
	for key, fields := range m {
		if key == locale {
			continue
		}
		out[key] = fields
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CleanSlugs strips blank entries from a locale to URL-slug map.
func CleanSlugs(slugs map[string]string) map[string]string {
	if len(slugs) == 0 {
		return nil
	}
	out := make(map[string]string, len(slugs))
	for locale, value := range slugs {
		key := strings.TrimSpace(locale)
		trimmed := strings.TrimSpace(value)
		if key == "" || trimmed == "" {
			continue
		}
		out[key] = trimmed
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func lookup(m Map, field, locale string) string {
	fields, ok := m[locale]
	if !ok {
		return ""
	}
	switch field {
	case FieldDescription:
		return strings.TrimSpace(fields.Description)
	default:
		return strings.TrimSpace(fields.Name)
	}
}

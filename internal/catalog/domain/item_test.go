package domain

import (
	"testing"

	"github.com/inmovalia/catalogo/internal/translation"
)

func TestDisplayNameResolvesLocaleThenFallback(t *testing.T) {
	item := Item{
		Name: "Piscina",
		Translations: translation.Map{
			"en": {Name: "Pool"},
		},
	}

	if got := item.DisplayName("en", ""); got != "Pool" {
		t.Fatalf("expected english override, got %q", got)
	}
	if got := item.DisplayName("fr", "en"); got != "Pool" {
		t.Fatalf("expected fallback locale override, got %q", got)
	}
	if got := item.DisplayName("fr", ""); got != "Piscina" {
		t.Fatalf("expected canonical name, got %q", got)
	}
}

func TestDisplayDescriptionHandlesMissingCanonical(t *testing.T) {
	desc := "Zona de recreo"
	item := Item{
		Name:        "Piscina",
		Description: &desc,
		Translations: translation.Map{
			"en": {Description: "Recreation area"},
		},
	}

	if got := item.DisplayDescription("en", ""); got != "Recreation area" {
		t.Fatalf("expected overlay description, got %q", got)
	}
	if got := item.DisplayDescription("pt", ""); got != "Zona de recreo" {
		t.Fatalf("expected canonical description, got %q", got)
	}

	item.Description = nil
	if got := item.DisplayDescription("pt", ""); got != "" {
		t.Fatalf("expected blank description without canonical, got %q", got)
	}
}

func TestDeriveCodeNormalizesNames(t *testing.T) {
	cases := map[string]string{
		"Área Social":    "area_social",
		"Casa de Playa":  "casa_de_playa",
		"  Penthouse  ":  "penthouse",
		"Duplex/Triplex": "duplex_triplex",
	}
	for name, want := range cases {
		if got := DeriveCode(name); got != want {
			t.Fatalf("DeriveCode(%q) = %q, want %q", name, got, want)
		}
	}
}

package translations

import "testing"

func TestGetLanguageFromQuery(t *testing.T) {
	tests := map[string]string{
		"en":      "en",
		"english": "en",
		"fr":      "fr",
		"":        "fr",
		"es":      "fr",
	}
	for input, expected := range tests {
		if got := GetLanguageFromQuery(input); got != expected {
			t.Errorf("GetLanguageFromQuery(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestGetTranslations(t *testing.T) {
	if GetTranslations("en").Price != "Price:" {
		t.Error("expected English translations for en")
	}
	if GetTranslations("fr").Price != "Prix :" {
		t.Error("expected French translations for fr")
	}
	if GetTranslations("de") != GetFrenchTranslations() {
		t.Error("expected French translations by default")
	}
}

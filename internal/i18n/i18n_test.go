package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func load(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load("../../locales", "ru", []string{"ru", "en"})
	require.NoError(t, err)
	return b
}

func TestResolveRussianPrefix(t *testing.T) {
	b := load(t)
	for _, header := range []string{"ru", "ru-RU", "ru-RU,ru;q=0.9,en-US;q=0.8", "RU-ru"} {
		if got := b.Resolve(header); got != "ru" {
			t.Fatalf("Resolve(%q) = %s, want ru", header, got)
		}
	}
}

func TestResolveDefaultsToEnglish(t *testing.T) {
	b := load(t)
	for _, header := range []string{"", "de-DE", "fr, es;q=0.8", "garbage;;q="} {
		if got := b.Resolve(header); got != "en" {
			t.Fatalf("Resolve(%q) = %s, want en", header, got)
		}
	}
}

func TestResolveHonorsQValues(t *testing.T) {
	b := load(t)
	got := b.Resolve("ru;q=0.8, en;q=0.9")
	if got != "en" {
		t.Fatalf("expected en, got %s", got)
	}
}

func TestTranslationFallsBackToRussianTable(t *testing.T) {
	b := load(t)
	require.Equal(t, b.T("ru", "brand.name"), b.T("en", "brand.name"))
	// unknown key surfaces the key itself, never an empty string
	require.Equal(t, "no.such.key", b.T("en", "no.such.key"))
}

func TestSupportedLanguagesHaveNonEmptyMessages(t *testing.T) {
	b := load(t)
	keys := []string{
		"form.errorRequired", "form.errorEmailFormat", "form.errorPasswordShort",
		"form.errorInvalid", "form.errorStep", "form.errorPasswordMatch",
		"form.errorEmail", "form.errorGeneric", "form.success", "form.cityError",
		"login.error400", "login.error401", "login.error404", "login.error500",
		"office.welcome", "office.trialExists", "office.trialErrorAuth",
		"office.copyKey", "office.copyShopId", "office.copyFailed",
	}
	for _, lang := range b.Supported() {
		for _, key := range keys {
			if b.T(lang, key) == "" || b.T(lang, key) == key {
				t.Fatalf("missing message %s for %s", key, lang)
			}
		}
	}
}

func TestUnsupportedPersistedValue(t *testing.T) {
	b := load(t)
	require.False(t, b.IsSupported("kz"))
	require.True(t, b.IsSupported("ru"))
	require.True(t, b.IsSupported("en"))
}

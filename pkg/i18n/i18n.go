// Package i18n holds the console's static fr/en string tables.
package i18n

import (
	"sort"
	"strings"
)

// Supported locales.
const (
	LocaleFR = "fr"
	LocaleEN = "en"
)

// Translator resolves keys for a locale, falling back to the default locale
// and finally to the key itself.
type Translator struct {
	fallback string
	tables   map[string]map[string]string
}

// New returns a translator over the built-in tables.
func New(defaultLocale string) *Translator {
	tr := &Translator{tables: map[string]map[string]string{
		LocaleFR: fr,
		LocaleEN: en,
	}}
	tr.fallback = tr.Normalize(defaultLocale)
	return tr
}

// Normalize maps "en-US" style tags onto a supported locale.
func (t *Translator) Normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	if _, ok := t.tables[locale]; ok {
		return locale
	}
	if t.fallback != "" {
		return t.fallback
	}
	return LocaleFR
}

// T translates key.
func (t *Translator) T(locale, key string) string {
	if v, ok := t.tables[t.Normalize(locale)][key]; ok {
		return v
	}
	if v, ok := t.tables[t.fallback][key]; ok {
		return v
	}
	return key
}

// Table returns a copy of the table for locale, filled in from the fallback.
func (t *Translator) Table(locale string) map[string]string {
	out := make(map[string]string, len(t.tables[t.fallback]))
	for k, v := range t.tables[t.fallback] {
		out[k] = v
	}
	for k, v := range t.tables[t.Normalize(locale)] {
		out[k] = v
	}
	return out
}

// Locales lists supported locale codes.
func (t *Translator) Locales() []string {
	out := make([]string, 0, len(t.tables))
	for k := range t.tables {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateWithFallbacks(t *testing.T) {
	tr := New("fr")

	assert.Equal(t, "Users", tr.T("en-US", "nav.users"))
	assert.Equal(t, "Utilisateurs", tr.T("de", "nav.users"))
	assert.Equal(t, "missing.key", tr.T("en", "missing.key"))
	assert.Equal(t, []string{"en", "fr"}, tr.Locales())
}

func TestTablesShareKeys(t *testing.T) {
	for key := range fr {
		_, ok := en[key]
		assert.True(t, ok, "english table misses %s", key)
	}
	assert.Equal(t, "Partners", New("fr").Table("en")["nav.partners"])
}

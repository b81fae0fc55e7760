package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10, cfg.Lists.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Lists.SearchDebounce)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "fr", cfg.I18n.DefaultLocale)
	assert.Equal(t, 30*time.Second, cfg.Alerts.PollInterval)
	assert.False(t, cfg.Session.Persist)
}

func TestOverridesAndFallbacks(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BACKEND_BASE_URL", "https://api.zoomwifi.test/v1/")
	v.Set("SEARCH_DEBOUNCE", "not-a-duration")
	v.Set("LIST_PAGE_SIZE", 0)
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := fromViper(v)

	assert.Equal(t, "https://api.zoomwifi.test/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Lists.SearchDebounce)
	assert.Equal(t, 10, cfg.Lists.PageSize)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

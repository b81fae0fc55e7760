package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/zoomwifi/admin-console/pkg/config"
)

func TestBuildConfig(t *testing.T) {
	cfg := buildConfig(config.EnvProduction, config.LogConfig{Level: "debug", Format: "console"})
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level.Level())

	fallback := buildConfig(config.EnvDevelopment, config.LogConfig{Level: "loud"})
	assert.Equal(t, "json", fallback.Encoding)
	assert.Equal(t, zapcore.InfoLevel, fallback.Level.Level())
}

func TestComponentWithoutLogger(t *testing.T) {
	l := Component(nil, "gateway")
	assert.NotNil(t, l)
}

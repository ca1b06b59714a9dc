package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurecard/internal/errors"
)

var configEnv = []string{
	"PORT", "GIN_MODE", "FEATURE_API_URL", "FEATURE_API_TIMEOUT", "MEDIA_ROOT",
	"TARGET_COLUMN", "DATABASE_URL", "REDIS_URL", "FEATURE_CACHE_TTL",
	"RENDER_OUTPUT_DIR", "VIEWPORT_WIDTH", "VIEWPORT_HEIGHT", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "http://localhost:8080", cfg.FeatureAPI.URL)
	assert.Equal(t, 30*time.Second, cfg.FeatureAPI.Timeout)
	assert.Equal(t, "target", cfg.Data.TargetColumn)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Cache.Enabled())
	assert.Equal(t, 1280, cfg.Render.ViewportWidth)
	assert.Equal(t, 800, cfg.Render.ViewportHeight)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("FEATURE_API_URL", "http://features.internal:8000")
	t.Setenv("FEATURE_API_TIMEOUT", "5")
	t.Setenv("TARGET_COLUMN", "label")
	t.Setenv("DATABASE_URL", "postgres://localhost/featurecard")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FEATURE_CACHE_TTL", "90s")
	t.Setenv("VIEWPORT_WIDTH", "1920")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "http://features.internal:8000", cfg.FeatureAPI.URL)
	assert.Equal(t, 5*time.Second, cfg.FeatureAPI.Timeout)
	assert.Equal(t, "label", cfg.Data.TargetColumn)
	assert.True(t, cfg.Database.Enabled())
	assert.True(t, cfg.Cache.Enabled())
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 1920, cfg.Render.ViewportWidth)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"relative api url", map[string]string{"FEATURE_API_URL": "localhost"}},
		{"negative timeout", map[string]string{"FEATURE_API_TIMEOUT": "-1s"}},
		{"zero viewport", map[string]string{"VIEWPORT_HEIGHT": "0"}},
		{"cache without ttl", map[string]string{"REDIS_URL": "redis://localhost", "FEATURE_CACHE_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

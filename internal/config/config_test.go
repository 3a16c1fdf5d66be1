package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RISKGAUGE_DATA_DIR", dir)
	t.Setenv("KIS_BASE_URL", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("KIS_APP_KEY", "")
	t.Setenv("APP_KEY", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "https://openapi.koreainvestment.com:9443", cfg.KIS.BaseURL)
	assert.Equal(t, "/oauth2/token", cfg.KIS.TokenPath)
	assert.Equal(t, filepath.Join(dir, "token.json"), cfg.KIS.TokenCachePath)
	assert.Equal(t, filepath.Join(dir, "client_data.db"), cfg.Cache.Path)
	assert.Equal(t, 15.0, cfg.KIS.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.KIS.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "0 30 3 * * *", cfg.CacheMaintenanceSchedule)
	assert.False(t, cfg.HasCredentials())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RISKGAUGE_DATA_DIR", t.TempDir())
	t.Setenv("KIS_BASE_URL", "https://openapivts.koreainvestment.com:29443/")
	t.Setenv("KIS_APP_KEY", "key")
	t.Setenv("KIS_APP_SECRET", "secret")
	t.Setenv("KIS_RATE_LIMIT", "2.5")
	t.Setenv("KIS_TIMEOUT", "5s")
	t.Setenv("PORT", "9100")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://openapivts.koreainvestment.com:29443", cfg.KIS.BaseURL)
	assert.Equal(t, 2.5, cfg.KIS.RateLimit)
	assert.Equal(t, 5*time.Second, cfg.KIS.Timeout)
	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.True(t, cfg.HasCredentials())
	assert.Equal(t, []string{"http://localhost:5173", "https://example.com"}, cfg.CORSOrigins)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("RISKGAUGE_DATA_DIR", t.TempDir())
	t.Setenv("KIS_BASE_URL", "")
	t.Setenv("KIS_APP_KEY", "")
	t.Setenv("KIS_APP_SECRET", "")
	t.Setenv("BASE_URL", "https://legacy.example.com")
	t.Setenv("APP_KEY", "legacy-key")
	t.Setenv("APP_SECRET", "legacy-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://legacy.example.com", cfg.KIS.BaseURL)
	assert.Equal(t, "legacy-key", cfg.KIS.AppKey)
	assert.Equal(t, "legacy-secret", cfg.KIS.AppSecret)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: 8000, KIS: KISConfig{BaseURL: "https://api.example.com", RateLimit: 1}}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing scheme", func(c *Config) { c.KIS.BaseURL = "api.example.com" }, true},
		{"zero rate limit", func(c *Config) { c.KIS.RateLimit = 0 }, true},
		{"port out of range", func(c *Config) { c.Port = 70000 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

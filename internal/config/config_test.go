package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "./data/sample_data.csv", cfg.App.SampleDataPath)
	assert.Equal(t, int64(32<<20), cfg.App.MaxUploadBytes())
	assert.Equal(t, 4, cfg.App.ReportConcurrency)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.DashboardTTLSeconds)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "reports", cfg.Storage.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromViper_Overrides(t *testing.T) {
	t.Parallel()

	v := viper.New()
	setDefaults(v)
	v.Set("SERVER_PORT", "9090")
	v.Set("APP_MAX_UPLOAD_MB", 5)
	v.Set("CACHE_ENABLED", true)
	v.Set("REDIS_URL", "redis://localhost:6379/1")
	v.Set("STORAGE_ENABLED", true)
	v.Set("STORAGE_BUCKET", "inventory-reports")
	v.Set("LOG_LEVEL", "debug")

	cfg := fromViper(v)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(5<<20), cfg.App.MaxUploadBytes())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "inventory-reports", cfg.Storage.Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestMaxUploadBytes_Fallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(32<<20), AppConfig{MaxUploadMB: 0}.MaxUploadBytes())
	assert.Equal(t, int64(1<<20), AppConfig{MaxUploadMB: 1}.MaxUploadBytes())
}

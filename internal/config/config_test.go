package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Database.DSN)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, "https://data.cityofnewyork.us/resource", cfg.OpenData.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.OpenData.Timeout())
	assert.Equal(t, 5*time.Minute, cfg.OpenData.CacheTTL())
	assert.Equal(t, 30, cfg.Snapshots.RetentionDays)
	assert.Equal(t, "0 4 * * *", cfg.Snapshots.PruneSchedule)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CURBSIDE_SERVER_ADDR", ":9090")
	t.Setenv("CURBSIDE_OPENDATA_TIMEOUT_SECONDS", "2")
	t.Setenv("CURBSIDE_SNAPSHOTS_RETENTION_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.OpenData.Timeout())
	assert.Equal(t, 7, cfg.Snapshots.RetentionDays)
}

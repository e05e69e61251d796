package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/ncaa.xlsx", cfg.Data.Source)
	assert.Equal(t, 24*time.Hour, cfg.Data.CacheTTL())
	assert.False(t, cfg.Data.NoCache)
	assert.Empty(t, cfg.Data.Sheets.Teams)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "ncaa-cache.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.Retries)
	assert.Equal(t, "ncaa-explorer/1.0", cfg.Fetch.UserAgent)
	assert.InDelta(t, 5.0, cfg.Fetch.RatePerHost, 0.001)
	assert.Equal(t, 64, cfg.Fetch.MaxMB)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 50, cfg.Explore.PageSize)
	assert.Equal(t, 10, cfg.Explore.LeaderboardSize)
	assert.Equal(t, 5, cfg.Explore.CompareLimit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
data:
  source: https://example.com/ncaa.xlsx
  sheets:
    players: [roster, players]
store:
  driver: postgres
  database_url: postgres://localhost/ncaa
log:
  level: debug
  format: console
server:
  port: 9090
  allowed_origins: [http://localhost:5173]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/ncaa.xlsx", cfg.Data.Source)
	assert.Equal(t, []string{"roster", "players"}, cfg.Data.Sheets.Players)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	// Defaults still apply for unset values
	assert.Equal(t, 50, cfg.Explore.PageSize)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("NCAA_STORE_DRIVER", "sqlite")
	t.Setenv("NCAA_LOG_LEVEL", "warn")
	t.Setenv("NCAA_DATA_SOURCE", "exports/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "exports/", cfg.Data.Source)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("data: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Data.Source = "data/ncaa.xlsx"
	cfg.Data.CacheTTLHours = 24
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "ncaa-cache.db"
	cfg.Fetch.MaxMB = 64
	cfg.Server.Port = 8080
	cfg.Server.RequestTimeoutSecs = 30
	cfg.Explore.PageSize = 50
	cfg.Explore.LeaderboardSize = 10
	cfg.Explore.CompareLimit = 5
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		mutate  func(*Config)
		wantErr []string
	}{
		{name: "defaults", mode: "serve", mutate: func(*Config) {}},
		{
			name:    "missing source",
			mutate:  func(c *Config) { c.Data.Source = " " },
			wantErr: []string{"data.source is required"},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Driver = "mysql" },
			wantErr: []string{"store.driver must be sqlite or postgres"},
		},
		{
			name: "cache disabled skips store",
			mutate: func(c *Config) {
				c.Data.NoCache = true
				c.Store.Driver = ""
				c.Store.DatabaseURL = ""
			},
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Store.Driver = "postgres"; c.Store.DatabaseURL = "" },
			wantErr: []string{"store.database_url is required"},
		},
		{
			name: "explore sizing",
			mutate: func(c *Config) {
				c.Explore.PageSize = 0
				c.Explore.CompareLimit = 1
			},
			wantErr: []string{"explore.page_size", "explore.compare_limit"},
		},
		{
			name:    "port only checked for serve",
			mode:    "explore",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: nil,
		},
		{
			name:    "invalid port",
			mode:    "serve",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: []string{"server.port must be between 1 and 65535"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate(tt.mode)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

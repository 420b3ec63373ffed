package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default("data")
	cfg.Timezone = "Europe/Berlin"
	cfg.Currency = "EUR"

	path := filepath.Join(dir, FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", got.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "data"), got.Store.Path)
	assert.Equal(t, "Europe/Berlin", got.Timezone)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "uuid", got.IDs)
	assert.Equal(t, "info", got.Log.Level)
	assert.Equal(t, "console", got.Log.Format)
}

func TestLoad_AbsoluteStorePath(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "elsewhere", "wb.db")
	path := filepath.Join(dir, FileName)
	require.NoError(t, Save(path, Default(abs)))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, abs, got.Store.Path)
}

func TestDefaults(t *testing.T) {
	cfg := Default("/tmp/wb")
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Timezone)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("data")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: sqlite")
	assert.Contains(t, contents, "path: data")
	assert.Contains(t, contents, "currency: USD")
	assert.NotContains(t, contents, "timezone")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvStoreBackend: "file",
		EnvStorePath:    "/var/lib/walletbook",
		EnvTimezone:     "Asia/Tokyo",
		EnvCurrency:     "JPY",
		EnvLogLevel:     "  ",
	}
	cfg := Default("data")
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "/var/lib/walletbook", cfg.Store.Path)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, "JPY", cfg.Currency)
	assert.Equal(t, "info", cfg.Log.Level, "blank values are ignored")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WALLETBOOK_CURRENCY=GBP\n"), 0o644))
	t.Setenv(EnvCurrency, "")
	require.NoError(t, os.Unsetenv(EnvCurrency))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "GBP", os.Getenv(EnvCurrency))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "unknown store.backend"},
		{"missing path", func(c *Config) { c.Store.Path = "" }, "store.path is required"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "loading timezone"},
		{"bad currency", func(c *Config) { c.Currency = "dollars" }, "invalid currency"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "parsing log level"},
		{"bad ids", func(c *Config) { c.IDs = "serial" }, "unknown ids generator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("data")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	mem := Default("")
	mem.Store.Backend = "memory"
	assert.NoError(t, mem.Validate())
}

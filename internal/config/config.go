package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/walletbook/walletbook/internal/currency"
	"github.com/walletbook/walletbook/internal/kv"
	"github.com/walletbook/walletbook/internal/logger"
)

// FileName is the config file looked up in the working directory.
const FileName = "walletbook.yaml"

// Environment variables overlaid on the file.
const (
	EnvStoreBackend = "WALLETBOOK_STORE_BACKEND"
	EnvStorePath    = "WALLETBOOK_STORE_PATH"
	EnvTimezone     = "WALLETBOOK_TIMEZONE"
	EnvCurrency     = "WALLETBOOK_CURRENCY"
	EnvLogLevel     = "WALLETBOOK_LOG_LEVEL"
)

// Config represents the top-level walletbook.yaml configuration.
type Config struct {
	Store    StoreConfig `yaml:"store"`
	Timezone string      `yaml:"timezone,omitempty"` // IANA name; empty means the system zone
	Currency string      `yaml:"currency"`
	IDs      string      `yaml:"ids,omitempty"` // "uuid" or "timestamp"
	Log      LogConfig   `yaml:"log"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // data dir (file) or database file (sqlite)
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a walletbook.yaml file from disk. A relative store path is
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(filepath.Dir(path), cfg.Store.Path)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(storePath string) *Config {
	return &Config{
		Store: StoreConfig{
			Backend: kv.BackendSQLite,
			Path:    storePath,
		},
		Currency: "USD",
		IDs:      "uuid",
		Log: LogConfig{
			Level:  "info",
			Format: string(logger.FormatConsole),
		},
	}
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays non-empty environment values on cfg. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.Store.Backend, EnvStoreBackend)
	set(&c.Store.Path, EnvStorePath)
	set(&c.Timezone, EnvTimezone)
	set(&c.Currency, EnvCurrency)
	set(&c.Log.Level, EnvLogLevel)
}

// Validate checks the fields that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case kv.BackendMemory:
	case kv.BackendFile, kv.BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store.backend %q (want memory, file or sqlite)", c.Store.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if !currency.Valid(c.Currency) {
		return fmt.Errorf("invalid currency code %q", c.Currency)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.IDs {
	case "", "uuid", "timestamp":
	default:
		return fmt.Errorf("unknown ids generator %q (want uuid or timestamp)", c.IDs)
	}
	return nil
}

// Location returns the configured timezone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

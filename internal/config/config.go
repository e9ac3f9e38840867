// Package config loads pomorks settings from a JSON file with environment
// overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/store"
)

// FileName is the config file name inside the config directory.
const FileName = "config.json"

// Config represents the full pomorks configuration
type Config struct {
	// Backend is one of json, sqlite or postgres. Empty means ask at startup.
	Backend       string         `json:"backend"`
	DataDir       string         `json:"dataDir"`
	ExportDir     string         `json:"exportDir"`
	Postgres      PostgresConfig `json:"postgres"`
	Timer         TimerConfig    `json:"timer"`
	Notifications NotifyConfig   `json:"notifications"`
	Log           LogConfig      `json:"log"`
}

type PostgresConfig struct {
	DSN string `json:"dsn"`
}

// TimerConfig controls the session clock
type TimerConfig struct {
	// FastMode makes one time unit a second instead of a minute.
	FastMode       bool `json:"fastMode"`
	TickIntervalMs int  `json:"tickIntervalMs"`
}

type NotifyConfig struct {
	Enabled bool `json:"enabled"`
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	dataDir := defaultDataDir()

	return &Config{
		DataDir:   dataDir,
		ExportDir: filepath.Join(dataDir, "exports"),
		Timer: TimerConfig{
			TickIntervalMs: 1000,
		},
		Notifications: NotifyConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "pomorks.log"),
		},
	}
}

func defaultDataDir() string {
	if dir, err := store.DefaultDataDir(); err == nil {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".pomorks")
}

// DefaultPath returns ~/.config/pomorks/config.json
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), FileName)
}

// LoadConfig reads path over the defaults. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Paths derived from DataDir are filled in after the file is applied.
	cfg := DefaultConfig()
	cfg.ExportDir, cfg.Log.File = "", ""
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return MergeWithDefaults(cfg), nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(cfg.DataDir, "exports")
	}
	if cfg.Timer.TickIntervalMs <= 0 {
		cfg.Timer.TickIntervalMs = defaults.Timer.TickIntervalMs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.DataDir, "pomorks.log")
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	return cfg
}

// ApplyEnv overrides settings from POMORKS_* variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("POMORKS_BACKEND"); v != "" {
		c.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv("POMORKS_DATA_DIR"); v != "" {
		old := c.DataDir
		c.DataDir = v
		if c.ExportDir == filepath.Join(old, "exports") {
			c.ExportDir = filepath.Join(v, "exports")
		}
		if c.Log.File == filepath.Join(old, "pomorks.log") {
			c.Log.File = filepath.Join(v, "pomorks.log")
		}
	}
	if v := getenv("POMORKS_POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := getenv("POMORKS_FAST"); v != "" {
		fast, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("POMORKS_FAST: %w", err)
		}
		c.Timer.FastMode = fast
	}
	if v := getenv("POMORKS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// TimeUnit is the length of one session unit.
func (c *Config) TimeUnit() time.Duration {
	if c.Timer.FastMode {
		return session.UnitFast
	}
	return session.UnitProduction
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Timer.TickIntervalMs) * time.Millisecond
}

// Package config loads application configuration from an optional YAML
// file with environment variable overrides. The engine treats all of
// these flags as externally owned and read-only.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AyushSagar16/stash/internal/escalation"
)

// Config holds application configuration
type Config struct {
	// DBPath is the SQLite database file path.
	// Default: ~/.stash/stash.db
	DBPath string

	// EscalationEnabled controls the automatic escalation scheduler.
	// Default: true
	EscalationEnabled bool

	// NotificationsEnabled controls escalation notifications.
	// Default: true
	NotificationsEnabled bool

	// EscalationInitialDelay is how long after startup the first
	// escalation pass fires. Default: 60s
	EscalationInitialDelay time.Duration

	// EscalationInterval is the period between escalation passes.
	// Default: 300s
	EscalationInterval time.Duration
}

// fileConfig is the YAML representation. Durations are strings parsed
// with time.ParseDuration ("60s", "5m").
type fileConfig struct {
	DBPath                 string `yaml:"db_path"`
	EscalationEnabled      *bool  `yaml:"escalation_enabled"`
	NotificationsEnabled   *bool  `yaml:"notifications_enabled"`
	EscalationInitialDelay string `yaml:"escalation_initial_delay"`
	EscalationInterval     string `yaml:"escalation_interval"`
}

// Default returns the default configuration
func Default() Config {
	dbPath := ".stash/stash.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".stash", "stash.db")
	}

	return Config{
		DBPath:                 dbPath,
		EscalationEnabled:      true,
		NotificationsEnabled:   true,
		EscalationInitialDelay: 60 * time.Second,
		EscalationInterval:     300 * time.Second,
	}
}

// DefaultPath returns the default config file location
// (~/.stash/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stash/config.yaml"
	}
	return filepath.Join(home, ".stash", "config.yaml")
}

// Load builds the effective configuration: defaults, overlaid by the
// YAML file at path (if it exists), overlaid by STASH_* environment
// variables.
//
// Environment variables:
//   - STASH_DB: database file path
//   - STASH_ESCALATION_ENABLED: enable the escalation scheduler (default: true)
//   - STASH_NOTIFICATIONS_ENABLED: enable escalation notifications (default: true)
//   - STASH_ESCALATION_INITIAL_DELAY: delay before the first pass (default: 60s)
//   - STASH_ESCALATION_INTERVAL: period between passes (default: 300s)
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if err := cfg.applyFile(fc); err != nil {
			return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyFile(fc fileConfig) error {
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.EscalationEnabled != nil {
		c.EscalationEnabled = *fc.EscalationEnabled
	}
	if fc.NotificationsEnabled != nil {
		c.NotificationsEnabled = *fc.NotificationsEnabled
	}
	if fc.EscalationInitialDelay != "" {
		d, err := time.ParseDuration(fc.EscalationInitialDelay)
		if err != nil {
			return fmt.Errorf("escalation_initial_delay: %w", err)
		}
		c.EscalationInitialDelay = d
	}
	if fc.EscalationInterval != "" {
		d, err := time.ParseDuration(fc.EscalationInterval)
		if err != nil {
			return fmt.Errorf("escalation_interval: %w", err)
		}
		c.EscalationInterval = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	if err := parseEnvString("STASH_DB", &c.DBPath); err != nil {
		return err
	}
	if err := parseEnvBool("STASH_ESCALATION_ENABLED", &c.EscalationEnabled); err != nil {
		return err
	}
	if err := parseEnvBool("STASH_NOTIFICATIONS_ENABLED", &c.NotificationsEnabled); err != nil {
		return err
	}
	if err := parseEnvDuration("STASH_ESCALATION_INITIAL_DELAY", &c.EscalationInitialDelay); err != nil {
		return err
	}
	if err := parseEnvDuration("STASH_ESCALATION_INTERVAL", &c.EscalationInterval); err != nil {
		return err
	}
	return nil
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if c.EscalationInitialDelay < 0 {
		return fmt.Errorf("escalation initial delay cannot be negative (got %v)", c.EscalationInitialDelay)
	}
	if c.EscalationInterval < time.Second {
		return fmt.Errorf("escalation interval must be at least 1s (got %v)", c.EscalationInterval)
	}
	return nil
}

// EscalationConfig derives the scheduler configuration.
func (c Config) EscalationConfig() escalation.Config {
	return escalation.Config{
		Enabled:       c.EscalationEnabled,
		InitialDelay:  c.EscalationInitialDelay,
		Interval:      c.EscalationInterval,
		Notifications: c.NotificationsEnabled,
	}
}

func parseEnvString(key string, dest *string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	*dest = value
	return nil
}

func parseEnvBool(key string, dest *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q (expected true/false)", key, value)
	}
	*dest = parsed
	return nil
}

func parseEnvDuration(key string, dest *time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q (expected duration like 60s or 5m)", key, value)
	}
	*dest = parsed
	return nil
}

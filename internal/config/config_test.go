package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every STASH_* variable the loader reads so tests do
// not inherit state from the surrounding shell. Empty values are
// treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STASH_DB",
		"STASH_ESCALATION_ENABLED",
		"STASH_NOTIFICATIONS_ENABLED",
		"STASH_ESCALATION_INITIAL_DELAY",
		"STASH_ESCALATION_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	// A path that does not exist falls through to defaults.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.EscalationEnabled {
		t.Error("escalation should default to enabled")
	}
	if !cfg.NotificationsEnabled {
		t.Error("notifications should default to enabled")
	}
	if cfg.EscalationInitialDelay != 60*time.Second {
		t.Errorf("initial delay = %v, want 60s", cfg.EscalationInitialDelay)
	}
	if cfg.EscalationInterval != 300*time.Second {
		t.Errorf("interval = %v, want 300s", cfg.EscalationInterval)
	}
	if cfg.DBPath == "" {
		t.Error("db path should have a default")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
db_path: /tmp/custom.db
escalation_enabled: false
notifications_enabled: false
escalation_initial_delay: 10s
escalation_interval: 2m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("db path = %q, want /tmp/custom.db", cfg.DBPath)
	}
	if cfg.EscalationEnabled {
		t.Error("escalation should be disabled by file")
	}
	if cfg.NotificationsEnabled {
		t.Error("notifications should be disabled by file")
	}
	if cfg.EscalationInitialDelay != 10*time.Second {
		t.Errorf("initial delay = %v, want 10s", cfg.EscalationInitialDelay)
	}
	if cfg.EscalationInterval != 2*time.Minute {
		t.Errorf("interval = %v, want 2m", cfg.EscalationInterval)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "db_path: /tmp/only-db.db\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/only-db.db" {
		t.Errorf("db path = %q, want /tmp/only-db.db", cfg.DBPath)
	}
	if !cfg.EscalationEnabled || !cfg.NotificationsEnabled {
		t.Error("unset file keys must keep defaults")
	}
	if cfg.EscalationInterval != 300*time.Second {
		t.Errorf("interval = %v, want default 300s", cfg.EscalationInterval)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
db_path: /tmp/from-file.db
escalation_interval: 10m
`)

	t.Setenv("STASH_DB", "/tmp/from-env.db")
	t.Setenv("STASH_ESCALATION_ENABLED", "false")
	t.Setenv("STASH_ESCALATION_INTERVAL", "90s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBPath != "/tmp/from-env.db" {
		t.Errorf("db path = %q, env must win over file", cfg.DBPath)
	}
	if cfg.EscalationEnabled {
		t.Error("STASH_ESCALATION_ENABLED=false ignored")
	}
	if cfg.EscalationInterval != 90*time.Second {
		t.Errorf("interval = %v, want 90s from env", cfg.EscalationInterval)
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{
			name: "bad bool env",
			env:  map[string]string{"STASH_ESCALATION_ENABLED": "maybe"},
		},
		{
			name: "bad duration env",
			env:  map[string]string{"STASH_ESCALATION_INTERVAL": "fast"},
		},
		{
			name: "negative initial delay",
			env:  map[string]string{"STASH_ESCALATION_INITIAL_DELAY": "-5s"},
		},
		{
			name: "interval below one second",
			env:  map[string]string{"STASH_ESCALATION_INTERVAL": "100ms"},
		},
		{
			name: "bad duration in file",
			file: "escalation_interval: soon\n",
		},
		{
			name: "malformed yaml",
			file: "db_path: [unterminated\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load should have failed")
			}
		})
	}
}

func TestEscalationConfig(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.EscalationEnabled = false
	cfg.NotificationsEnabled = false
	cfg.EscalationInitialDelay = 5 * time.Second
	cfg.EscalationInterval = time.Minute

	ec := cfg.EscalationConfig()
	if ec.Enabled || ec.Notifications {
		t.Error("flags did not carry through to the scheduler config")
	}
	if ec.InitialDelay != 5*time.Second || ec.Interval != time.Minute {
		t.Errorf("durations = %v/%v, want 5s/1m", ec.InitialDelay, ec.Interval)
	}
}

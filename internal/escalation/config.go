package escalation

import (
	"fmt"
	"time"
)

// Config holds escalation scheduler configuration
type Config struct {
	// Enabled controls whether automatic escalation runs at all.
	// When false, scheduled passes are skipped entirely.
	// Default: true
	Enabled bool

	// InitialDelay is how long after startup the first pass fires.
	// Default: 60s
	InitialDelay time.Duration

	// Interval is the period between passes after the first.
	// Default: 300s
	Interval time.Duration

	// Notifications controls whether escalations emit notifications.
	// Escalations still happen when this is false; they are just silent.
	// Default: true
	Notifications bool
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		InitialDelay:  60 * time.Second,
		Interval:      300 * time.Second,
		Notifications: true,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.InitialDelay < 0 {
		return fmt.Errorf("initial_delay cannot be negative (got %v)", c.InitialDelay)
	}
	if c.Interval < time.Second {
		return fmt.Errorf("interval must be at least 1s (got %v)", c.Interval)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf("escalation.Config{Enabled: %t, InitialDelay: %v, Interval: %v, Notifications: %t}",
		c.Enabled, c.InitialDelay, c.Interval, c.Notifications)
}

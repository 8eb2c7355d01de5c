// Package config handles configuration loading and validation for wingman.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/wingman/internal/core/item"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	UserID        string              `yaml:"user_id"`
	Reminders     Reminders           `yaml:"reminders"`
	Detector      DetectorConfig      `yaml:"detector"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Database      DatabaseConfig      `yaml:"database"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	DataDir       string              `yaml:"-"` // set by caller, not from config file
}

// Reminders configures the reminder scheduler.
type Reminders struct {
	CheckIntervalMs       int  `yaml:"check_interval_ms"`
	Task30Min             bool `yaml:"task_30min"`
	Task5Min              bool `yaml:"task_5min"`
	Event30Min            bool `yaml:"event_30min"`
	Event5Min             bool `yaml:"event_5min"`
	CompletionCelebration bool `yaml:"completion_celebration"`
	EnableLogging         bool `yaml:"enable_logging"`
}

// Interval returns the stage evaluation interval.
func (r Reminders) Interval() time.Duration {
	return time.Duration(r.CheckIntervalMs) * time.Millisecond
}

// Settings returns the reminder toggles as item settings. These apply when a
// user has no stored settings of their own.
func (r Reminders) Settings() item.Settings {
	return item.Settings{
		Task30MinReminder:  r.Task30Min,
		Task5MinReminder:   r.Task5Min,
		Event30MinReminder: r.Event30Min,
		Event5MinReminder:  r.Event5Min,
	}
}

// DetectorConfig configures the deadline failure detector.
type DetectorConfig struct {
	Enabled       bool `yaml:"enabled"`
	EnableLogging bool `yaml:"enable_logging"`
}

// NotificationsConfig configures notification delivery and history.
type NotificationsConfig struct {
	Desktop   bool          `yaml:"desktop"`
	Retention time.Duration `yaml:"retention"`
}

// DatabaseConfig configures the SQLite connection.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Reminders: Reminders{
			CheckIntervalMs:       60000,
			Task30Min:             true,
			Task5Min:              true,
			Event30Min:            true,
			Event5Min:             true,
			CompletionCelebration: true,
			EnableLogging:         true,
		},
		Detector: DetectorConfig{
			Enabled:       true,
			EnableLogging: true,
		},
		Notifications: NotificationsConfig{
			Desktop:   true,
			Retention: 7 * 24 * time.Hour,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 2,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset numeric options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Reminders.CheckIntervalMs == 0 {
		c.Reminders.CheckIntervalMs = defaults.Reminders.CheckIntervalMs
	}
	if c.Notifications.Retention == 0 {
		c.Notifications.Retention = defaults.Notifications.Retention
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// DatabasePath returns the SQLite file location inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "wingman.db")
}

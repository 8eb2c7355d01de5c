package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hay-kot/criterio"
)

// minCheckInterval is the smallest accepted reminder interval.
const minCheckInterval = time.Second

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, notEmpty),
		criterio.Run("reminders.check_interval_ms", c.Reminders.Interval(), atLeast(minCheckInterval)),
		criterio.Run("notifications.retention", c.Notifications.Retention, atLeast(time.Hour)),
		criterio.Run("database.max_open_conns", c.Database.MaxOpenConns, positive),
		criterio.Run("database.max_idle_conns", c.Database.MaxIdleConns, positive),
		criterio.Run("database.busy_timeout", c.Database.BusyTimeout, positive),
		criterio.Run("metrics.addr", c.Metrics.Addr, listenAddr),
	)
}

// ValidateDeep runs Validate and then checks file system access for the
// config file and data directory. An empty configPath skips the config file
// check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateUser(),
	)
}

// validateUser requires a user so the engines have something to load.
func (c *Config) validateUser() error {
	if c.UserID == "" {
		return criterio.NewFieldErrors("user_id", errors.New("is required to run reminders"))
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func isDirectoryOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func positive(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func atLeast(min time.Duration) func(time.Duration) error {
	return func(d time.Duration) error {
		if d < min {
			return fmt.Errorf("must be at least %s, got %s", min, d)
		}
		return nil
	}
}

func listenAddr(addr string) error {
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	return nil
}

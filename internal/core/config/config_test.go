package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, 60000, cfg.Reminders.CheckIntervalMs)
	assert.Equal(t, time.Minute, cfg.Reminders.Interval())
	assert.True(t, cfg.Reminders.Task30Min)
	assert.True(t, cfg.Reminders.Event5Min)
	assert.True(t, cfg.Detector.Enabled)
	assert.Equal(t, 168*time.Hour, cfg.Notifications.Retention)
}

func TestLoad_OverridesKeepUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
user_id: alice
reminders:
  check_interval_ms: 30000
  task_5min: false
notifications:
  retention: 24h
metrics:
  addr: 127.0.0.1:9464
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.UserID)
	assert.Equal(t, 30*time.Second, cfg.Reminders.Interval())
	assert.False(t, cfg.Reminders.Task5Min)
	assert.True(t, cfg.Reminders.Task30Min)
	assert.Equal(t, 24*time.Hour, cfg.Notifications.Retention)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
}

func TestLoad_ZeroNumbersFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reminders:\n  check_interval_ms: 0\n"), 0o644))

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 60000, cfg.Reminders.CheckIntervalMs)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reminders: [oops"), 0o644))

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestReminders_Settings(t *testing.T) {
	r := Reminders{Task30Min: true, Event5Min: true}
	s := r.Settings()

	assert.True(t, s.Task30MinReminder)
	assert.False(t, s.Task5MinReminder)
	assert.False(t, s.Event30MinReminder)
	assert.True(t, s.Event5MinReminder)
}

func TestDatabasePath(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "wingman.db"), cfg.DatabasePath())
}

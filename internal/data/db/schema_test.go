package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestOpen_FreshDatabaseAtLatestSchema(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	v, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), v)
	assert.Equal(t, 2, v)

	for _, table := range []string{"tasks", "calendar_events", "notifications", "reminder_settings"} {
		_, err = database.Conn().ExecContext(ctx, "SELECT 1 FROM "+table+" LIMIT 0")
		require.NoError(t, err, "%s table should exist", table)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	_, err = first.Queries().CreateTask(ctx, CreateTaskParams{
		UserID: "u1", Title: "keep me", TaskDate: "2026-10-15", TaskTime: "09:00", CreatedAt: 1, UpdatedAt: 1,
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	rows, err := second.Queries().ListTasksByDate(ctx, ListTasksByDateParams{UserID: "u1", TaskDate: "2026-10-15"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestUpgrade_ResumesFromRecordedVersion(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	// simulate a database that stopped after the first step
	_, err := conn.ExecContext(ctx, "DROP TABLE reminder_settings")
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "PRAGMA user_version = 1")
	require.NoError(t, err)

	require.NoError(t, upgrade(ctx, conn))

	v, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	_, err = conn.ExecContext(ctx, "SELECT 1 FROM reminder_settings LIMIT 0")
	assert.NoError(t, err)
}

func TestUpgrade_RejectsNewerSchema(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	_, err := database.Conn().ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", LatestSchemaVersion()+1))
	require.NoError(t, err)

	err = upgrade(ctx, database.Conn())
	require.ErrorIs(t, err, ErrSchemaTooNew)
}

func TestSchemaSteps_Contiguous(t *testing.T) {
	steps, err := schemaSteps()
	require.NoError(t, err)
	require.NotEmpty(t, steps)

	for i, s := range steps {
		assert.Equal(t, i+1, s.version)
		assert.NotEmpty(t, s.name)
		assert.NotEmpty(t, s.sql)
	}
}

func TestSplitStepName(t *testing.T) {
	tests := []struct {
		file        string
		wantVersion int
		wantName    string
		wantErr     bool
	}{
		{"0001_items.sql", 1, "items", false},
		{"0002_notifications_settings.sql", 2, "notifications_settings", false},
		{"0001_items.up.sql", 1, "items.up", false},
		{"items.sql", 0, "", true},
		{"0001_items.txt", 0, "", true},
		{"0000_zero.sql", 0, "", true},
		{"abc_items.sql", 0, "", true},
		{"0003_.sql", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, err := splitStepName(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

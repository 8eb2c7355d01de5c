package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/config"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/core/notify"
	"github.com/hay-kot/wingman/internal/data/db"
)

type staticCheck struct {
	name  string
	items []CheckItem
}

func (c staticCheck) Name() string { return c.name }

func (c staticCheck) Run(context.Context) Result {
	return Result{Name: c.name, Items: c.items}
}

func TestRunAllAndSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		staticCheck{name: "a", items: []CheckItem{{Status: StatusPass}, {Status: StatusWarn}}},
		staticCheck{name: "b", items: []CheckItem{{Status: StatusFail}, {Status: StatusPass}}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "b", results[1].Name)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

func TestConfigCheck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.UserID = "u1"

	result := NewConfigCheck(&cfg, "").Run(context.Background())
	assert.Equal(t, "Configuration", result.Name)
	for _, it := range result.Items {
		assert.Equal(t, StatusPass, it.Status, it.Label)
	}

	cfg.UserID = ""
	result = NewConfigCheck(&cfg, "").Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, "user_id", result.Items[0].Label)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestStorageCheck(t *testing.T) {
	dir := t.TempDir()
	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	result := NewStorageCheck(dir, database.Conn(), db.LatestSchemaVersion()).Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "integrity ok", result.Items[1].Detail)
	assert.Equal(t, "schema", result.Items[2].Label)
	assert.Equal(t, StatusPass, result.Items[2].Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".doctor-", "temp file left behind")
	}
}

func TestStorageCheck_Unwritable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	result := NewStorageCheck(missing, nil, 1).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "not writable")
	assert.Equal(t, StatusFail, result.Items[1].Status)
}

func TestStorageCheck_SchemaBehind(t *testing.T) {
	dir := t.TempDir()
	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	result := NewStorageCheck(dir, database.Conn(), db.LatestSchemaVersion()+1).Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, StatusWarn, result.Items[2].Status)
	assert.Contains(t, result.Items[2].Detail, "expected")
}

type fakeRequester struct {
	perm notify.Permission
	err  error
}

func (f fakeRequester) RequestPermission(context.Context) (notify.Permission, error) {
	return f.perm, f.err
}

func TestNotifierCheck(t *testing.T) {
	tests := []struct {
		name    string
		desktop PermissionRequester
		want    Status
	}{
		{"disabled", nil, StatusPass},
		{"granted", fakeRequester{perm: notify.PermissionGranted}, StatusPass},
		{"denied", fakeRequester{perm: notify.PermissionDenied}, StatusWarn},
		{"missing tool", fakeRequester{err: notify.ErrUnavailable}, StatusWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewNotifierCheck(tt.desktop).Run(context.Background())
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.want, result.Items[0].Status)
		})
	}
}

type fakeStore struct {
	tasks  []item.Task
	events []item.Event
	err    error
}

func (f *fakeStore) ListTodaysTasks(context.Context, string, string) ([]item.Task, error) {
	return f.tasks, f.err
}

func (f *fakeStore) ListTodaysEvents(context.Context, string, string) ([]item.Event, error) {
	return f.events, f.err
}

func (f *fakeStore) MarkTaskFailed(context.Context, int64, time.Time) error { return nil }

func (f *fakeStore) GetSettings(context.Context, string) (item.Settings, error) {
	return item.Settings{}, item.ErrNotFound
}

func TestScheduleCheck(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 10, 15, 10, 0, 0, 0, time.Local))
	store := &fakeStore{
		tasks: []item.Task{
			{ID: 1, Title: "Missed", Date: "2026-10-15", Time: "09:00"},
			{ID: 2, Title: "Done", Date: "2026-10-15", Time: "08:00", Completed: true},
			{ID: 3, Title: "Later", Date: "2026-10-15", Time: "11:00"},
		},
		events: []item.Event{{ID: 1, Title: "Standup", Date: "2026-10-15", Time: "09:30"}},
	}

	result := NewScheduleCheck(store, clk, "u1").Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, "3 scheduled for 2026-10-15", result.Items[0].Detail)
	assert.Equal(t, "1 scheduled for 2026-10-15", result.Items[1].Detail)
	assert.Equal(t, StatusWarn, result.Items[2].Status)
	assert.Contains(t, result.Items[2].Detail, "1 task(s) past due")
}

func TestScheduleCheck_StoreError(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 10, 15, 10, 0, 0, 0, time.Local))

	result := NewScheduleCheck(&fakeStore{err: errors.New("locked")}, clk, "u1").Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

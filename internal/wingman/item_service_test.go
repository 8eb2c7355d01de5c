package wingman

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/eventbus/testbus"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/data/db"
	"github.com/hay-kot/wingman/internal/data/stores"
)

var testNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)

func openDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func newTestItemService(t *testing.T) (*ItemService, *testbus.Bus) {
	t.Helper()

	adapter := stores.NewItemAdapter(openDB(t))
	tb := testbus.New(t)
	svc := NewItemService(adapter.Tasks, adapter.Events, adapter.Settings, tb.EventBus, clock.NewManual(testNow), zerolog.Nop())
	return svc, tb
}

func TestItemService_AddTask(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and publishes", func(t *testing.T) {
		svc, tb := newTestItemService(t)

		task, err := svc.AddTask(ctx, "u1", "  Write report ", "", "9:25 pm")
		require.NoError(t, err)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, "2026-10-15", task.Date)
		assert.Equal(t, "21:25", task.Time)

		tb.AssertPublished(t, eventbus.EventItemCreated)
		p := tb.Payloads(eventbus.EventItemCreated)[0].(eventbus.ItemPayload)
		assert.Equal(t, task.Snapshot(), p.Item)
	})

	t.Run("all day", func(t *testing.T) {
		svc, _ := newTestItemService(t)

		task, err := svc.AddTask(ctx, "u1", "Groceries", "2026-10-16", "all day")
		require.NoError(t, err)
		assert.Equal(t, item.AllDay, task.Time)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc, tb := newTestItemService(t)

		_, err := svc.AddTask(ctx, "u1", " ", "", "09:00")
		require.ErrorIs(t, err, ErrTitleRequired)

		_, err = svc.AddTask(ctx, "u1", "A", "15/10/2026", "09:00")
		require.ErrorIs(t, err, ErrInvalidDate)

		_, err = svc.AddTask(ctx, "u1", "A", "", "25:00")
		require.ErrorIs(t, err, clock.ErrInvalidTime)

		tb.AssertNotPublished(t, eventbus.EventItemCreated, 50*time.Millisecond)
	})
}

func TestItemService_CompleteAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, tb := newTestItemService(t)

	a, err := svc.AddTask(ctx, "u1", "A", "", "10:00")
	require.NoError(t, err)
	b, err := svc.AddTask(ctx, "u1", "B", "", "11:00")
	require.NoError(t, err)

	done, err := svc.CompleteTask(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	tb.AssertPublished(t, eventbus.EventItemCompleted)

	require.NoError(t, svc.DeleteTask(ctx, b.ID))
	tb.AssertPublished(t, eventbus.EventItemDeleted)

	tasks, err := svc.ListTasks(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	require.ErrorIs(t, svc.DeleteTask(ctx, b.ID), item.ErrNotFound)
}

func TestItemService_RenameTask(t *testing.T) {
	ctx := context.Background()
	svc, tb := newTestItemService(t)

	task, err := svc.AddTask(ctx, "u1", "A", "", "10:00")
	require.NoError(t, err)

	_, err = svc.RenameTask(ctx, task.ID, "A2", "")
	require.NoError(t, err)
	_, err = svc.RenameTask(ctx, task.ID, "A2", "10:30")
	require.NoError(t, err)

	require.True(t, tb.WaitFor(eventbus.EventItemUpdated, time.Second))
	require.Eventually(t, func() bool { return tb.Count(eventbus.EventItemUpdated) == 2 }, time.Second, 5*time.Millisecond)

	updates := tb.Payloads(eventbus.EventItemUpdated)
	assert.False(t, updates[0].(eventbus.ItemUpdatedPayload).Rescheduled)
	assert.True(t, updates[1].(eventbus.ItemUpdatedPayload).Rescheduled)
}

func TestItemService_RetryTask(t *testing.T) {
	ctx := context.Background()
	svc, tb := newTestItemService(t)

	task, err := svc.AddTask(ctx, "u1", "A", "", "08:00")
	require.NoError(t, err)

	_, err = svc.RetryTask(ctx, task.ID, "10:00")
	require.ErrorIs(t, err, ErrNotRetryable)

	require.NoError(t, svc.tasks.MarkFailed(ctx, task.ID, testNow))

	retried, err := svc.RetryTask(ctx, task.ID, "10:15")
	require.NoError(t, err)
	assert.False(t, retried.Failed)
	assert.Equal(t, "10:15", retried.Time)
	assert.Equal(t, "2026-10-15", retried.Date)

	tb.AssertPublished(t, eventbus.EventItemUpdated)
	tb.AssertPublished(t, eventbus.EventEngineRefreshRequested)

	p := tb.Payloads(eventbus.EventItemUpdated)[0].(eventbus.ItemUpdatedPayload)
	assert.True(t, p.Rescheduled)
	assert.False(t, p.Item.Resolved)
}

func TestItemService_Events(t *testing.T) {
	ctx := context.Background()
	svc, tb := newTestItemService(t)

	ev, err := svc.AddEvent(ctx, "u1", "Standup", "", "10:00", "meeting")
	require.NoError(t, err)
	tb.AssertPublished(t, eventbus.EventItemCreated)

	moved, err := svc.MoveEvent(ctx, ev.ID, "10:30")
	require.NoError(t, err)
	assert.Equal(t, "10:30", moved.Time)
	tb.AssertPublished(t, eventbus.EventItemUpdated)

	events, err := svc.ListEvents(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "meeting", events[0].Type)

	require.NoError(t, svc.DeleteEvent(ctx, ev.ID))
	tb.AssertPublished(t, eventbus.EventItemDeleted)
}

func TestItemService_Settings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestItemService(t)

	fallback := item.DefaultSettings()
	got, err := svc.Settings(ctx, "u1", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	custom := item.Settings{Event5MinReminder: true}
	require.NoError(t, svc.SaveSettings(ctx, "u1", custom))

	got, err = svc.Settings(ctx, "u1", fallback)
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

// failingTasks fails Create once okCreates tasks have been stored.
type failingTasks struct {
	item.TaskStore
	okCreates int
}

func (f *failingTasks) Create(ctx context.Context, task *item.Task) error {
	if f.okCreates == 0 {
		return errors.New("disk full")
	}
	f.okCreates--
	return f.TaskStore.Create(ctx, task)
}

func TestItemService_ImportTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("creates all", func(t *testing.T) {
		svc, tb := newTestItemService(t)

		created, err := svc.ImportTasks(ctx, "u1", []TaskDraft{
			{Title: "Write report", Time: "09:25"},
			{Title: "Gym", Date: "2026-10-16", Time: "6:00 pm"},
		})
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, "18:00", created[1].Time)
		assert.Equal(t, 2, tb.Count(eventbus.EventItemCreated))
	})

	t.Run("bad entry creates nothing", func(t *testing.T) {
		svc, tb := newTestItemService(t)

		created, err := svc.ImportTasks(ctx, "u1", []TaskDraft{
			{Title: "Fine", Time: "10:00"},
			{Title: "", Time: "10:00"},
			{Title: "Late", Time: "25:00"},
		})
		require.ErrorIs(t, err, ErrTitleRequired)
		require.ErrorIs(t, err, clock.ErrInvalidTime)
		assert.ErrorContains(t, err, "entry 1")
		assert.ErrorContains(t, err, "entry 2")
		assert.Empty(t, created)

		tasks, err := svc.ListTasks(ctx, "u1", "")
		require.NoError(t, err)
		assert.Empty(t, tasks)
		tb.AssertNotPublished(t, eventbus.EventItemCreated, 50*time.Millisecond)
	})

	t.Run("store failure reports progress", func(t *testing.T) {
		adapter := stores.NewItemAdapter(openDB(t))
		tasks := &failingTasks{TaskStore: adapter.Tasks, okCreates: 1}
		svc := NewItemService(tasks, adapter.Events, adapter.Settings, testbus.New(t).EventBus, clock.NewManual(testNow), zerolog.Nop())

		created, err := svc.ImportTasks(ctx, "u1", []TaskDraft{
			{Title: "A", Time: "10:00"},
			{Title: "B", Time: "11:00"},
			{Title: "C", Time: "12:00"},
		})
		require.ErrorContains(t, err, "1 of 3 created")
		require.Len(t, created, 1)
		assert.Equal(t, "A", created[0].Title)
	})
}

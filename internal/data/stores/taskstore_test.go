package stores

import (
	"context"
	"testing"
	"time"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestTaskStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		store := NewTaskStore(openDB(t))

		task := item.Task{UserID: "u1", Title: "Write report", Date: "2026-10-15", Time: "09:25"}
		require.NoError(t, store.Create(ctx, &task))
		assert.Positive(t, task.ID)
		assert.False(t, task.CreatedAt.IsZero())

		got, err := store.Get(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write report", got.Title)
		assert.Equal(t, "2026-10-15", got.Date)
		assert.Equal(t, "09:25", got.Time)
		assert.False(t, got.Completed)
		assert.False(t, got.Failed)
		assert.Equal(t, task.CreatedAt.UnixNano(), got.CreatedAt.UnixNano())
	})

	t.Run("get missing", func(t *testing.T) {
		store := NewTaskStore(openDB(t))

		_, err := store.Get(ctx, 999)
		assert.ErrorIs(t, err, item.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		store := NewTaskStore(openDB(t))

		task := item.Task{UserID: "u1", Title: "Retry me", Date: "2026-10-15", Time: "09:00"}
		require.NoError(t, store.Create(ctx, &task))

		task.Time = "11:00"
		task.Failed = false
		task.Completed = true
		task.UpdatedAt = time.Time{}
		require.NoError(t, store.Update(ctx, task))

		got, err := store.Get(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "11:00", got.Time)
		assert.True(t, got.Completed)
	})

	t.Run("update missing", func(t *testing.T) {
		store := NewTaskStore(openDB(t))

		err := store.Update(ctx, item.Task{ID: 42, Title: "ghost"})
		assert.ErrorIs(t, err, item.ErrNotFound)
	})

	t.Run("mark failed", func(t *testing.T) {
		store := NewTaskStore(openDB(t))

		task := item.Task{UserID: "u1", Title: "Late", Date: "2026-10-15", Time: "09:00"}
		require.NoError(t, store.Create(ctx, &task))

		at := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
		require.NoError(t, store.MarkFailed(ctx, task.ID, at))

		got, err := store.Get(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, got.Failed)
		assert.True(t, got.Resolved())
		assert.Equal(t, at.UnixNano(), got.UpdatedAt.UnixNano())
	})

	t.Run("mark failed missing", func(t *testing.T) {
		store := NewTaskStore(openDB(t))

		err := store.MarkFailed(ctx, 7, time.Now())
		assert.ErrorIs(t, err, item.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := NewTaskStore(openDB(t))

		task := item.Task{UserID: "u1", Title: "Gone", Date: "2026-10-15"}
		require.NoError(t, store.Create(ctx, &task))
		require.NoError(t, store.Delete(ctx, task.ID))

		assert.ErrorIs(t, store.Delete(ctx, task.ID), item.ErrNotFound)
	})

	t.Run("list by date scoped to user", func(t *testing.T) {
		store := NewTaskStore(openDB(t))

		for _, task := range []item.Task{
			{UserID: "u1", Title: "b", Date: "2026-10-15", Time: "10:05"},
			{UserID: "u1", Title: "a", Date: "2026-10-15", Time: "09:00"},
			{UserID: "u1", Title: "tomorrow", Date: "2026-10-16", Time: "09:00"},
			{UserID: "u2", Title: "not mine", Date: "2026-10-15", Time: "09:00"},
		} {
			require.NoError(t, store.Create(ctx, &task))
		}

		tasks, err := store.ListByDate(ctx, "u1", "2026-10-15")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "a", tasks[0].Title)
		assert.Equal(t, "b", tasks[1].Title)
	})
}

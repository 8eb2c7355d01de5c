package stores

import (
	"context"
	"time"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/data/db"
)

// busyRetryDelay is how long MarkTaskFailed waits before its single retry
// when SQLite reports the database is busy.
const busyRetryDelay = 50 * time.Millisecond

// ItemAdapter exposes the task, event and settings stores as the narrow
// item.Store the reminder engines consume.
type ItemAdapter struct {
	Tasks    *TaskStore
	Events   *EventStore
	Settings *SettingsStore
}

var _ item.Store = (*ItemAdapter)(nil)

// NewItemAdapter creates an ItemAdapter over a single database.
func NewItemAdapter(database *db.DB) *ItemAdapter {
	return &ItemAdapter{
		Tasks:    NewTaskStore(database),
		Events:   NewEventStore(database),
		Settings: NewSettingsStore(database),
	}
}

func (a *ItemAdapter) ListTodaysTasks(ctx context.Context, userID, date string) ([]item.Task, error) {
	return a.Tasks.ListByDate(ctx, userID, date)
}

func (a *ItemAdapter) ListTodaysEvents(ctx context.Context, userID, date string) ([]item.Event, error) {
	return a.Events.ListByDate(ctx, userID, date)
}

// MarkTaskFailed retries once when SQLite reports SQLITE_BUSY.
func (a *ItemAdapter) MarkTaskFailed(ctx context.Context, taskID int64, at time.Time) error {
	err := a.Tasks.MarkFailed(ctx, taskID, at)
	if err == nil || !IsBusyError(err) {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(busyRetryDelay):
	}
	return a.Tasks.MarkFailed(ctx, taskID, at)
}

func (a *ItemAdapter) GetSettings(ctx context.Context, userID string) (item.Settings, error) {
	return a.Settings.Get(ctx, userID)
}

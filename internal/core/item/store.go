package item

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a task, event or settings row does not exist.
var ErrNotFound = errors.New("item not found")

// TaskStore persists tasks.
type TaskStore interface {
	// Create persists a new task and populates its ID and timestamps.
	Create(ctx context.Context, task *Task) error

	// Get returns a task by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id int64) (Task, error)

	// ListByDate returns a user's tasks for date, ordered by time.
	ListByDate(ctx context.Context, userID, date string) ([]Task, error)

	// Update overwrites a task's mutable fields and bumps UpdatedAt.
	Update(ctx context.Context, task Task) error

	// Delete removes a task. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// MarkFailed sets failed=true and updated_at=at.
	MarkFailed(ctx context.Context, id int64, at time.Time) error
}

// EventStore persists calendar events.
type EventStore interface {
	Create(ctx context.Context, event *Event) error
	Get(ctx context.Context, id int64) (Event, error)
	ListByDate(ctx context.Context, userID, date string) ([]Event, error)
	Update(ctx context.Context, event Event) error
	Delete(ctx context.Context, id int64) error
}

// SettingsStore persists per-user reminder toggles.
type SettingsStore interface {
	// Get returns ErrNotFound when the user never saved settings.
	Get(ctx context.Context, userID string) (Settings, error)
	Save(ctx context.Context, userID string, s Settings) error
}

// Store is the capability surface the reminder engines depend on.
type Store interface {
	ListTodaysTasks(ctx context.Context, userID, date string) ([]Task, error)
	ListTodaysEvents(ctx context.Context, userID, date string) ([]Event, error)
	MarkTaskFailed(ctx context.Context, taskID int64, at time.Time) error
	GetSettings(ctx context.Context, userID string) (Settings, error)
}

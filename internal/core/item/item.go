// Package item defines the scheduled-item domain model (tasks and calendar
// events) shared by the stores, the item service and the reminder engines.
package item

import (
	"fmt"
	"time"

	"github.com/hay-kot/wingman/internal/core/clock"
)

// Kind distinguishes tasks from calendar events.
type Kind string

const (
	KindTask  Kind = "task"
	KindEvent Kind = "event"
)

// AllDay is the time-of-day sentinel for items without a specific time.
const AllDay = "All day"

// Task is a to-do scheduled for a date, optionally at a time of day.
type Task struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Date      string    `json:"task_date"`
	Time      string    `json:"task_time,omitempty"`
	Completed bool      `json:"completed"`
	Failed    bool      `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resolved reports whether the task is completed or already failed.
func (t Task) Resolved() bool { return t.Completed || t.Failed }

// Snapshot returns the bus representation of the task.
func (t Task) Snapshot() Snapshot {
	return Snapshot{
		ID:            t.ID,
		Kind:          KindTask,
		Title:         t.Title,
		ScheduledTime: t.Time,
		ScheduledDate: t.Date,
		OwnerID:       t.UserID,
		Resolved:      t.Resolved(),
	}
}

// Event is a calendar entry. Events have no completed/failed state.
type Event struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Date        string    `json:"event_date"`
	Time        string    `json:"event_time,omitempty"`
	Type        string    `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns the bus representation of the event.
func (e Event) Snapshot() Snapshot {
	return Snapshot{
		ID:            e.ID,
		Kind:          KindEvent,
		Title:         e.Title,
		ScheduledTime: e.Time,
		ScheduledDate: e.Date,
		OwnerID:       e.UserID,
	}
}

// Snapshot is the kind-agnostic view of a task or event carried on the event
// bus and consumed by the reminder scheduler.
type Snapshot struct {
	ID            int64  `json:"id"`
	Kind          Kind   `json:"kind"`
	Title         string `json:"title"`
	ScheduledTime string `json:"scheduled_time"`
	ScheduledDate string `json:"scheduled_date"`
	OwnerID       string `json:"owner_id"`
	Resolved      bool   `json:"resolved"`
}

// Key identifies the item across kinds, e.g. "task-12".
func (s Snapshot) Key() string { return Key(s.Kind, s.ID) }

// HasTime reports whether the item carries a concrete, well-formed time of day.
func (s Snapshot) HasTime() bool {
	return s.ScheduledTime != "" && s.ScheduledTime != AllDay && clock.ValidTime(s.ScheduledTime)
}

// Key builds the working-set key for an item of the given kind.
func Key(kind Kind, id int64) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

// Settings holds a user's reminder toggles.
type Settings struct {
	Task30MinReminder  bool `json:"task_30min_reminder"`
	Task5MinReminder   bool `json:"task_5min_reminder"`
	Event30MinReminder bool `json:"event_30min_reminder"`
	Event5MinReminder  bool `json:"event_5min_reminder"`
}

// DefaultSettings enables every reminder stage.
func DefaultSettings() Settings {
	return Settings{
		Task30MinReminder:  true,
		Task5MinReminder:   true,
		Event30MinReminder: true,
		Event5MinReminder:  true,
	}
}

// ThirtyMin reports whether the 30-minute stage is enabled for kind.
func (s Settings) ThirtyMin(kind Kind) bool {
	if kind == KindEvent {
		return s.Event30MinReminder
	}
	return s.Task30MinReminder
}

// FiveMin reports whether the 5-minute stage is enabled for kind.
func (s Settings) FiveMin(kind Kind) bool {
	if kind == KindEvent {
		return s.Event5MinReminder
	}
	return s.Task5MinReminder
}

// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within wingman.
package eventbus

import (
	"time"

	"github.com/hay-kot/wingman/internal/core/config"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/core/notify"
)

// Event is the name of a bus event.
type Event string

const (
	// Keep list sorted A-Z
	EventConfigReloaded         Event = "config.reloaded"
	EventDashboardRefresh       Event = "dashboard.refresh"
	EventEngineRefreshRequested Event = "engine.refresh-requested"
	EventItemCompleted          Event = "item.completed"
	EventItemCreated            Event = "item.created"
	EventItemDeleted            Event = "item.deleted"
	EventItemUpdated            Event = "item.updated"
	EventNotificationPublished  Event = "notification.published"
	EventNotificationsRefresh   Event = "notifications.refresh"
	EventTaskFailed             Event = "task.failed"
	EventTasksFailedUpdate      Event = "tasks.failed-update"
)

// Events lists every event the bus carries.
var Events = []Event{
	EventConfigReloaded,
	EventDashboardRefresh,
	EventEngineRefreshRequested,
	EventItemCompleted,
	EventItemCreated,
	EventItemDeleted,
	EventItemUpdated,
	EventNotificationPublished,
	EventNotificationsRefresh,
	EventTaskFailed,
	EventTasksFailedUpdate,
}

// ItemPayload is emitted when a task or event is created, deleted or completed.
type ItemPayload struct {
	Item item.Snapshot
}

// ItemUpdatedPayload is emitted when a task or event changes. Rescheduled is
// true when the update supplied a new time of day.
type ItemUpdatedPayload struct {
	Item        item.Snapshot
	Rescheduled bool
}

// EngineRefreshRequestedPayload asks the reminder scheduler to reload its
// working set from the store.
type EngineRefreshRequestedPayload struct {
	Reason string
}

// TaskFailedPayload is emitted when the scheduler marks a single task failed
// at its terminal stage.
type TaskFailedPayload struct {
	TaskID int64
	Title  string
}

// TasksFailedUpdatePayload is the single batched result of a detection pass.
type TasksFailedUpdatePayload struct {
	PassID        string
	FailedTaskIDs []int64
	TotalFailed   int
	AffectedDate  string
	Timestamp     time.Time
}

// RefreshPayload tells views to re-read state. Source names the component
// that caused the refresh ("reminder" or "deadline").
type RefreshPayload struct {
	Source        string
	FailedTaskIDs []int64
	AffectedDate  string
	Timestamp     time.Time
}

// NotificationPublishedPayload carries a notification for the in-app feed.
type NotificationPublishedPayload struct {
	Notification notify.Notification
}

// ConfigReloadedPayload is emitted when configuration is reloaded.
type ConfigReloadedPayload struct {
	Config *config.Config
}

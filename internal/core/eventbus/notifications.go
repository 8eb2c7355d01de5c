package eventbus

import (
	"fmt"

	"github.com/hay-kot/wingman/internal/core/notify"
)

// NotificationRouter maps engine broadcasts that have no notification of
// their own into in-app feed entries.
type NotificationRouter struct {
	bus    *EventBus
	unsubs []func()
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.unsubs = append(r.unsubs,
		r.bus.SubscribeTasksFailedUpdate(func(p TasksFailedUpdatePayload) {
			if p.TotalFailed == 0 {
				return
			}
			noun := "tasks"
			if p.TotalFailed == 1 {
				noun = "task"
			}
			r.notifyf(notify.LevelWarning, "Missed Deadlines", "%d %s for %s marked as failed", p.TotalFailed, noun, p.AffectedDate)
		}),
		r.bus.SubscribeConfigReloaded(func(p ConfigReloadedPayload) {
			if p.Config == nil {
				return
			}
			r.notifyf(notify.LevelInfo, "Settings", "configuration reloaded")
		}),
	)
}

// Unregister removes every subscription made by Register.
func (r *NotificationRouter) Unregister() {
	for _, fn := range r.unsubs {
		fn()
	}
	r.unsubs = nil
}

func (r *NotificationRouter) notifyf(level notify.Level, title, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Notification: notify.Notification{
			Level:   level,
			Title:   title,
			Message: fmt.Sprintf(format, args...),
		},
	})
}

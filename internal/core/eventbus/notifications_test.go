package eventbus_test

import (
	"testing"
	"time"

	"github.com/hay-kot/wingman/internal/core/config"
	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/eventbus/testbus"
	"github.com/hay-kot/wingman/internal/core/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func latestNotification(tb *testbus.Bus, t *testing.T) notify.Notification {
	t.Helper()
	tb.AssertPublished(t, eventbus.EventNotificationPublished)

	payloads := tb.Payloads(eventbus.EventNotificationPublished)
	require.NotEmpty(t, payloads)
	p, ok := payloads[len(payloads)-1].(eventbus.NotificationPublishedPayload)
	require.True(t, ok)
	return p.Notification
}

func TestNotificationRouter_TasksFailedUpdate(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishTasksFailedUpdate(eventbus.TasksFailedUpdatePayload{
		FailedTaskIDs: []int64{1, 2},
		TotalFailed:   2,
		AffectedDate:  "2026-10-15",
	})
	n := latestNotification(tb, t)

	assert.Equal(t, notify.LevelWarning, n.Level)
	assert.Equal(t, "2 tasks for 2026-10-15 marked as failed", n.Message)
}

func TestNotificationRouter_TasksFailedUpdate_singular(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishTasksFailedUpdate(eventbus.TasksFailedUpdatePayload{TotalFailed: 1, AffectedDate: "2026-10-15"})
	n := latestNotification(tb, t)

	assert.Contains(t, n.Message, "1 task for")
}

func TestNotificationRouter_ConfigReloaded(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	cfg := config.DefaultConfig()
	tb.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Config: &cfg})
	n := latestNotification(tb, t)

	assert.Equal(t, notify.LevelInfo, n.Level)
}

func TestNotificationRouter_ZeroFailed_doesNotPublish(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishTasksFailedUpdate(eventbus.TasksFailedUpdatePayload{})
	tb.AssertNotPublished(t, eventbus.EventNotificationPublished, 100*time.Millisecond)
}

func TestNotificationRouter_Unregister(t *testing.T) {
	tb := testbus.New(t)
	r := eventbus.NewNotificationRouter(tb.EventBus)
	r.Register()
	r.Unregister()

	tb.PublishTasksFailedUpdate(eventbus.TasksFailedUpdatePayload{TotalFailed: 3})
	tb.AssertNotPublished(t, eventbus.EventNotificationPublished, 100*time.Millisecond)
}

package reminder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/core/logging"
	"github.com/hay-kot/wingman/internal/core/notify"
	"github.com/hay-kot/wingman/internal/metrics"
)

// Stage names a notification checkpoint.
type Stage string

const (
	StageThirtyMin   Stage = "30min"
	StageFiveMin     Stage = "5min"
	StageTerminal    Stage = "terminal"
	StageCelebration Stage = "celebration"
)

var celebrations = []string{
	"Outstanding work, boss! 🎉",
	"Mission accomplished! 💪",
	"Another one bites the dust! ✅",
	"You're on fire today! 🔥",
	"Crushed it! Keep the momentum going! 🚀",
}

// firing is a stage that was claimed under the lock and still needs its
// side effects performed.
type firing struct {
	snap  item.Snapshot
	stage Stage
}

// tick runs one timer pass. The first tick after Start is skipped.
func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	if s.suppressInitial {
		s.suppressInitial = false
		s.lastCheck = clock.NowTimeString(s.clock)
		s.mu.Unlock()
		s.log.Debug().Msg("skipping first tick after start")
		return
	}
	// an empty loadedDate means the last load failed
	stale := s.loadedDate != clock.TodayDateString(s.clock)
	s.mu.Unlock()

	if stale {
		if err := s.ForceRefresh(ctx); err != nil {
			s.log.Error().Err(err).Msg("reloading working set")
		}
	}

	s.evaluate(ctx)
}

// evaluate advances every working-set item through its stages. Flags are set
// and terminal items removed under the lock; notifications and store writes
// happen after it is released.
func (s *Scheduler) evaluate(ctx context.Context) {
	settings := s.settings(ctx)
	now := s.clock.Now()
	today := clock.DateString(now)
	nowMin := clock.MinuteOfDay(now)

	var fired []firing

	s.mu.Lock()
	for key, mi := range s.items {
		if mi.ScheduledDate != today {
			continue
		}

		due, err := clock.ParseMinutes(mi.ScheduledTime)
		if err != nil {
			delete(s.items, key)
			continue
		}
		until := due - nowMin

		if until > 5 && until <= 30 && !mi.NotifiedThirtyMin && settings.ThirtyMin(mi.Kind) {
			mi.NotifiedThirtyMin = true
			fired = append(fired, firing{snap: mi.Snapshot, stage: StageThirtyMin})
		}

		if until > 0 && until <= 5 && !mi.NotifiedFiveMin && settings.FiveMin(mi.Kind) {
			mi.NotifiedFiveMin = true
			fired = append(fired, firing{snap: mi.Snapshot, stage: StageFiveMin})
		}

		if until <= 0 && !mi.NotifiedTerminal {
			mi.NotifiedTerminal = true
			fired = append(fired, firing{snap: mi.Snapshot, stage: StageTerminal})
			delete(s.items, key)
		}
	}
	s.lastCheck = clock.TimeString(now)
	metrics.ActiveItems.Set(float64(len(s.items)))
	s.mu.Unlock()

	for _, f := range fired {
		s.fire(ctx, f, now)
	}
}

func (s *Scheduler) fire(ctx context.Context, f firing, now time.Time) {
	ctx = logging.WithItem(ctx, f.snap.Key())

	if f.stage == StageTerminal && f.snap.Kind == item.KindTask {
		s.failTask(ctx, f.snap, now)
		return
	}

	s.show(ctx, f.snap.Kind, f.stage, stageNotification(f.snap, f.stage))
}

// failTask notifies that a task is overdue, persists failed=true and
// broadcasts the failure. A failed write is left for the deadline detector.
func (s *Scheduler) failTask(ctx context.Context, snap item.Snapshot, now time.Time) {
	s.show(ctx, snap.Kind, StageTerminal, stageNotification(snap, StageTerminal))

	if err := s.store.MarkTaskFailed(ctx, snap.ID, now); err != nil {
		metrics.StoreErrors.WithLabelValues("mark_failed").Inc()
		s.log.Error().Ctx(ctx).Err(err).Int64("task_id", snap.ID).Msg("marking task failed")
		return
	}
	metrics.TasksFailed.WithLabelValues("reminder").Inc()

	if s.bus == nil {
		return
	}

	s.bus.PublishTaskFailed(eventbus.TaskFailedPayload{TaskID: snap.ID, Title: snap.Title})
	refresh := eventbus.RefreshPayload{
		Source:        "reminder",
		FailedTaskIDs: []int64{snap.ID},
		AffectedDate:  snap.ScheduledDate,
		Timestamp:     now,
	}
	s.bus.PublishDashboardRefresh(refresh)
	s.bus.PublishNotificationsRefresh(refresh)
}

// show delivers n through the sink. Errors are logged and counted.
func (s *Scheduler) show(ctx context.Context, kind item.Kind, stage Stage, n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock.Now()
	}

	if err := s.sink.Show(ctx, n); err != nil {
		metrics.NotificationErrors.WithLabelValues("delivery").Inc()
		s.log.Error().Ctx(ctx).Err(err).Str("stage", string(stage)).Msg("showing notification")
		return
	}

	metrics.NotificationsSent.WithLabelValues(string(kind), string(stage)).Inc()
	s.log.Info().Ctx(ctx).Str("stage", string(stage)).Str("title", n.Title).Msg("notification shown")
}

func stageNotification(snap item.Snapshot, stage Stage) notify.Notification {
	n := notify.Notification{Kind: string(snap.Kind), Level: notify.LevelInfo}
	isTask := snap.Kind == item.KindTask

	switch stage {
	case StageThirtyMin, StageFiveMin:
		mins := 30
		n.Title = "Task Reminder"
		if !isTask {
			n.Title = "Event Reminder"
		}
		if stage == StageFiveMin {
			mins = 5
			n.Level = notify.LevelWarning
			n.Title = "Task Alert"
			if !isTask {
				n.Title = "Event Alert"
			}
		}

		verb := "is due"
		if !isTask {
			verb = "starts"
		}
		n.Message = fmt.Sprintf("%q %s in %d minutes at %s", snap.Title, verb, mins, snap.ScheduledTime)

	case StageTerminal:
		if isTask {
			n.Level = notify.LevelError
			n.Title = "Task Overdue"
			n.Message = fmt.Sprintf("%q was due at %s and has failed.", snap.Title, snap.ScheduledTime)
		} else {
			n.Level = notify.LevelWarning
			n.Title = "Event Starting"
			n.Message = fmt.Sprintf("%q is starting now!", snap.Title)
		}

	case StageCelebration:
		n.Title = "🎉 Task Complete!"
		n.Message = celebrations[rand.IntN(len(celebrations))]
	}

	return n
}

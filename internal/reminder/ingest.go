package reminder

import (
	"context"

	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/core/logging"
	"github.com/hay-kot/wingman/internal/metrics"
)

func (s *Scheduler) subscribe() []func() {
	if s.bus == nil {
		return nil
	}

	return []func(){
		s.bus.SubscribeItemCreated(s.onCreated),
		s.bus.SubscribeItemUpdated(s.onUpdated),
		s.bus.SubscribeItemDeleted(s.onDeleted),
		s.bus.SubscribeItemCompleted(s.onCompleted),
		s.bus.SubscribeEngineRefreshRequested(s.onRefreshRequested),
		s.bus.SubscribeConfigReloaded(func(p eventbus.ConfigReloadedPayload) {
			if p.Config != nil {
				s.SetReminders(p.Config.Reminders)
			}
		}),
	}
}

func (s *Scheduler) onCreated(p eventbus.ItemPayload) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(p.Item.Key())
	if !s.qualifies(p.Item, now) {
		s.log.Debug().Str("item", p.Item.Key()).Msg("created item not scheduled")
		return
	}
	s.items[p.Item.Key()] = &MonitoredItem{Snapshot: p.Item}
	metrics.ActiveItems.Set(float64(len(s.items)))
}

// onUpdated drops items that became resolved or lost their future time. Any
// other update replaces the entry and restarts its stage sequence.
func (s *Scheduler) onUpdated(p eventbus.ItemUpdatedPayload) {
	now := s.clock.Now()
	key := p.Item.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { metrics.ActiveItems.Set(float64(len(s.items))) }()

	s.touch(key)
	if !s.qualifies(p.Item, now) {
		delete(s.items, key)
		return
	}

	s.items[key] = &MonitoredItem{Snapshot: p.Item}
	s.log.Debug().
		Str("item", key).
		Str("time", p.Item.ScheduledTime).
		Bool("rescheduled", p.Rescheduled).
		Msg("item updated, stages reset")
}

func (s *Scheduler) onDeleted(p eventbus.ItemPayload) {
	s.remove(p.Item.Key())
}

// onCompleted removes the item and, for tasks, shows a celebration.
func (s *Scheduler) onCompleted(p eventbus.ItemPayload) {
	s.remove(p.Item.Key())

	if p.Item.Kind != item.KindTask {
		return
	}

	s.mu.Lock()
	celebrate := s.reminders.CompletionCelebration
	s.mu.Unlock()
	if !celebrate {
		return
	}

	ctx := logging.WithItem(context.Background(), p.Item.Key())
	s.show(ctx, p.Item.Kind, StageCelebration, stageNotification(p.Item, StageCelebration))
}

func (s *Scheduler) onRefreshRequested(p eventbus.EngineRefreshRequestedPayload) {
	if err := s.ForceRefresh(context.Background()); err != nil {
		s.log.Error().Err(err).Str("reason", p.Reason).Msg("refreshing working set")
	}
}

func (s *Scheduler) remove(key string) {
	s.mu.Lock()
	s.touch(key)
	delete(s.items, key)
	metrics.ActiveItems.Set(float64(len(s.items)))
	s.mu.Unlock()
}

// touch records that key changed while a reload is reading the store, so the
// reload keeps the live entry instead of its older snapshot. Callers hold mu.
func (s *Scheduler) touch(key string) {
	if s.touched != nil {
		s.touched[key] = struct{}{}
	}
}

// Package reminder implements the active-item notification scheduler. It
// tracks today's future, unresolved tasks and events, walks each one through
// the 30-minute, 5-minute and terminal notification stages on a fixed
// interval, and keeps its working set current from item bus events.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/config"
	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/core/logging"
	"github.com/hay-kot/wingman/internal/core/notify"
	"github.com/hay-kot/wingman/internal/metrics"
)

// DefaultInterval is used when the configured check interval is not positive.
const DefaultInterval = time.Minute

// MonitoredItem is a working-set entry. Stage flags only move from false to
// true, except on an item update where all three reset together.
type MonitoredItem struct {
	item.Snapshot
	NotifiedThirtyMin bool `json:"notified_thirty_min"`
	NotifiedFiveMin   bool `json:"notified_five_min"`
	NotifiedTerminal  bool `json:"notified_terminal"`
}

// Options configures a Scheduler.
type Options struct {
	UserID    string
	Reminders config.Reminders
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	Running       bool          `json:"running"`
	ActiveItems   int           `json:"active_items"`
	LastCheckTime string        `json:"last_check_time"`
	Interval      time.Duration `json:"interval"`
}

// Scheduler owns the working set and the evaluation timer. Create one per
// process with New and share it by pointer.
type Scheduler struct {
	store  item.Store
	sink   notify.Sink
	bus    *eventbus.EventBus
	clock  clock.Clock
	userID string
	log    zerolog.Logger
	group  singleflight.Group

	mu              sync.Mutex
	running         bool
	reminders       config.Reminders
	items           map[string]*MonitoredItem
	loadedDate      string
	touched         map[string]struct{}
	lastCheck       string
	suppressInitial bool
	ticker          *time.Ticker
	cancel          context.CancelFunc
	unsubs          []func()
}

// New creates a Scheduler. bus may be nil, in which case the scheduler
// neither ingests item events nor publishes failures.
func New(store item.Store, sink notify.Sink, bus *eventbus.EventBus, clk clock.Clock, opts Options) *Scheduler {
	return &Scheduler{
		store:     store,
		sink:      sink,
		bus:       bus,
		clock:     clk,
		userID:    opts.UserID,
		reminders: opts.Reminders,
		log:       logging.Engine("reminder", opts.Reminders.EnableLogging),
		items:     make(map[string]*MonitoredItem),
	}
}

// Start requests notification permission, loads today's items, subscribes to
// item events and begins the evaluation timer. The first tick after Start
// only records the check time. Calling Start while running is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn().Msg("scheduler already running")
		return
	}
	s.running = true
	s.suppressInitial = true
	interval := intervalOf(s.reminders)
	s.mu.Unlock()

	if perm, err := s.sink.RequestPermission(ctx); err != nil {
		s.log.Warn().Err(err).Msg("notification permission request failed")
	} else {
		s.log.Debug().Str("permission", string(perm)).Msg("notification permission")
	}

	unsubs := s.subscribe()

	if err := s.ForceRefresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("initial load failed")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	ticker := time.NewTicker(interval)

	s.mu.Lock()
	s.ticker = ticker
	s.cancel = cancel
	s.unsubs = unsubs
	s.mu.Unlock()

	s.log.Info().
		Str("user_id", s.userID).
		Dur("interval", interval).
		Int("items", s.Status().ActiveItems).
		Msg("scheduler started")

	go s.loop(loopCtx, ticker)
}

func (s *Scheduler) loop(ctx context.Context, ticker *time.Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// a pass that is already running finishes even if Stop is called
			s.tick(context.WithoutCancel(ctx))
		}
	}
}

// Stop cancels the timer and unsubscribes from the bus. An in-flight pass
// runs to completion. Calling Stop when not running is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.log.Warn().Msg("scheduler not running")
		return
	}
	s.running = false
	cancel := s.cancel
	unsubs := s.unsubs
	s.cancel = nil
	s.unsubs = nil
	s.ticker = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, unsub := range unsubs {
		unsub()
	}

	s.log.Info().Msg("scheduler stopped")
}

// ForceRefresh reloads the working set from the store. Concurrent callers
// share a single reload.
func (s *Scheduler) ForceRefresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		return nil, s.load(ctx)
	})
	return err
}

// Status reports whether the scheduler is running and the size of its
// working set.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Running:       s.running,
		ActiveItems:   len(s.items),
		LastCheckTime: s.lastCheck,
		Interval:      intervalOf(s.reminders),
	}
}

// Items returns a copy of the working set ordered by scheduled time.
func (s *Scheduler) Items() []MonitoredItem {
	s.mu.Lock()
	out := make([]MonitoredItem, 0, len(s.items))
	for _, mi := range s.items {
		out = append(out, *mi)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledTime != out[j].ScheduledTime {
			return out[i].ScheduledTime < out[j].ScheduledTime
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

// SetReminders replaces the reminder toggles and, while running, the tick
// interval. The logging toggle only applies to new schedulers.
func (s *Scheduler) SetReminders(r config.Reminders) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil && intervalOf(r) != intervalOf(s.reminders) {
		s.ticker.Reset(intervalOf(r))
	}
	s.reminders = r
}

// load replaces the working set with today's qualifying items. Entries that
// are still tracked at the same time keep their stage flags. Items created,
// updated or removed through the bus while the store is being read keep
// their live state.
func (s *Scheduler) load(ctx context.Context) error {
	now := s.clock.Now()
	today := clock.DateString(now)

	s.mu.Lock()
	s.touched = make(map[string]struct{})
	s.mu.Unlock()

	snaps, err := s.readToday(ctx, today)

	s.mu.Lock()
	defer s.mu.Unlock()

	touched := s.touched
	s.touched = nil
	if err != nil {
		// the next tick retries
		s.loadedDate = ""
		return err
	}

	next := make(map[string]*MonitoredItem, len(snaps))
	for _, snap := range snaps {
		key := snap.Key()
		if _, ok := touched[key]; ok || !s.qualifies(snap, now) {
			continue
		}
		mi := &MonitoredItem{Snapshot: snap}
		if prev, ok := s.items[key]; ok && prev.ScheduledTime == snap.ScheduledTime {
			mi.NotifiedThirtyMin = prev.NotifiedThirtyMin
			mi.NotifiedFiveMin = prev.NotifiedFiveMin
			mi.NotifiedTerminal = prev.NotifiedTerminal
		}
		next[key] = mi
	}
	for key := range touched {
		if mi, ok := s.items[key]; ok {
			next[key] = mi
		}
	}

	s.items = next
	s.loadedDate = today
	metrics.ActiveItems.Set(float64(len(next)))

	s.log.Debug().Int("items", len(next)).Str("date", today).Msg("working set loaded")
	return nil
}

func (s *Scheduler) readToday(ctx context.Context, today string) ([]item.Snapshot, error) {
	tasks, err := s.store.ListTodaysTasks(ctx, s.userID, today)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list_tasks").Inc()
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	events, err := s.store.ListTodaysEvents(ctx, s.userID, today)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list_events").Inc()
		return nil, fmt.Errorf("list events: %w", err)
	}

	snaps := make([]item.Snapshot, 0, len(tasks)+len(events))
	for _, t := range tasks {
		snaps = append(snaps, t.Snapshot())
	}
	for _, e := range events {
		snaps = append(snaps, e.Snapshot())
	}
	return snaps, nil
}

// qualifies reports whether snap belongs in the working set at now: owned by
// the scheduler's user, scheduled today at a concrete time still in the
// future, and not resolved.
func (s *Scheduler) qualifies(snap item.Snapshot, now time.Time) bool {
	if snap.Resolved || !snap.HasTime() {
		return false
	}
	if s.userID != "" && snap.OwnerID != "" && snap.OwnerID != s.userID {
		return false
	}
	if snap.ScheduledDate != clock.DateString(now) {
		return false
	}

	due, err := clock.ParseMinutes(snap.ScheduledTime)
	if err != nil {
		return false
	}
	return due > clock.MinuteOfDay(now)
}

// settings returns the user's stored toggles, falling back to the configured
// ones when none are stored or the read fails.
func (s *Scheduler) settings(ctx context.Context) item.Settings {
	s.mu.Lock()
	fallback := s.reminders.Settings()
	s.mu.Unlock()

	stored, err := s.store.GetSettings(ctx, s.userID)
	switch {
	case err == nil:
		return stored
	case errors.Is(err, item.ErrNotFound):
		return fallback
	default:
		metrics.StoreErrors.WithLabelValues("get_settings").Inc()
		s.log.Warn().Err(err).Msg("reading reminder settings, using configured toggles")
		return fallback
	}
}

func intervalOf(r config.Reminders) time.Duration {
	if d := r.Interval(); d > 0 {
		return d
	}
	return DefaultInterval
}

// Package deadline implements the deadline failure detector: a minute-aligned
// re-scan of today's pending tasks that persists failed=true for every task
// whose time has passed and broadcasts one batched result per pass.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/core/logging"
	"github.com/hay-kot/wingman/internal/metrics"
)

// Interval is the steady period between passes once aligned to the minute.
const Interval = time.Minute

// ErrPassInProgress is returned by Check when another pass has not finished.
var ErrPassInProgress = errors.New("detection pass already in progress")

// Options configures a Detector.
type Options struct {
	UserID        string
	EnableLogging bool
}

// Result is the outcome of one detection pass.
type Result struct {
	PassID        string  `json:"pass_id"`
	FailedTaskIDs []int64 `json:"failed_task_ids"`
	TotalChecked  int     `json:"total_checked"`
	TotalFailed   int     `json:"total_failed"`
	AffectedDate  string  `json:"affected_date"`
}

// Status is a point-in-time view of the detector.
type Status struct {
	Running       bool          `json:"running"`
	LastCheckTime string        `json:"last_check_time"`
	Interval      time.Duration `json:"interval"`
}

// Detector marks overdue tasks failed. Create one per process with New.
type Detector struct {
	store  item.Store
	bus    *eventbus.EventBus
	clock  clock.Clock
	userID string
	log    zerolog.Logger

	inFlight atomic.Bool

	mu        sync.Mutex
	running   bool
	lastCheck string
	cancel    context.CancelFunc
}

// New creates a Detector. bus may be nil, in which case results are only
// returned and logged.
func New(store item.Store, bus *eventbus.EventBus, clk clock.Clock, opts Options) *Detector {
	return &Detector{
		store:  store,
		bus:    bus,
		clock:  clk,
		userID: opts.UserID,
		log:    logging.Engine("deadline", opts.EnableLogging),
	}
}

// Start runs one pass immediately, then schedules passes on every minute
// boundary. Calling Start while running is a no-op.
func (d *Detector) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		d.log.Warn().Msg("detector already running")
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	d.running = true
	d.cancel = cancel
	d.mu.Unlock()

	d.run(ctx)

	delay := clock.DelayToNextMinute(d.clock.Now())
	d.log.Info().Str("user_id", d.userID).Dur("first_in", delay).Msg("detector started")

	go d.loop(loopCtx, delay)
}

func (d *Detector) loop(ctx context.Context, delay time.Duration) {
	align := time.NewTimer(delay)
	defer align.Stop()

	select {
	case <-ctx.Done():
		return
	case <-align.C:
		d.run(context.WithoutCancel(ctx))
	}

	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.run(context.WithoutCancel(ctx))
		}
	}
}

// Stop cancels the timer. An in-flight pass runs to completion.
func (d *Detector) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		d.log.Warn().Msg("detector not running")
		return
	}
	d.running = false
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	d.log.Info().Msg("detector stopped")
}

// Status reports whether the detector is running and when it last checked.
func (d *Detector) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{Running: d.running, LastCheckTime: d.lastCheck, Interval: Interval}
}

func (d *Detector) run(ctx context.Context) {
	res, err := d.Check(ctx)
	switch {
	case errors.Is(err, ErrPassInProgress):
		d.log.Debug().Msg("skipping pass, previous pass still running")
	case err != nil:
		d.log.Error().Err(err).Msg("detection pass failed")
	case res.TotalFailed > 0:
		d.log.Info().
			Str("pass_id", res.PassID).
			Int("failed", res.TotalFailed).
			Int("checked", res.TotalChecked).
			Str("date", res.AffectedDate).
			Msg("marked overdue tasks failed")
	}
}

// Check runs one detection pass now. It returns ErrPassInProgress without
// scanning when another pass is still running.
func (d *Detector) Check(ctx context.Context) (Result, error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrPassInProgress
	}
	defer d.inFlight.Store(false)

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.DetectionDuration)
	metrics.DetectionPasses.Inc()

	now := d.clock.Now()
	res := Result{
		PassID:        uuid.NewString(),
		FailedTaskIDs: []int64{},
		AffectedDate:  clock.DateString(now),
	}

	tasks, err := d.store.ListTodaysTasks(ctx, d.userID, res.AffectedDate)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list_tasks").Inc()
		return res, fmt.Errorf("list tasks: %w", err)
	}

	candidates := Overdue(tasks, clock.TimeString(now))
	res.TotalChecked = len(candidates)

	for _, t := range candidates {
		if err := d.store.MarkTaskFailed(ctx, t.ID, now); err != nil {
			metrics.StoreErrors.WithLabelValues("mark_failed").Inc()
			d.log.Error().
				Ctx(logging.WithItem(ctx, item.Key(item.KindTask, t.ID))).
				Err(err).
				Msg("marking task failed")
			continue
		}
		res.FailedTaskIDs = append(res.FailedTaskIDs, t.ID)
	}
	res.TotalFailed = len(res.FailedTaskIDs)

	d.mu.Lock()
	d.lastCheck = clock.TimeString(now)
	d.mu.Unlock()

	if res.TotalFailed > 0 {
		metrics.TasksFailed.WithLabelValues("deadline").Add(float64(res.TotalFailed))
		d.broadcast(res, now)
	}

	return res, nil
}

// Overdue returns pending tasks with a concrete time strictly before nowTime.
// Both sides are zero-padded "HH:MM" so string order is time order.
func Overdue(tasks []item.Task, nowTime string) []item.Task {
	var out []item.Task
	for _, t := range tasks {
		if t.Completed || t.Failed || !t.Snapshot().HasTime() {
			continue
		}
		if t.Time < nowTime {
			out = append(out, t)
		}
	}
	return out
}

func (d *Detector) broadcast(res Result, now time.Time) {
	if d.bus == nil {
		return
	}

	d.bus.PublishTasksFailedUpdate(eventbus.TasksFailedUpdatePayload{
		PassID:        res.PassID,
		FailedTaskIDs: res.FailedTaskIDs,
		TotalFailed:   res.TotalFailed,
		AffectedDate:  res.AffectedDate,
		Timestamp:     now,
	})

	refresh := eventbus.RefreshPayload{
		Source:        "deadline",
		FailedTaskIDs: res.FailedTaskIDs,
		AffectedDate:  res.AffectedDate,
		Timestamp:     now,
	}
	d.bus.PublishDashboardRefresh(refresh)
	d.bus.PublishNotificationsRefresh(refresh)
}

// Package wingman wires the reminder engines, stores and notification sinks
// into a single App that commands and the TUI consume.
package wingman

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/config"
	"github.com/hay-kot/wingman/internal/core/doctor"
	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/core/logging"
	"github.com/hay-kot/wingman/internal/core/notify"
	"github.com/hay-kot/wingman/internal/data/db"
	"github.com/hay-kot/wingman/internal/data/stores"
	"github.com/hay-kot/wingman/internal/deadline"
	"github.com/hay-kot/wingman/internal/metrics"
	"github.com/hay-kot/wingman/internal/reminder"
	tuinotify "github.com/hay-kot/wingman/internal/tui/notify"
	"github.com/hay-kot/wingman/internal/wingman/sweep"
	"github.com/hay-kot/wingman/pkg/executil"
)

// App is the central entry point for all wingman operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Items         *ItemService
	Scheduler     *reminder.Scheduler
	Detector      *deadline.Detector
	Notifications *tuinotify.Bus
	History       notify.Store

	Bus    *eventbus.EventBus
	Clock  clock.Clock
	Config *config.Config
	DB     *db.DB

	router  *eventbus.NotificationRouter
	store   item.Store
	desktop notify.Sink

	mu         sync.Mutex
	running    bool
	detectorOn bool
	cancel     context.CancelFunc
	unsub      func()
}

// NewApp constructs an App from explicit dependencies. exec runs the desktop
// notifier; when nil or when desktop notifications are disabled, every
// notification goes to the in-app feed.
func NewApp(cfg *config.Config, database *db.DB, bus *eventbus.EventBus, clk clock.Clock, exec executil.Executor) *App {
	adapter := stores.NewItemAdapter(database)
	history := stores.NewNotifyStore(database)
	inapp := tuinotify.NewBus(history)

	var primary notify.Sink
	if cfg.Notifications.Desktop && exec != nil {
		primary = notify.NewDesktopSink(exec)
	}
	sink := notify.NewFallbackSink(primary, inapp, logging.Component("notify"))
	if primary != nil {
		sink.OnFallback = func(error) {
			metrics.NotificationErrors.WithLabelValues("desktop").Inc()
		}
	}

	bus.OnDrop(func(e eventbus.Event, _ any) {
		metrics.BusEventsDropped.WithLabelValues(string(e)).Inc()
	})

	return &App{
		Items: NewItemService(adapter.Tasks, adapter.Events, adapter.Settings, bus, clk, log.Logger),
		Scheduler: reminder.New(adapter, sink, bus, clk, reminder.Options{
			UserID:    cfg.UserID,
			Reminders: cfg.Reminders,
		}),
		Detector: deadline.New(adapter, bus, clk, deadline.Options{
			UserID:        cfg.UserID,
			EnableLogging: cfg.Detector.EnableLogging,
		}),
		Notifications: inapp,
		History:       history,
		Bus:           bus,
		Clock:         clk,
		Config:        cfg,
		DB:            database,
		router:        eventbus.NewNotificationRouter(bus),
		store:         adapter,
		desktop:       primary,
	}
}

// Start begins the background work of a long-running wingman process: the
// scheduler, the detector (when enabled), routing of engine broadcasts into
// the notification feed and the history sweep. The event bus must already be
// dispatching.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.detectorOn = a.Config.Detector.Enabled
	retention := a.Config.Notifications.Retention
	sweepCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	detectorOn := a.detectorOn
	a.mu.Unlock()

	a.router.Register()
	unsub := a.Bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		_ = a.Notifications.Show(ctx, p.Notification)
	})

	a.mu.Lock()
	a.unsub = unsub
	a.mu.Unlock()

	a.Scheduler.Start(ctx)
	if detectorOn {
		a.Detector.Start(ctx)
	}

	go sweep.Start(sweepCtx, a.History, a.Clock, retention, sweep.DefaultInterval, logging.Component("sweep"))
}

// Stop halts everything Start began.
func (a *App) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	detectorOn := a.detectorOn
	cancel, unsub := a.cancel, a.unsub
	a.cancel, a.unsub = nil, nil
	a.mu.Unlock()

	a.Scheduler.Stop()
	if detectorOn {
		a.Detector.Stop()
	}
	a.router.Unregister()
	if unsub != nil {
		unsub()
	}
	cancel()
}

// ApplyConfig swaps in a reloaded configuration and broadcasts it. The data
// directory and user cannot change while running.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	cfg.DataDir = a.Config.DataDir
	cfg.UserID = a.Config.UserID
	a.Config = cfg
	a.mu.Unlock()

	a.Bus.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Config: cfg})
}

// RunChecks runs the doctor checks against this App's configuration,
// database and notifier.
func (a *App) RunChecks(ctx context.Context, configPath string) []doctor.Result {
	a.mu.Lock()
	cfg := a.Config
	a.mu.Unlock()

	var desktop doctor.PermissionRequester
	if a.desktop != nil {
		desktop = a.desktop
	}

	return doctor.RunAll(ctx, []doctor.Check{
		doctor.NewConfigCheck(cfg, configPath),
		doctor.NewStorageCheck(cfg.DataDir, a.DB.Conn(), db.LatestSchemaVersion()),
		doctor.NewNotifierCheck(desktop),
		doctor.NewScheduleCheck(a.store, a.Clock, cfg.UserID),
	})
}

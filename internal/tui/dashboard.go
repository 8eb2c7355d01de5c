package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/notify"
	"github.com/hay-kot/wingman/internal/deadline"
	"github.com/hay-kot/wingman/internal/reminder"
	tuinotify "github.com/hay-kot/wingman/internal/tui/notify"
)

const (
	statusPollInterval = 5 * time.Second
	maxFeedEntries     = 8
)

// Scheduler is the part of the reminder scheduler the dashboard reads.
type Scheduler interface {
	Items() []reminder.MonitoredItem
	Status() reminder.Status
	ForceRefresh(ctx context.Context) error
}

// Detector is the part of the deadline detector the dashboard reads.
type Detector interface {
	Status() deadline.Status
	Check(ctx context.Context) (deadline.Result, error)
}

// Deps holds the dashboard's collaborators.
type Deps struct {
	Scheduler     Scheduler
	Detector      Detector
	Notifications *tuinotify.Bus
	Bus           *eventbus.EventBus
	Clock         clock.Clock
}

type (
	pollMsg       struct{}
	toastTickMsg  struct{}
	historyMsg    struct{ notes []notify.Notification }
	actionDoneMsg struct {
		what string
		err  error
	}
)

// Dashboard is the root Bubble Tea model for `wingman run --tui`.
type Dashboard struct {
	deps  Deps
	feed  *Feed
	unsub []func()

	items     []reminder.MonitoredItem
	sched     reminder.Status
	detector  deadline.Status
	history   []notify.Notification
	toasts    toastStack
	ticking   bool
	lastError string
	width     int
}

// NewDashboard creates the dashboard and connects it to the notification
// sink and the event bus. Call Close when the program exits.
func NewDashboard(deps Deps) *Dashboard {
	d := &Dashboard{deps: deps, feed: NewFeed()}

	if deps.Notifications != nil {
		deps.Notifications.Subscribe(d.feed.Push)
	}
	if deps.Bus != nil {
		refresh := func(eventbus.RefreshPayload) { d.feed.RequestRefresh() }
		d.unsub = append(d.unsub,
			deps.Bus.SubscribeDashboardRefresh(refresh),
			deps.Bus.SubscribeItemCreated(func(eventbus.ItemPayload) { d.feed.RequestRefresh() }),
			deps.Bus.SubscribeItemDeleted(func(eventbus.ItemPayload) { d.feed.RequestRefresh() }),
		)
	}

	d.snapshot()
	return d
}

// Close removes the dashboard's bus subscriptions.
func (d *Dashboard) Close() {
	for _, fn := range d.unsub {
		fn()
	}
	d.unsub = nil
}

func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(d.feed.Wait(), schedulePoll(), d.loadHistory())
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		return d, nil

	case tea.KeyMsg:
		return d.handleKey(msg)

	case feedMsg:
		notes, refresh := d.feed.Drain()
		for _, n := range notes {
			d.toasts.push(n)
			d.history = append([]notify.Notification{n}, d.history...)
		}
		if len(d.history) > maxFeedEntries {
			d.history = d.history[:maxFeedEntries]
		}
		if refresh || len(notes) > 0 {
			d.snapshot()
		}
		cmds := []tea.Cmd{d.feed.Wait()}
		if !d.toasts.empty() && !d.ticking {
			d.ticking = true
			cmds = append(cmds, scheduleToastTick())
		}
		return d, tea.Batch(cmds...)

	case toastTickMsg:
		d.toasts.age(toastTickInterval)
		if d.toasts.empty() {
			d.ticking = false
			return d, nil
		}
		return d, scheduleToastTick()

	case pollMsg:
		d.snapshot()
		return d, schedulePoll()

	case historyMsg:
		d.history = msg.notes
		if len(d.history) > maxFeedEntries {
			d.history = d.history[:maxFeedEntries]
		}
		return d, nil

	case actionDoneMsg:
		d.lastError = ""
		if msg.err != nil {
			d.lastError = msg.what + ": " + msg.err.Error()
		}
		d.snapshot()
		return d, nil
	}

	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return d, tea.Quit
	case "r":
		return d, d.action("refresh", d.deps.Scheduler.ForceRefresh)
	case "d":
		return d, d.action("detect", func(ctx context.Context) error {
			_, err := d.deps.Detector.Check(ctx)
			return err
		})
	case "x":
		d.toasts.dismissNewest()
	case "c":
		d.history = nil
		if d.deps.Notifications != nil {
			return d, d.action("clear", d.deps.Notifications.Clear)
		}
	}
	return d, nil
}

func (d *Dashboard) action(what string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{what: what, err: fn(context.Background())}
	}
}

func (d *Dashboard) loadHistory() tea.Cmd {
	if d.deps.Notifications == nil {
		return nil
	}
	return func() tea.Msg {
		notes, err := d.deps.Notifications.History(context.Background())
		if err != nil {
			return actionDoneMsg{what: "history", err: err}
		}
		return historyMsg{notes: notes}
	}
}

// snapshot copies engine state into the model so View never blocks.
func (d *Dashboard) snapshot() {
	d.items = d.deps.Scheduler.Items()
	d.sched = d.deps.Scheduler.Status()
	d.detector = d.deps.Detector.Status()
}

func schedulePoll() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(time.Time) tea.Msg { return toastTickMsg{} })
}

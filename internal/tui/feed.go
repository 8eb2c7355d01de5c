package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/wingman/internal/core/notify"
)

// feedMsg tells the dashboard that the feed has something to drain.
type feedMsg struct{}

// Feed hands notifications and refresh requests from other goroutines to
// the Bubble Tea loop. Signals are coalesced: one wakeup drains everything
// queued since the last drain.
type Feed struct {
	mu      sync.Mutex
	pending []notify.Notification
	refresh bool
	signal  chan struct{}
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{signal: make(chan struct{}, 1)}
}

// Push queues a notification.
func (f *Feed) Push(n notify.Notification) {
	f.mu.Lock()
	f.pending = append(f.pending, n)
	f.mu.Unlock()
	f.wake()
}

// RequestRefresh asks the dashboard to re-read engine state.
func (f *Feed) RequestRefresh() {
	f.mu.Lock()
	f.refresh = true
	f.mu.Unlock()
	f.wake()
}

func (f *Feed) wake() {
	select {
	case f.signal <- struct{}{}:
	default:
	}
}

// Drain returns the queued notifications in arrival order and whether a
// refresh was requested, then resets both.
func (f *Feed) Drain() ([]notify.Notification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notes, refresh := f.pending, f.refresh
	f.pending, f.refresh = nil, false
	return notes, refresh
}

// Wait blocks until something is queued.
func (f *Feed) Wait() tea.Cmd {
	return func() tea.Msg {
		<-f.signal
		return feedMsg{}
	}
}

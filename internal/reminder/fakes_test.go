package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/core/notify"
)

const testDate = "2026-10-15"

func at(hh, mm int) time.Time {
	return time.Date(2026, 10, 15, hh, mm, 0, 0, time.Local)
}

type fakeStore struct {
	mu          sync.Mutex
	tasks       []item.Task
	events      []item.Event
	settings    *item.Settings
	settingsErr error
	listErr     error
	markErr     error
	marked      []int64

	// duringList runs once, mid-read, without the store lock held.
	duringList func()
}

func (f *fakeStore) ListTodaysTasks(_ context.Context, userID, date string) ([]item.Task, error) {
	f.mu.Lock()
	hook := f.duringList
	f.duringList = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []item.Task
	for _, t := range f.tasks {
		if t.UserID == userID && t.Date == date {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTodaysEvents(_ context.Context, userID, date string) ([]item.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []item.Event
	for _, e := range f.events {
		if e.UserID == userID && e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkTaskFailed(_ context.Context, id int64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Failed = true
		}
	}
	return nil
}

func (f *fakeStore) GetSettings(context.Context, string) (item.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return item.Settings{}, f.settingsErr
	}
	if f.settings == nil {
		return item.Settings{}, item.ErrNotFound
	}
	return *f.settings, nil
}

func (f *fakeStore) Marked() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.marked...)
}

type fakeSink struct {
	mu    sync.Mutex
	shown []notify.Notification
	err   error
	perm  notify.Permission
}

func (f *fakeSink) RequestPermission(context.Context) (notify.Permission, error) {
	if f.perm == "" {
		return notify.PermissionGranted, nil
	}
	return f.perm, nil
}

func (f *fakeSink) Show(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, n)
	return f.err
}

func (f *fakeSink) Titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.shown))
	for _, n := range f.shown {
		out = append(out, n.Title)
	}
	return out
}

func (f *fakeSink) Reset() {
	f.mu.Lock()
	f.shown = nil
	f.mu.Unlock()
}

package wingman

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/eventbus"
	"github.com/hay-kot/wingman/internal/core/item"
)

var (
	// ErrTitleRequired is returned when a task or event has no title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidDate is returned for dates that are not "YYYY-MM-DD".
	ErrInvalidDate = errors.New("invalid date")
	// ErrNotRetryable is returned when retrying a task that has not failed.
	ErrNotRetryable = errors.New("task has not failed")
)

// ItemService wraps the task, event and settings stores with input
// normalization and publishes item events so the reminder scheduler stays in
// sync without reloading.
type ItemService struct {
	tasks    item.TaskStore
	events   item.EventStore
	settings item.SettingsStore
	bus      *eventbus.EventBus
	clock    clock.Clock
	log      zerolog.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	tasks item.TaskStore,
	events item.EventStore,
	settings item.SettingsStore,
	bus *eventbus.EventBus,
	clk clock.Clock,
	log zerolog.Logger,
) *ItemService {
	return &ItemService{
		tasks:    tasks,
		events:   events,
		settings: settings,
		bus:      bus,
		clock:    clk,
		log:      log.With().Str("cmp", "items").Logger(),
	}
}

// AddTask creates a task for userID. An empty date means today; an empty
// time means the task has no specific time of day.
func (s *ItemService) AddTask(ctx context.Context, userID, title, date, tm string) (item.Task, error) {
	title, date, tm, err := s.normalize(title, date, tm)
	if err != nil {
		return item.Task{}, err
	}

	task := item.Task{UserID: userID, Title: title, Date: date, Time: tm}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return item.Task{}, err
	}

	s.log.Debug().Int64("id", task.ID).Str("time", task.Time).Msg("task created")
	s.bus.PublishItemCreated(eventbus.ItemPayload{Item: task.Snapshot()})
	return task, nil
}

// TaskDraft is an unsaved task, as read from an import document.
type TaskDraft struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// ImportTasks validates every draft before creating any of them, so a bad
// entry leaves the store untouched. A store failure part-way reports how
// many tasks were already created; those are returned alongside the error.
func (s *ItemService) ImportTasks(ctx context.Context, userID string, drafts []TaskDraft) ([]item.Task, error) {
	var errs []error
	for i, d := range drafts {
		if _, _, _, err := s.normalize(d.Title, d.Date, d.Time); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%q): %w", i, d.Title, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	created := make([]item.Task, 0, len(drafts))
	for i, d := range drafts {
		task, err := s.AddTask(ctx, userID, d.Title, d.Date, d.Time)
		if err != nil {
			return created, fmt.Errorf("entry %d (%q), %d of %d created: %w", i, d.Title, len(created), len(drafts), err)
		}
		created = append(created, task)
	}
	return created, nil
}

// ListTasks returns userID's tasks for date, defaulting to today.
func (s *ItemService) ListTasks(ctx context.Context, userID, date string) ([]item.Task, error) {
	if date == "" {
		date = clock.TodayDateString(s.clock)
	}
	return s.tasks.ListByDate(ctx, userID, date)
}

// RenameTask changes a task's title and, when tm is non-empty, its time.
func (s *ItemService) RenameTask(ctx context.Context, id int64, title, tm string) (item.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return item.Task{}, err
	}

	oldTime := task.Time
	if tm == "" {
		tm = task.Time
	}
	title, _, tm, err = s.normalize(title, task.Date, tm)
	if err != nil {
		return item.Task{}, err
	}

	task.Title = title
	task.Time = tm
	task.UpdatedAt = s.clock.Now()
	if err := s.tasks.Update(ctx, task); err != nil {
		return item.Task{}, err
	}

	s.bus.PublishItemUpdated(eventbus.ItemUpdatedPayload{
		Item:        task.Snapshot(),
		Rescheduled: oldTime != task.Time,
	})
	return task, nil
}

// CompleteTask marks a task completed.
func (s *ItemService) CompleteTask(ctx context.Context, id int64) (item.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return item.Task{}, err
	}
	if task.Completed {
		return task, nil
	}

	task.Completed = true
	task.UpdatedAt = s.clock.Now()
	if err := s.tasks.Update(ctx, task); err != nil {
		return item.Task{}, err
	}

	s.bus.PublishItemCompleted(eventbus.ItemPayload{Item: task.Snapshot()})
	return task, nil
}

// DeleteTask removes a task.
func (s *ItemService) DeleteTask(ctx context.Context, id int64) error {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.PublishItemDeleted(eventbus.ItemPayload{Item: task.Snapshot()})
	return nil
}

// RetryTask gives a failed task another chance: it clears the failed flag
// and moves it to newTime today. The reminder stages restart for the new time.
func (s *ItemService) RetryTask(ctx context.Context, id int64, newTime string) (item.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return item.Task{}, err
	}
	if !task.Failed {
		return item.Task{}, fmt.Errorf("retry task %d: %w", id, ErrNotRetryable)
	}

	_, date, tm, err := s.normalize(task.Title, "", newTime)
	if err != nil {
		return item.Task{}, err
	}

	task.Failed = false
	task.Date = date
	task.Time = tm
	task.UpdatedAt = s.clock.Now()
	if err := s.tasks.Update(ctx, task); err != nil {
		return item.Task{}, err
	}

	s.log.Info().Int64("id", id).Str("time", tm).Msg("task retried")
	s.bus.PublishItemUpdated(eventbus.ItemUpdatedPayload{Item: task.Snapshot(), Rescheduled: true})
	s.bus.PublishEngineRefreshRequested(eventbus.EngineRefreshRequestedPayload{Reason: "retry"})
	return task, nil
}

// AddEvent creates a calendar event for userID.
func (s *ItemService) AddEvent(ctx context.Context, userID, title, date, tm, typ string) (item.Event, error) {
	title, date, tm, err := s.normalize(title, date, tm)
	if err != nil {
		return item.Event{}, err
	}

	ev := item.Event{UserID: userID, Title: title, Date: date, Time: tm, Type: typ}
	if err := s.events.Create(ctx, &ev); err != nil {
		return item.Event{}, err
	}

	s.bus.PublishItemCreated(eventbus.ItemPayload{Item: ev.Snapshot()})
	return ev, nil
}

// ListEvents returns userID's events for date, defaulting to today.
func (s *ItemService) ListEvents(ctx context.Context, userID, date string) ([]item.Event, error) {
	if date == "" {
		date = clock.TodayDateString(s.clock)
	}
	return s.events.ListByDate(ctx, userID, date)
}

// MoveEvent changes an event's time of day.
func (s *ItemService) MoveEvent(ctx context.Context, id int64, tm string) (item.Event, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return item.Event{}, err
	}

	_, _, tm, err = s.normalize(ev.Title, ev.Date, tm)
	if err != nil {
		return item.Event{}, err
	}

	rescheduled := ev.Time != tm
	ev.Time = tm
	ev.UpdatedAt = s.clock.Now()
	if err := s.events.Update(ctx, ev); err != nil {
		return item.Event{}, err
	}

	s.bus.PublishItemUpdated(eventbus.ItemUpdatedPayload{Item: ev.Snapshot(), Rescheduled: rescheduled})
	return ev, nil
}

// DeleteEvent removes an event.
func (s *ItemService) DeleteEvent(ctx context.Context, id int64) error {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.PublishItemDeleted(eventbus.ItemPayload{Item: ev.Snapshot()})
	return nil
}

// Settings returns userID's stored reminder toggles, or fallback when the
// user never saved any.
func (s *ItemService) Settings(ctx context.Context, userID string, fallback item.Settings) (item.Settings, error) {
	st, err := s.settings.Get(ctx, userID)
	if errors.Is(err, item.ErrNotFound) {
		return fallback, nil
	}
	return st, err
}

// SaveSettings stores userID's reminder toggles. The scheduler reads them on
// its next pass.
func (s *ItemService) SaveSettings(ctx context.Context, userID string, st item.Settings) error {
	return s.settings.Save(ctx, userID, st)
}

// normalize trims the title, defaults the date to today and canonicalizes
// the time of day. Empty and "All day" times are kept as-is.
func (s *ItemService) normalize(title, date, tm string) (string, string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", "", ErrTitleRequired
	}

	if date == "" {
		date = clock.TodayDateString(s.clock)
	}
	if _, err := time.Parse(clock.DateLayout, date); err != nil {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	tm = strings.TrimSpace(tm)
	if tm == "" || strings.EqualFold(tm, item.AllDay) {
		if tm != "" {
			tm = item.AllDay
		}
		return title, date, tm, nil
	}

	normalized, err := clock.NormalizeTime(tm)
	if err != nil {
		return "", "", "", err
	}
	return title, date, normalized, nil
}

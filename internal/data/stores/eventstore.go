package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/data/db"
)

const defaultEventType = "event"

// EventStore implements item.EventStore using SQLite.
type EventStore struct {
	db *db.DB
}

var _ item.EventStore = (*EventStore)(nil)

// NewEventStore creates a new SQLite-backed calendar event store.
func NewEventStore(db *db.DB) *EventStore {
	return &EventStore{db: db}
}

// Create persists a new event and fills in its ID and timestamps.
func (s *EventStore) Create(ctx context.Context, ev *item.Event) error {
	now := time.Now()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now
	}
	if ev.UpdatedAt.IsZero() {
		ev.UpdatedAt = now
	}
	if ev.Type == "" {
		ev.Type = defaultEventType
	}

	id, err := s.db.Queries().CreateEvent(ctx, db.CreateEventParams{
		UserID:      ev.UserID,
		Title:       ev.Title,
		EventDate:   ev.Date,
		EventTime:   ev.Time,
		Type:        ev.Type,
		Description: ev.Description,
		CreatedAt:   ev.CreatedAt.UnixNano(),
		UpdatedAt:   ev.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	ev.ID = id
	return nil
}

// Get returns an event by ID. Returns item.ErrNotFound if not found.
func (s *EventStore) Get(ctx context.Context, id int64) (item.Event, error) {
	row, err := s.db.Queries().GetEvent(ctx, id)
	if err != nil {
		return item.Event{}, fmt.Errorf("get event %d: %w", id, notFound(err))
	}
	return rowToEvent(row), nil
}

// ListByDate returns a user's events for date ordered by time.
func (s *EventStore) ListByDate(ctx context.Context, userID, date string) ([]item.Event, error) {
	rows, err := s.db.Queries().ListEventsByDate(ctx, db.ListEventsByDateParams{UserID: userID, EventDate: date})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]item.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, rowToEvent(row))
	}
	return events, nil
}

// Update overwrites the event's mutable fields.
func (s *EventStore) Update(ctx context.Context, ev item.Event) error {
	if ev.UpdatedAt.IsZero() {
		ev.UpdatedAt = time.Now()
	}
	if ev.Type == "" {
		ev.Type = defaultEventType
	}

	n, err := s.db.Queries().UpdateEvent(ctx, db.UpdateEventParams{
		ID:          ev.ID,
		Title:       ev.Title,
		EventDate:   ev.Date,
		EventTime:   ev.Time,
		Type:        ev.Type,
		Description: ev.Description,
		UpdatedAt:   ev.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n == 0 {
		return item.ErrNotFound
	}
	return nil
}

// Delete removes an event. Returns item.ErrNotFound if not found.
func (s *EventStore) Delete(ctx context.Context, id int64) error {
	n, err := s.db.Queries().DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n == 0 {
		return item.ErrNotFound
	}
	return nil
}

func rowToEvent(row db.CalendarEvent) item.Event {
	return item.Event{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Date:        row.EventDate,
		Time:        row.EventTime,
		Type:        row.Type,
		Description: row.Description,
		CreatedAt:   time.Unix(0, row.CreatedAt),
		UpdatedAt:   time.Unix(0, row.UpdatedAt),
	}
}

package notify

import (
	"context"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification represents a single user-facing notification.
type Notification struct {
	ID        int64     `json:"id"`
	Level     Level     `json:"level"`
	Kind      string    `json:"kind,omitempty"` // "task" or "event"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	// DeleteBefore removes notifications created before cutoff and returns
	// the number of rows removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

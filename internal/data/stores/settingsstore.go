package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/data/db"
)

// SettingsStore implements item.SettingsStore using SQLite.
type SettingsStore struct {
	db *db.DB
}

var _ item.SettingsStore = (*SettingsStore)(nil)

// NewSettingsStore creates a new SQLite-backed reminder settings store.
func NewSettingsStore(db *db.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the user's stored toggles, or item.ErrNotFound.
func (s *SettingsStore) Get(ctx context.Context, userID string) (item.Settings, error) {
	row, err := s.db.Queries().GetReminderSettings(ctx, userID)
	if err != nil {
		return item.Settings{}, fmt.Errorf("get reminder settings: %w", notFound(err))
	}

	return item.Settings{
		Task30MinReminder:  row.Task30Min,
		Task5MinReminder:   row.Task5Min,
		Event30MinReminder: row.Event30Min,
		Event5MinReminder:  row.Event5Min,
	}, nil
}

// Save creates or replaces the user's toggles.
func (s *SettingsStore) Save(ctx context.Context, userID string, settings item.Settings) error {
	err := s.db.Queries().UpsertReminderSettings(ctx, db.ReminderSetting{
		UserID:     userID,
		Task30Min:  settings.Task30MinReminder,
		Task5Min:   settings.Task5MinReminder,
		Event30Min: settings.Event30MinReminder,
		Event5Min:  settings.Event5MinReminder,
		UpdatedAt:  time.Now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("save reminder settings: %w", err)
	}
	return nil
}

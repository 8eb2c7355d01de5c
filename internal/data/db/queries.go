package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the hand-written SQL used by the stores. Timestamps are
// stored as Unix nanoseconds.
type Queries struct {
	db DBTX
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Task is a row of the tasks table.
type Task struct {
	ID        int64
	UserID    string
	Title     string
	TaskDate  string
	TaskTime  string
	Completed bool
	Failed    bool
	CreatedAt int64
	UpdatedAt int64
}

// CalendarEvent is a row of the calendar_events table.
type CalendarEvent struct {
	ID          int64
	UserID      string
	Title       string
	EventDate   string
	EventTime   string
	Type        string
	Description string
	CreatedAt   int64
	UpdatedAt   int64
}

// ReminderSetting is a row of the reminder_settings table.
type ReminderSetting struct {
	UserID     string
	Task30Min  bool
	Task5Min   bool
	Event30Min bool
	Event5Min  bool
	UpdatedAt  int64
}

// Notification is a row of the notifications table.
type Notification struct {
	ID        int64
	Level     string
	Kind      string
	Title     string
	Message   string
	CreatedAt int64
}

type scanner interface {
	Scan(dest ...any) error
}

const taskColumns = `id, user_id, title, task_date, task_time, completed, failed, created_at, updated_at`

func scanTask(s scanner) (Task, error) {
	var t Task
	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.TaskDate, &t.TaskTime, &t.Completed, &t.Failed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

type CreateTaskParams struct {
	UserID    string
	Title     string
	TaskDate  string
	TaskTime  string
	CreatedAt int64
	UpdatedAt int64
}

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, task_date, task_time, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		arg.UserID, arg.Title, arg.TaskDate, arg.TaskTime, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetTask(ctx context.Context, id int64) (Task, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

type ListTasksByDateParams struct {
	UserID   string
	TaskDate string
}

func (q *Queries) ListTasksByDate(ctx context.Context, arg ListTasksByDateParams) ([]Task, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? AND task_date = ? ORDER BY task_time, id`,
		arg.UserID, arg.TaskDate,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

type UpdateTaskParams struct {
	ID        int64
	Title     string
	TaskDate  string
	TaskTime  string
	Completed bool
	Failed    bool
	UpdatedAt int64
}

// UpdateTask returns the number of rows affected.
func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, task_date = ?, task_time = ?, completed = ?, failed = ?, updated_at = ? WHERE id = ?`,
		arg.Title, arg.TaskDate, arg.TaskTime, arg.Completed, arg.Failed, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type MarkTaskFailedParams struct {
	ID        int64
	UpdatedAt int64
}

// MarkTaskFailed returns the number of rows affected.
func (q *Queries) MarkTaskFailed(ctx context.Context, arg MarkTaskFailedParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE tasks SET failed = 1, updated_at = ? WHERE id = ?`, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteTask returns the number of rows affected.
func (q *Queries) DeleteTask(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const eventColumns = `id, user_id, title, event_date, event_time, type, description, created_at, updated_at`

func scanEvent(s scanner) (CalendarEvent, error) {
	var e CalendarEvent
	err := s.Scan(&e.ID, &e.UserID, &e.Title, &e.EventDate, &e.EventTime, &e.Type, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

type CreateEventParams struct {
	UserID      string
	Title       string
	EventDate   string
	EventTime   string
	Type        string
	Description string
	CreatedAt   int64
	UpdatedAt   int64
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO calendar_events (user_id, title, event_date, event_time, type, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UserID, arg.Title, arg.EventDate, arg.EventTime, arg.Type, arg.Description, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetEvent(ctx context.Context, id int64) (CalendarEvent, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM calendar_events WHERE id = ?`, id)
	return scanEvent(row)
}

type ListEventsByDateParams struct {
	UserID    string
	EventDate string
}

func (q *Queries) ListEventsByDate(ctx context.Context, arg ListEventsByDateParams) ([]CalendarEvent, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM calendar_events WHERE user_id = ? AND event_date = ? ORDER BY event_time, id`,
		arg.UserID, arg.EventDate,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

type UpdateEventParams struct {
	ID          int64
	Title       string
	EventDate   string
	EventTime   string
	Type        string
	Description string
	UpdatedAt   int64
}

// UpdateEvent returns the number of rows affected.
func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE calendar_events SET title = ?, event_date = ?, event_time = ?, type = ?, description = ?, updated_at = ? WHERE id = ?`,
		arg.Title, arg.EventDate, arg.EventTime, arg.Type, arg.Description, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteEvent returns the number of rows affected.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) GetReminderSettings(ctx context.Context, userID string) (ReminderSetting, error) {
	var s ReminderSetting
	err := q.db.QueryRowContext(ctx,
		`SELECT user_id, task_30min, task_5min, event_30min, event_5min, updated_at FROM reminder_settings WHERE user_id = ?`,
		userID,
	).Scan(&s.UserID, &s.Task30Min, &s.Task5Min, &s.Event30Min, &s.Event5Min, &s.UpdatedAt)
	return s, err
}

func (q *Queries) UpsertReminderSettings(ctx context.Context, arg ReminderSetting) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO reminder_settings (user_id, task_30min, task_5min, event_30min, event_5min, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			task_30min = excluded.task_30min,
			task_5min = excluded.task_5min,
			event_30min = excluded.event_30min,
			event_5min = excluded.event_5min,
			updated_at = excluded.updated_at`,
		arg.UserID, arg.Task30Min, arg.Task5Min, arg.Event30Min, arg.Event5Min, arg.UpdatedAt,
	)
	return err
}

type InsertNotificationParams struct {
	Level     string
	Kind      string
	Title     string
	Message   string
	CreatedAt int64
}

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO notifications (level, kind, title, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Kind, arg.Title, arg.Message, arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) ListNotifications(ctx context.Context) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level, kind, title, message, created_at FROM notifications ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Level, &n.Kind, &n.Title, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM notifications`)
	return err
}

func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&n)
	return n, err
}

// DeleteNotificationsBefore removes rows created before createdAt and
// returns how many were removed.
func (q *Queries) DeleteNotificationsBefore(ctx context.Context, createdAt int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM notifications WHERE created_at < ?`, createdAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

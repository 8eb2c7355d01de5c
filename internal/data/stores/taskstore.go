package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/wingman/internal/core/item"
	"github.com/hay-kot/wingman/internal/data/db"
)

// TaskStore implements item.TaskStore using SQLite.
type TaskStore struct {
	db *db.DB
}

var _ item.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create persists a new task and fills in its ID and timestamps.
func (s *TaskStore) Create(ctx context.Context, task *item.Task) error {
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	id, err := s.db.Queries().CreateTask(ctx, db.CreateTaskParams{
		UserID:    task.UserID,
		Title:     task.Title,
		TaskDate:  task.Date,
		TaskTime:  task.Time,
		CreatedAt: task.CreatedAt.UnixNano(),
		UpdatedAt: task.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	task.ID = id
	return nil
}

// Get returns a task by ID. Returns item.ErrNotFound if not found.
func (s *TaskStore) Get(ctx context.Context, id int64) (item.Task, error) {
	row, err := s.db.Queries().GetTask(ctx, id)
	if err != nil {
		return item.Task{}, fmt.Errorf("get task %d: %w", id, notFound(err))
	}
	return rowToTask(row), nil
}

// ListByDate returns a user's tasks for date ordered by time.
func (s *TaskStore) ListByDate(ctx context.Context, userID, date string) ([]item.Task, error) {
	rows, err := s.db.Queries().ListTasksByDate(ctx, db.ListTasksByDateParams{UserID: userID, TaskDate: date})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]item.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, rowToTask(row))
	}
	return tasks, nil
}

// Update overwrites the task's mutable fields. UpdatedAt is set to now when
// zero. Returns item.ErrNotFound if the task does not exist.
func (s *TaskStore) Update(ctx context.Context, task item.Task) error {
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = time.Now()
	}

	n, err := s.db.Queries().UpdateTask(ctx, db.UpdateTaskParams{
		ID:        task.ID,
		Title:     task.Title,
		TaskDate:  task.Date,
		TaskTime:  task.Time,
		Completed: task.Completed,
		Failed:    task.Failed,
		UpdatedAt: task.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n == 0 {
		return item.ErrNotFound
	}
	return nil
}

// Delete removes a task. Returns item.ErrNotFound if not found.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	n, err := s.db.Queries().DeleteTask(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return item.ErrNotFound
	}
	return nil
}

// MarkFailed sets failed and updated_at. Returns item.ErrNotFound when the
// task was deleted in the meantime.
func (s *TaskStore) MarkFailed(ctx context.Context, id int64, at time.Time) error {
	n, err := s.db.Queries().MarkTaskFailed(ctx, db.MarkTaskFailedParams{ID: id, UpdatedAt: at.UnixNano()})
	if err != nil {
		return fmt.Errorf("mark task %d failed: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("mark task %d failed: %w", id, item.ErrNotFound)
	}
	return nil
}

func rowToTask(row db.Task) item.Task {
	return item.Task{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Date:      row.TaskDate,
		Time:      row.TaskTime,
		Completed: row.Completed,
		Failed:    row.Failed,
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
	}
}

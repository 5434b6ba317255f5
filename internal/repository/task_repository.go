package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TWRT/task-tracker/internal/models"
)

var ErrNotFound = errors.New("task not found")

// fixed width so that ORDER BY created_at on the text column is chronological
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `id, name, description, completed, due_date, priority, created_at`

type TaskRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for created_at.
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.now = now
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t         models.Task
		completed int
		dueDate   sql.NullString
		createdAt string
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&completed,
		&dueDate,
		&t.Priority,
		&createdAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Completed = completed != 0
	if dueDate.Valid {
		due := dueDate.String
		t.DueDate = &due
	}

	t.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return t, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *TaskRepository) Insert(ctx context.Context, task models.NewTask) (models.Task, error) {
	query := `
	INSERT INTO items (name, description, completed, due_date, priority, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		task.Name,
		task.Description,
		models.Flag(task.Completed).Int(),
		nullable(task.DueDate),
		task.Priority,
		r.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("read inserted id: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (models.Task, error) {
	query := `SELECT ` + selectColumns + ` FROM items WHERE id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// List returns every task, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]models.Task, error) {
	query := `SELECT ` + selectColumns + ` FROM items ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// Update merges the supplied fields over the stored record and writes the
// result with a single statement inside one transaction.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	existing, err := scanTask(tx.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("load task %d: %w", id, err)
	}

	merged := existing.Apply(patch)

	query := `
	UPDATE items SET name = ?, description = ?, completed = ?, due_date = ?, priority = ?
        WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		merged.Name,
		merged.Description,
		merged.Completed.Int(),
		nullable(merged.DueDate),
		merged.Priority,
		id,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("commit update: %w", err)
	}

	return merged, nil
}

// Delete reports whether a row was removed.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return affected > 0, nil
}

func (r *TaskRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/TWRT/task-tracker/internal/models"
)

const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

func dateOf(s string) *string { return &s }

var sampleTasks = []models.NewTask{
	{Name: "Item 1", Description: "Olympics opening ceremony", DueDate: dateOf("2026-02-06"), Priority: "high"},
	{Name: "Item 2", Description: "Book hotel", DueDate: dateOf("2025-12-01"), Priority: "medium"},
	{Name: "Item 3", Description: "Buy ski tickets", Completed: true, DueDate: dateOf("2025-11-15"), Priority: "low"},
}

// InitDB opens the database and creates the items table. Sample tasks are
// inserted only when the table is created by this call and seed is true.
func InitDB(ctx context.Context, driver, dbPath string, seed bool) (*sql.DB, error) {
	switch driver {
	case DriverModernc, DriverMattn:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// a :memory: database only lives as long as its connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	created, err := createTables(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	if created && seed {
		if err := seedSampleTasks(ctx, NewTaskRepository(db)); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

func createTables(ctx context.Context, db *sql.DB) (bool, error) {
	var existing int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'items'`,
	).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("inspect schema: %w", err)
	}

	schema := `
    CREATE TABLE IF NOT EXISTS items (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        completed INTEGER NOT NULL DEFAULT 0,
        due_date TEXT,
        priority TEXT NOT NULL DEFAULT 'medium',
        created_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_items_created_at ON items (created_at);
    `

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return false, fmt.Errorf("create tables: %w", err)
	}

	return existing == 0, nil
}

func seedSampleTasks(ctx context.Context, repo *TaskRepository) error {
	for _, t := range sampleTasks {
		if _, err := repo.Insert(ctx, t); err != nil {
			return fmt.Errorf("seed sample task %q: %w", t.Name, err)
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/muurk/todos/internal/todo"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns all todos, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, is_completed, created_at
		FROM todos ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []todo.Todo{}
	for rows.Next() {
		var t todo.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}

	return todos, rows.Err()
}

// Get retrieves a todo by ID.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	return getTodo(ctx, s.db, id)
}

// queryer is satisfied by *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getTodo(ctx context.Context, q queryer, id int64) (*todo.Todo, error) {
	t := &todo.Todo{}
	err := q.QueryRowContext(ctx, `
		SELECT id, title, description, is_completed, created_at
		FROM todos WHERE id = ?
	`, id).Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return t, nil
}

// Create inserts a new, incomplete todo stamped with the current time.
func (s *SQLiteStore) Create(ctx context.Context, title, description string) (*todo.Todo, error) {
	t := &todo.Todo{
		Title:       title,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (title, description, is_completed, created_at)
		VALUES (?, ?, FALSE, ?)
	`, t.Title, t.Description, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	t.ID = id

	return t, nil
}

// Update applies the fields present in draft and returns the stored todo.
func (s *SQLiteStore) Update(ctx context.Context, id int64, draft todo.Draft) (*todo.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getTodo(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	updated := draft.Apply(*current)

	if _, err := tx.ExecContext(ctx, `
		UPDATE todos SET title = ?, description = ? WHERE id = ?
	`, updated.Title, updated.Description, id); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return &updated, nil
}

// ToggleStatus flips the completion flag and returns the stored todo.
func (s *SQLiteStore) ToggleStatus(ctx context.Context, id int64) (*todo.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE todos SET is_completed = NOT is_completed WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle todo: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to check toggle result: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	t, err := getTodo(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit toggle: %w", err)
	}
	return t, nil
}

// Delete removes a todo by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes the listed todos in one transaction.
func (s *SQLiteStore) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM todos WHERE id = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var deleted int64
	for _, id := range ids {
		result, err := stmt.ExecContext(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to delete todo %d: %w", id, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check delete result: %w", err)
		}
		deleted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}
	return deleted, nil
}

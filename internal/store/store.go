// Package store persists todos for the reference backend.
package store

import (
	"context"
	"errors"

	"github.com/muurk/todos/internal/todo"
)

// ErrNotFound is returned when no todo has the requested id
var ErrNotFound = errors.New("todo not found")

// Store defines the persistence operations the HTTP handlers need.
type Store interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Get(ctx context.Context, id int64) (*todo.Todo, error)
	Create(ctx context.Context, title, description string) (*todo.Todo, error)
	Update(ctx context.Context, id int64, draft todo.Draft) (*todo.Todo, error)
	ToggleStatus(ctx context.Context, id int64) (*todo.Todo, error)
	Delete(ctx context.Context, id int64) error
	// DeleteMany removes every listed todo that exists and reports how many
	// were removed. Missing ids are not an error.
	DeleteMany(ctx context.Context, ids []int64) (int64, error)

	Close() error
}

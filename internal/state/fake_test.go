package state

import (
	"context"
	"sync"

	"github.com/muurk/todos/internal/todo"
)

// fakeService is a scriptable todo.Service. Unset hooks fail the call with a
// transport error so a test notices unexpected traffic.
type fakeService struct {
	mu    sync.Mutex
	calls []string

	list         func(ctx context.Context) ([]todo.Todo, error)
	get          func(ctx context.Context, id int64) (*todo.Todo, error)
	create       func(ctx context.Context, d todo.Draft) (*todo.Todo, error)
	update       func(ctx context.Context, id int64, d todo.Draft) (*todo.Todo, error)
	toggleStatus func(ctx context.Context, id int64) (*todo.Todo, error)
	delete       func(ctx context.Context, id int64) error
	deleteMany   func(ctx context.Context, ids []int64) error
}

var errUnexpected = todo.NewTransportError("unexpected call", nil)

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeService) List(ctx context.Context) ([]todo.Todo, error) {
	f.record("list")
	if f.list == nil {
		return nil, errUnexpected
	}
	return f.list(ctx)
}

func (f *fakeService) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	f.record("get")
	if f.get == nil {
		return nil, errUnexpected
	}
	return f.get(ctx, id)
}

func (f *fakeService) Create(ctx context.Context, d todo.Draft) (*todo.Todo, error) {
	f.record("create")
	if f.create == nil {
		return nil, errUnexpected
	}
	return f.create(ctx, d)
}

func (f *fakeService) Update(ctx context.Context, id int64, d todo.Draft) (*todo.Todo, error) {
	f.record("update")
	if f.update == nil {
		return nil, errUnexpected
	}
	return f.update(ctx, id, d)
}

func (f *fakeService) ToggleStatus(ctx context.Context, id int64) (*todo.Todo, error) {
	f.record("toggle-status")
	if f.toggleStatus == nil {
		return nil, errUnexpected
	}
	return f.toggleStatus(ctx, id)
}

func (f *fakeService) Delete(ctx context.Context, id int64) error {
	f.record("delete")
	if f.delete == nil {
		return errUnexpected
	}
	return f.delete(ctx, id)
}

func (f *fakeService) DeleteMany(ctx context.Context, ids []int64) error {
	f.record("delete-many")
	if f.deleteMany == nil {
		return errUnexpected
	}
	return f.deleteMany(ctx, ids)
}

func ids(todos []todo.Todo) []int64 {
	out := make([]int64, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

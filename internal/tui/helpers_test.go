package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/todos/internal/todo"
)

// stubService answers every call from an in-memory list
type stubService struct {
	mu    sync.Mutex
	todos []todo.Todo
	next  int64
	err   error
}

func (s *stubService) List(context.Context) ([]todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]todo.Todo(nil), s.todos...), nil
}

func (s *stubService) Get(_ context.Context, id int64) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, todo.NewNotFoundError(id)
}

func (s *stubService) Create(_ context.Context, d todo.Draft) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	t := d.Apply(todo.Todo{ID: 100 + s.next})
	s.todos = append([]todo.Todo{t}, s.todos...)
	return &t, nil
}

func (s *stubService) Update(_ context.Context, id int64, d todo.Draft) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i] = d.Apply(s.todos[i])
			t := s.todos[i]
			return &t, nil
		}
	}
	return nil, todo.NewNotFoundError(id)
}

func (s *stubService) ToggleStatus(_ context.Context, id int64) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].IsCompleted = !s.todos[i].IsCompleted
			t := s.todos[i]
			return &t, nil
		}
	}
	return nil, todo.NewNotFoundError(id)
}

func (s *stubService) Delete(_ context.Context, id int64) error {
	return s.DeleteMany(context.Background(), []int64{id})
}

func (s *stubService) DeleteMany(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gone := make(map[int64]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	kept := s.todos[:0]
	for _, t := range s.todos {
		if !gone[t.ID] {
			kept = append(kept, t)
		}
	}
	s.todos = kept
	return nil
}

// runCmd executes cmd and flattens batches into the resulting messages.
// Commands that do not return promptly (cursor blinks, toast timers) are
// abandoned.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

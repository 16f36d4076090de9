package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/muurk/todos/internal/store"
	"github.com/muurk/todos/internal/todo"
)

func setupTestRouter(t *testing.T) (http.Handler, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewRouter(s), s
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) todo.Todo {
	t.Helper()
	var got todo.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode todo %q: %v", rec.Body.String(), err)
	}
	return got
}

func TestCreateTodo(t *testing.T) {
	h, _ := setupTestRouter(t)

	rec := do(t, h, http.MethodPost, "/todos", `{"title":"Buy milk","description":"2 litres"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	got := decodeTodo(t, rec)
	if got.ID == 0 || got.Title != "Buy milk" || got.Description != "2 litres" || got.IsCompleted {
		t.Errorf("created = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}
}

func TestCreateTodo_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty title", `{"title":"","description":"x"}`, "Title is required"},
		{"blank title", `{"title":"   "}`, "Title is required"},
		{"missing title", `{"description":"x"}`, "Title is required"},
		{"malformed json", `{"title":`, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestRouter(t)
			rec := do(t, h, http.MethodPost, "/todos", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body = %s, want it to mention %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestListTodos(t *testing.T) {
	h, s := setupTestRouter(t)

	rec := do(t, h, http.MethodGet, "/todos", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty list body = %s, want []", body)
	}

	ctx := context.Background()
	s.Create(ctx, "first", "")
	s.Create(ctx, "second", "")

	rec = do(t, h, http.MethodGet, "/todos", "")
	var todos []todo.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(todos) != 2 || todos[0].Title != "second" {
		t.Errorf("list = %+v, want newest first", todos)
	}
}

func TestGetTodo(t *testing.T) {
	h, s := setupTestRouter(t)
	created, _ := s.Create(context.Background(), "find me", "")

	rec := do(t, h, http.MethodGet, "/todos/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeTodo(t, rec); got.ID != created.ID {
		t.Errorf("got id %d, want %d", got.ID, created.ID)
	}

	if rec := do(t, h, http.MethodGet, "/todos/99", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/todos/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/todos/0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("zero id status = %d, want 400", rec.Code)
	}
}

func TestUpdateTodo(t *testing.T) {
	h, s := setupTestRouter(t)
	s.Create(context.Background(), "old", "keep")

	rec := do(t, h, http.MethodPatch, "/todos/1", `{"title":"new"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeTodo(t, rec)
	if got.Title != "new" || got.Description != "keep" {
		t.Errorf("partial update = %+v", got)
	}

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"empty title", "/todos/1", `{"title":""}`, http.StatusBadRequest},
		{"no fields", "/todos/1", `{}`, http.StatusBadRequest},
		{"missing", "/todos/42", `{"title":"x"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodPatch, tt.target, tt.body); rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestToggleStatus(t *testing.T) {
	h, s := setupTestRouter(t)
	s.Create(context.Background(), "flip", "")

	rec := do(t, h, http.MethodPatch, "/todos/change-status/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !decodeTodo(t, rec).IsCompleted {
		t.Error("first toggle should complete")
	}

	rec = do(t, h, http.MethodPatch, "/todos/change-status/1", "")
	if decodeTodo(t, rec).IsCompleted {
		t.Error("second toggle should reopen")
	}

	if rec := do(t, h, http.MethodPatch, "/todos/change-status/7", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}
}

func TestDeleteTodo(t *testing.T) {
	h, s := setupTestRouter(t)
	s.Create(context.Background(), "gone soon", "")

	if rec := do(t, h, http.MethodDelete, "/todos/1", ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/todos/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestDeleteTodos(t *testing.T) {
	h, s := setupTestRouter(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		s.Create(ctx, title, "")
	}

	rec := do(t, h, http.MethodDelete, "/todos?ids=1,3,99", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body deleteManyBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Deleted != 2 {
		t.Errorf("deleted = %d, want 2", body.Deleted)
	}

	remaining, _ := s.List(ctx)
	if len(remaining) != 1 || remaining[0].Title != "b" {
		t.Errorf("remaining = %+v", remaining)
	}
}

func TestDeleteTodos_BadRequest(t *testing.T) {
	h, _ := setupTestRouter(t)

	for _, target := range []string{"/todos", "/todos?ids=", "/todos?ids=1,x", "/todos?ids=-4"} {
		t.Run(target, func(t *testing.T) {
			if rec := do(t, h, http.MethodDelete, target, ""); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	h, _ := setupTestRouter(t)

	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPut, "/todos/1", `{}`); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT status = %d, want 405", rec.Code)
	}
}

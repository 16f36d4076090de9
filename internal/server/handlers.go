package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/muurk/todos/internal/logging"
	"github.com/muurk/todos/internal/store"
	"github.com/muurk/todos/internal/todo"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 64 << 10

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store store.Store
}

// NewHandlers creates handlers backed by s.
func NewHandlers(s store.Store) *Handlers {
	return &Handlers{store: s}
}

type errorBody struct {
	Message string `json:"message"`
}

type deleteManyBody struct {
	Deleted int64 `json:"deleted"`
}

// parseID extracts and validates the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, todo.NewValidationError("invalid todo id: " + chi.URLParam(r, "id"))
	}
	if err := todo.ValidateID(id); err != nil {
		return 0, err
	}
	return id, nil
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorBody{Message: message})
}

// respondInvalid answers 400 with the message of a validation error.
func respondInvalid(w http.ResponseWriter, err error) {
	var todoErr *todo.Error
	if errors.As(err, &todoErr) {
		respondError(w, http.StatusBadRequest, todoErr.Message)
		return
	}
	respondError(w, http.StatusBadRequest, err.Error())
}

// respondStoreError maps a store error to a status code.
func respondStoreError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, todo.NewNotFoundError(id).Message)
		return
	}
	logging.Error("Store operation failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int64("todo_id", id),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// decodeDraft reads a JSON draft from the request body.
func decodeDraft(w http.ResponseWriter, r *http.Request) (todo.Draft, bool) {
	var draft todo.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return draft, false
	}
	return draft, true
}

// ListTodos handles GET /todos.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.List(r.Context())
	if err != nil {
		respondStoreError(w, r, 0, err)
		return
	}
	respondJSON(w, http.StatusOK, todos)
}

// GetTodo handles GET /todos/{id}.
func (h *Handlers) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondInvalid(w, err)
		return
	}
	t, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, id, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// CreateTodo handles POST /todos.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	if err := draft.ValidateCreate(); err != nil {
		respondInvalid(w, err)
		return
	}

	var description string
	if draft.Description != nil {
		description = *draft.Description
	}
	t, err := h.store.Create(r.Context(), *draft.Title, description)
	if err != nil {
		respondStoreError(w, r, 0, err)
		return
	}
	logging.Info("Todo created", zap.Int64("todo_id", t.ID))
	respondJSON(w, http.StatusCreated, t)
}

// UpdateTodo handles PATCH /todos/{id}.
func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondInvalid(w, err)
		return
	}
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	if err := draft.ValidateUpdate(); err != nil {
		respondInvalid(w, err)
		return
	}

	t, err := h.store.Update(r.Context(), id, draft)
	if err != nil {
		respondStoreError(w, r, id, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// ToggleStatus handles PATCH /todos/change-status/{id}.
func (h *Handlers) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondInvalid(w, err)
		return
	}
	t, err := h.store.ToggleStatus(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, id, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// DeleteTodo handles DELETE /todos/{id}.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondInvalid(w, err)
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		respondStoreError(w, r, id, err)
		return
	}
	logging.Info("Todo deleted", zap.Int64("todo_id", id))
	respondJSON(w, http.StatusOK, deleteManyBody{Deleted: 1})
}

// DeleteTodos handles DELETE /todos?ids=1,2,3.
func (h *Handlers) DeleteTodos(w http.ResponseWriter, r *http.Request) {
	ids, err := todo.ParseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		respondInvalid(w, err)
		return
	}
	if len(ids) == 0 {
		respondError(w, http.StatusBadRequest, "ids query parameter is required")
		return
	}

	n, err := h.store.DeleteMany(r.Context(), ids)
	if err != nil {
		respondStoreError(w, r, 0, err)
		return
	}
	logging.Info("Todos deleted",
		zap.Int("requested", len(ids)),
		zap.Int64("deleted", n),
	)
	respondJSON(w, http.StatusOK, deleteManyBody{Deleted: n})
}

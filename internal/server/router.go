package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/muurk/todos/internal/logging"
	"github.com/muurk/todos/internal/store"
)

// NewRouter builds the chi router serving the todo REST routes.
func NewRouter(s store.Store) http.Handler {
	h := NewHandlers(s)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", h.ListTodos)
		r.Post("/", h.CreateTodo)
		r.Delete("/", h.DeleteTodos)

		r.Patch("/change-status/{id}", h.ToggleStatus)

		r.Get("/{id}", h.GetTodo)
		r.Patch("/{id}", h.UpdateTodo)
		r.Delete("/{id}", h.DeleteTodo)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// requestLogger logs every request through the zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logging.LogRequest("server", r.Method, r.URL.Path, ww.Status(), time.Since(start))
			logging.Debug("Request details",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("bytes_written", ww.BytesWritten()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

package state

import (
	"sync"
	"time"

	"github.com/muurk/todos/internal/logging"
)

// Level classifies a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a one-shot, user-visible message about an operation
type Notification struct {
	Level   Level
	Message string
	Err     error // Set for LevelError
	At      time.Time
}

// Notifier receives notifications. Implementations must not call back into
// the Container synchronously from Notify when they also hold their own locks.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Notification)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier only writes notifications to the log.
type LogNotifier struct{}

// Notify logs the notification
func (LogNotifier) Notify(n Notification) {
	logging.LogNotification(string(n.Level), n.Message)
}

// Recorder keeps every notification it receives. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	list []Notification
}

// Notify appends n
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.list))
	copy(out, r.list)
	return out
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.list) == 0 {
		return Notification{}, false
	}
	return r.list[len(r.list)-1], true
}

// Messages shown to the user. Wording follows the web front end this
// client replaces so both read the same.
const (
	msgLoadOK        = "Todos loaded successfully."
	msgLoadFail      = "Failed to fetch todos. Please try again later."
	msgAddOK         = "Todo added successfully."
	msgUpdateOK      = "Todo updated successfully."
	msgSaveFail      = "Failed to save todo. Please try again."
	msgDeleteOK      = "Todo deleted successfully."
	msgDeleteFail    = "Failed to delete todo. Please try again."
	msgToggleOK      = "Todo status updated successfully."
	msgToggleFail    = "Failed to update todo status. Please try again."
	msgBulkDeleteOK  = "Selected todos deleted successfully."
	msgBulkDeleteErr = "Failed to delete selected todos. Please try again."
	msgRefreshOK     = "Todo refreshed."
	msgRefreshGone   = "Todo no longer exists."
	msgRefreshFail   = "Failed to refresh todo. Please try again."
)

package tui

import (
	"go.uber.org/zap"

	"github.com/muurk/todos/internal/logging"
	"github.com/muurk/todos/internal/state"
)

// NotificationFeed carries container notifications into the bubbletea loop.
// It implements state.Notifier.
type NotificationFeed chan state.Notification

// NewNotificationFeed creates a buffered feed
func NewNotificationFeed() NotificationFeed {
	return make(NotificationFeed, 32)
}

// Notify forwards n without blocking; when the buffer is full the
// notification is only logged.
func (f NotificationFeed) Notify(n state.Notification) {
	logging.LogNotification(string(n.Level), n.Message)
	select {
	case f <- n:
	default:
		logging.Debug("Notification feed full, dropping toast", zap.String("message", n.Message))
	}
}

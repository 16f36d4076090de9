// Package tui implements the interactive terminal screen of todos.
//
// The screen is built with Bubble Tea and follows the Elm architecture:
// models are values, Update returns the next model plus a command, and
// every backend call runs inside a tea.Cmd on its own goroutine.
//
// # Components
//
//   - ItemView renders one todo row (checkbox, title, creation date,
//     status badge, collapsible markdown description). It owns only its
//     Expanded flag and reports user actions as intents: SelectIntent,
//     EditIntent, DeleteIntent and ToggleIntent.
//   - FormModel is the create/edit form. It reports SaveIntent or
//     CancelIntent and never talks to the backend.
//   - AppModel is the list screen. It turns intents into calls on a
//     state.Container and shows the container's notifications as toasts.
//
// # Usage
//
//	feed := tui.NewNotificationFeed()
//	store := state.New(client, state.WithNotifier(feed))
//	app := tui.NewAppModel(ctx, store, feed, tui.Options{Backend: url})
//	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
//
// Quitting cancels the context shared by all in-flight requests.
package tui

// Package state holds the client-side list of todos and the selection set.
//
// A Container is the single owner of both. It only changes in response to
// confirmed results from a todo.Service: nothing is applied optimistically,
// and a failed call leaves the list exactly as it was. Views read snapshots
// (Items, Selected) and call the intent methods; they never mutate state
// directly.
//
// # Stale Responses
//
// Intent methods block until their service call returns, and a UI runs
// several of them concurrently. Each mutation on an id takes a request
// token; when the response arrives it is applied only if no newer request
// for the same id has started since. Deletes are the exception: the item is
// gone on the backend, so a delete always applies and invalidates every
// older in-flight response for that id. LoadAll has its own token so a slow
// full fetch cannot overwrite a newer one.
//
// # Notifications
//
// Every operation that reaches the service produces exactly one
// Notification (success or failure) through the configured Notifier.
// Failures are also logged and returned to the caller.
package state

// Package logging provides structured logging for the todos client and server.
//
// This package wraps a global zap logger with a handful of convenience
// functions. Logging is silent unless a level is requested through
// --log-level or TODOS_LOG_LEVEL.
//
// # Log Levels
//
//   - Debug: every HTTP exchange, dropped stale responses
//   - Info: notifications shown to the user, server lifecycle
//   - Warn: failed operations, 5xx responses
//   - Error: startup failures
//
// # Configuration
//
//	if err := logging.InitializeWithOutput("debug", "/tmp/todos.log"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// The interactive UI draws on the terminal, so when it runs the log output
// must go to a file; the server logs to stderr.
package logging

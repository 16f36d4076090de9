// Package ui renders the non-interactive output of the todos CLI.
//
// Scripting commands (list, show, add, rm and friends) print through a
// Printer. When the destination is a terminal the output is styled with
// Lipgloss and sized to the terminal; otherwise it degrades to plain,
// tab-separated text that is safe to pipe into other tools.
//
// Notifications raised by the list state are printed one per line with a
// status marker, so the Printer can be handed to state.New as a Notifier.
//
// Logging stays silent unless --log-level or TODOS_LOG_LEVEL is set, so the
// curated output here is all the user sees.
package ui

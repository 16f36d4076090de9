// Todos is a terminal client for a REST todo backend.
//
// Running without arguments launches the interactive list. Subcommands
// expose the same operations for scripting, plus backend discovery and
// profile management.
//
// Usage:
//
//	todos [command] [flags]
//
// See 'todos --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/todos/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "todos",
	Short: "Terminal client for a todo backend",
	Long: `A terminal client for a REST todo backend.

Lists, creates, edits, completes and deletes todo items. The backend is
chosen by --url, the TODOS_URL environment variable, a saved profile, or
http://localhost:3000, in that order.

If no command is specified, the interactive list will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the interactive list when no subcommand provided
		return runUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Assigned here: setup refers back to rootCmd
	rootCmd.PersistentPreRunE = setup

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Needs no backend or config
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Printf("todos %s (commit: %s, %s, %s)\n", info.Version, info.Commit, info.GoVersion, info.Platform)
	},
}

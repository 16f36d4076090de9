// Todos-server is the reference REST backend for the todos client.
//
// It stores todos in SQLite and serves the /todos API. With --advertise it
// announces itself over mDNS so 'todos scan' can find it.
//
// Usage:
//
//	todos-server [flags]
//
// See 'todos-server --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/todos/internal/logging"
	"github.com/muurk/todos/internal/server"
	"github.com/muurk/todos/internal/store"
	"github.com/muurk/todos/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Server flags
var (
	addr      string
	dbPath    string
	advertise bool
	instance  string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "todos-server",
	Short: "Reference todo backend",
	Long: `A small REST backend for the todos client, backed by SQLite.

Routes:
  GET    /todos                     list, newest first
  POST   /todos                     create
  DELETE /todos?ids=1,2,3           bulk delete
  GET    /todos/{id}                fetch one
  PATCH  /todos/{id}                partial update
  DELETE /todos/{id}                delete one
  PATCH  /todos/change-status/{id}  toggle completion`,
	Example: `  # Serve on :3000 with todos.db in the current directory
  todos-server

  # In-memory database, announced on the local network
  todos-server --db :memory: --advertise --log-level debug`,
	Version:       version.Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&addr, "addr", ":3000", "Listen address")
	rootCmd.Flags().StringVar(&dbPath, "db", "todos.db", "SQLite database path (:memory: for a throwaway store)")
	rootCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the server over mDNS (_todos._tcp)")
	rootCmd.Flags().StringVar(&instance, "name", "", "mDNS instance name (default \"todos on <hostname>\")")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer s.Close()
	logging.Info("Opened database", zap.String("path", dbPath))

	srv := server.New(&server.Config{
		Addr:      addr,
		Advertise: advertise,
		Instance:  instance,
		Version:   version.Version,
	}, s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("todos-server %s\n", version.Full())
	},
}

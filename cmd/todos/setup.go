package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/todos/internal/config"
	"github.com/muurk/todos/internal/logging"
	"github.com/muurk/todos/internal/state"
	"github.com/muurk/todos/internal/todo"
	"github.com/muurk/todos/internal/ui"
	"github.com/muurk/todos/internal/version"
)

// Global flags
var (
	backendURL  string
	profileName string
	timeoutSecs int
	logLevel    string
	logFile     string
	quiet       bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&backendURL, "url", "", "Backend URL (overrides TODOS_URL and profiles)")
	flags.StringVar(&profileName, "profile", "", "Saved backend profile to use")
	flags.IntVar(&timeoutSecs, "timeout", 0, "Request timeout in seconds (default from config, 10)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only report failures on stderr")
}

// session is what every command gets after setup
type session struct {
	registry *config.Registry
	path     string
	backend  config.Resolved
	stdout   *ui.Printer
	stderr   *ui.Printer
}

var current *session

// setup loads the config, initializes logging and resolves the backend.
func setup(cmd *cobra.Command, args []string) error {
	reg, path, err := config.LoadRegistry()
	if err != nil {
		return err
	}
	prefs := reg.Prefs()

	level := logLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		level = prefs.LogLevel
	}
	output := logFile
	if output == "" && level != "" && isInteractive(cmd) && os.Getenv(logging.LogFileEnvVar) == "" {
		// The interactive list owns the terminal
		output = filepath.Join(filepath.Dir(path), "todos.log")
		if err := os.MkdirAll(filepath.Dir(output), 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := logging.InitializeWithOutput(level, output); err != nil {
		return err
	}

	resolved, err := config.ResolveURL(reg, backendURL, profileName)
	if err != nil {
		return err
	}
	logging.Debug("Resolved backend",
		zap.String("url", resolved.URL),
		zap.String("source", string(resolved.Source)),
		zap.String("profile", resolved.Profile),
		zap.String("config", path),
	)

	current = &session{
		registry: reg,
		path:     path,
		backend:  resolved,
		stdout:   ui.NewPrinter(os.Stdout).SetDateLayout(prefs.DateLayout()),
		stderr:   ui.NewPrinter(os.Stderr),
	}
	return nil
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == uiCmd
}

// client builds the HTTP client for the resolved backend
func (s *session) client() *todo.Client {
	c := todo.NewClient(s.backend.URL)
	c.UserAgent = version.UserAgent()
	timeout := s.registry.Prefs().RequestTimeout()
	if timeoutSecs > 0 {
		timeout = time.Duration(timeoutSecs) * time.Second
	}
	c.SetTimeout(timeout)
	return c
}

// notifier prints list-state notifications to stderr. Successes are
// dropped when successes is false.
func (s *session) notifier(successes bool) state.Notifier {
	return state.NotifierFunc(func(n state.Notification) {
		logging.LogNotification(string(n.Level), n.Message)
		if !successes && n.Level == state.LevelSuccess {
			return
		}
		s.stderr.Notify(n)
	})
}

// container builds a list state for scripting commands. Later options
// override earlier ones.
func (s *session) container(opts ...state.Option) *state.Container {
	base := []state.Option{state.WithNotifier(s.notifier(!quiet))}
	return state.New(s.client(), append(base, opts...)...)
}

// touch records use of the profile the backend came from
func (s *session) touch() {
	if s.backend.Source != config.SourceProfile {
		return
	}
	s.registry.TouchProfile(s.backend.Profile, time.Now())
	if err := s.registry.SaveTo(s.path); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

// commandContext returns the command's context, never nil
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

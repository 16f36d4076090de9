package main

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/muurk/todos/internal/config"
	"github.com/muurk/todos/internal/server"
	"github.com/muurk/todos/internal/store"
)

// setupBackend starts a reference server and points the config at a temp file
func setupBackend(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ts := httptest.NewServer(server.NewRouter(s))
	t.Cleanup(ts.Close)

	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(config.EnvURL, "")
	return s, ts.URL
}

// execute runs the CLI with flags reset, since cobra keeps values between runs
func execute(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseID(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestCommandsAgainstBackend(t *testing.T) {
	s, url := setupBackend(t)
	ctx := context.Background()

	if err := execute(t, "--url", url, "-q", "add", "Buy", "milk", "-d", "2 litres"); err != nil {
		t.Fatalf("add: %v", err)
	}
	todos, _ := s.List(ctx)
	if len(todos) != 1 || todos[0].Title != "Buy milk" || todos[0].Description != "2 litres" {
		t.Fatalf("after add = %+v", todos)
	}
	id := todos[0].ID

	if err := execute(t, "--url", url, "-q", "edit", "1", "--title", "Buy oat milk"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := execute(t, "--url", url, "-q", "toggle", "1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, _ := s.Get(ctx, id)
	if got.Title != "Buy oat milk" || got.Description != "2 litres" || !got.IsCompleted {
		t.Errorf("after edit+toggle = %+v", got)
	}

	if err := execute(t, "--url", url, "-q", "list", "--format", "json"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := execute(t, "--url", url, "show", "1"); err != nil {
		t.Fatalf("show: %v", err)
	}

	s.Create(ctx, "b", "")
	s.Create(ctx, "c", "")
	if err := execute(t, "--url", url, "-q", "rm", "1", "2", "--yes"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	todos, _ = s.List(ctx)
	if len(todos) != 1 || todos[0].Title != "c" {
		t.Errorf("after rm = %+v", todos)
	}
}

func TestCommandErrors(t *testing.T) {
	_, url := setupBackend(t)

	tests := []struct {
		name string
		args []string
	}{
		{"blank title", []string{"--url", url, "-q", "add", "   "}},
		{"missing todo", []string{"--url", url, "-q", "toggle", "99"}},
		{"bad id", []string{"--url", url, "-q", "rm", "x"}},
		{"edit without fields", []string{"--url", url, "-q", "edit", "1"}},
		{"unknown list format", []string{"--url", url, "list", "--format", "xml"}},
		{"unknown profile", []string{"--profile", "nope", "list"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Errorf("%v succeeded, want error", tt.args)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	_, url := setupBackend(t)

	if err := execute(t, "config", "set-url", url, "--name", "local"); err != nil {
		t.Fatalf("set-url: %v", err)
	}
	if err := execute(t, "config", "set-url", "http://example.test:3000", "--name", "other"); err != nil {
		t.Fatalf("set-url other: %v", err)
	}
	if err := execute(t, "config", "use", "other"); err != nil {
		t.Fatalf("use: %v", err)
	}
	if err := execute(t, "config", "use", "missing"); err == nil {
		t.Error("use of unknown profile succeeded")
	}

	reg, _, err := config.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if reg.CurrentProfile != "other" {
		t.Errorf("CurrentProfile = %q, want other", reg.CurrentProfile)
	}
	if p := reg.Profile("local"); p == nil || p.URL != url {
		t.Errorf("local profile = %+v", p)
	}

	// The profile is used when no --url is given.
	if err := execute(t, "--profile", "local", "-q", "add", "via profile"); err != nil {
		t.Errorf("add via profile: %v", err)
	}
}

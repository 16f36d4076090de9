package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	t.Setenv(LogFileEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitializeWithOutput_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.log")

	if err := InitializeWithOutput("info", path); err != nil {
		t.Fatalf("InitializeWithOutput() error = %v", err)
	}
	t.Cleanup(func() { SetLogger(nil) })

	LogNotification("success", "Todo added successfully.")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "Todo added successfully.") {
		t.Errorf("log file missing notification, got: %s", data)
	}
}

func TestLogRequest_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	LogRequest("client", "GET", "/todos", 200, time.Millisecond)
	LogRequest("server", "DELETE", "/todos/1", 500, time.Millisecond)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("2xx logged at %v, want debug", entries[0].Level)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("5xx logged at %v, want warn", entries[1].Level)
	}
	if got := entries[1].ContextMap()["path"]; got != "/todos/1" {
		t.Errorf("path field = %v, want /todos/1", got)
	}
}

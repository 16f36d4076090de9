package server

import (
	"context"
	"testing"
	"time"

	"github.com/muurk/todos/internal/store"
	"github.com/muurk/todos/internal/todo"
)

func TestServerRunAndShutdown(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	defer s.Close()

	srv := New(&Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// Wait for the listener to bind.
	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == "127.0.0.1:0" {
		if time.Now().After(deadline) {
			t.Fatal("server did not start listening")
		}
		time.Sleep(10 * time.Millisecond)
	}

	client := todo.NewClient("http://" + srv.Addr())
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNew_DefaultShutdownTimeout(t *testing.T) {
	cfg := &Config{Addr: ":0"}
	New(cfg, nil)
	if cfg.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, DefaultShutdownTimeout)
	}
}

func TestDefaultInstance(t *testing.T) {
	if got := DefaultInstance(); got == "" {
		t.Error("DefaultInstance() is empty")
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/todos/internal/discovery"
	"github.com/muurk/todos/internal/logging"
	"github.com/muurk/todos/internal/store"
)

// DefaultShutdownTimeout bounds how long Run waits for in-flight requests
const DefaultShutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Addr string // Listen address, e.g. ":3000"

	Advertise bool   // Register over mDNS after listening
	Instance  string // mDNS instance name (defaults to "todos on <host>")
	Version   string // Advertised in the version TXT record

	ShutdownTimeout time.Duration
}

// Server serves the todo REST API over HTTP
type Server struct {
	config     *Config
	httpServer *http.Server

	mu         sync.Mutex
	listener   net.Listener
	advertiser *discovery.Advertiser
}

// New creates a server for the given store. The caller owns the store.
func New(config *Config, s store.Store) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		config: config,
		httpServer: &http.Server{
			Addr:              config.Addr,
			Handler:           NewRouter(s),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Addr returns the bound listen address, or the configured one before Run.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

// Run listens and serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logging.Info("Starting todos server",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("advertise", s.config.Advertise),
	)

	if s.config.Advertise {
		if err := s.advertise(listener.Addr()); err != nil {
			// Serving still works without discovery.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping server...")
		return s.Shutdown()
	case err := <-errChan:
		s.stopAdvertising()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

func (s *Server) advertise(addr net.Addr) error {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("cannot advertise non-TCP address %s", addr)
	}
	instance := s.config.Instance
	if instance == "" {
		instance = DefaultInstance()
	}

	adv, err := discovery.Advertise(instance, tcpAddr.Port, s.config.Version)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.advertiser = adv
	s.mu.Unlock()

	return nil
}

func (s *Server) stopAdvertising() {
	s.mu.Lock()
	adv := s.advertiser
	s.advertiser = nil
	s.mu.Unlock()
	if adv != nil {
		adv.Shutdown()
	}
}

// Shutdown stops advertising and waits for in-flight requests.
func (s *Server) Shutdown() error {
	s.stopAdvertising()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logging.Info("Server stopped")
	logging.Sync()
	return nil
}

// DefaultInstance names the mDNS instance after the host.
func DefaultInstance() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "todos"
	}
	return "todos on " + host
}

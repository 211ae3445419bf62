package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

const shutdownTimeout = 5 * time.Second

// Server runs the read-only HTTP API on demand. At most one listener is open
// at a time.
type Server struct {
	addr    string
	handler http.Handler
	log     hclog.Logger

	mu    sync.Mutex
	srv   *http.Server
	bound string
	since time.Time
	done  chan error
}

func NewServer(addr string, handler http.Handler, log hclog.Logger) *Server {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Server{addr: addr, handler: handler, log: log.Named("server")}
}

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.addr }

func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listener and serves in the background. It returns the bound
// address, which differs from the configured one when that ends in ":0".
func (s *Server) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return s.bound, nil
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", s.addr, err)
	}
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}
	done := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()
	s.srv, s.done = srv, done
	s.bound = ln.Addr().String()
	s.since = time.Now()
	s.log.Info("api listening", "addr", s.bound)
	return s.bound, nil
}

// Stop shuts the listener down, waiting for in-flight requests until ctx or
// the shutdown timeout expires. Stopping a stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.srv, s.done
	s.srv, s.done, s.bound = nil, nil, ""
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	if err := <-done; err != nil {
		return fmt.Errorf("serve api: %w", err)
	}
	s.log.Info("api stopped")
	return nil
}

func (s *Server) Running() (string, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound, s.since, s.srv != nil
}

// Serve starts the server and blocks until ctx is done or serving fails.
func (s *Server) Serve(ctx context.Context) error {
	if _, err := s.Start(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	select {
	case <-ctx.Done():
		return s.Stop(context.Background())
	case err := <-done:
		s.mu.Lock()
		s.srv, s.done, s.bound = nil, nil, ""
		s.mu.Unlock()
		return err
	}
}

// Package server accepts client connections and runs one protocol loop
// per connection, bounded by a fixed worker pool. Each line received is
// parsed, dispatched through the connection's session and answered with
// OK or NOK; only transport failures terminate a connection.
package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/passsecure/passsecure/internal/cipher"
	"github.com/passsecure/passsecure/internal/session"
	"github.com/passsecure/passsecure/internal/vault"
)

// Server owns the listener, the worker pool and the shared state every
// connection dispatches against.
type Server struct {
	workers  int
	store    *vault.Store
	engine   *cipher.Engine
	registry *session.Registry
	log      *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   bool

	active atomic.Int64
}

// New constructs a Server. workers bounds the number of concurrently
// served connections; when all workers are busy, accepted connections
// wait for a free one.
func New(workers int, store *vault.Store, engine *cipher.Engine, log *zap.Logger) *Server {
	if workers <= 0 {
		workers = 1
	}
	return &Server{
		workers:  workers,
		store:    store,
		engine:   engine,
		registry: session.NewRegistry(),
		log:      log,
	}
}

// Registry exposes the active-user registry, used by the debug
// endpoint for session counts.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

// ActiveConnections returns the number of connections currently being
// served.
func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

// ListenAndServe listens on addr and serves until Close is called or
// the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve runs the accept loop on ln, handing each connection to the
// worker pool. It returns once the listener is closed.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return net.ErrClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	// Unbuffered: a saturated pool delays accept instead of queueing.
	conns := make(chan net.Conn)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for conn := range conns {
				s.handle(conn)
			}
		}()
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			close(conns)
			wg.Wait()
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		conns <- conn
	}
}

// Close stops the accept loop. Connections already handed to workers
// run to completion.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

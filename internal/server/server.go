// Package server hosts sequences over JSON-RPC 2.0: a plain HTTP bridge
// for compile-only calls and a WebSocket endpoint that plays sequences
// and pushes step events.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/publieople/termseq/pkg/logger"
)

const (
	// DEF_ADDR is the listen address when none is configured.
	DEF_ADDR = "127.0.0.1:7312"

	shutdownTimeout = 5 * time.Second
)

// Server serves the RPC endpoints on one listener.
type Server struct {
	addr     string
	log      logger.Logger
	rpc      *RPCServer
	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a Server listening on addr once started.
func NewServer(l logger.Logger, addr string, cfg *RPCConfig) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if addr == "" {
		addr = DEF_ADDR
	}
	return &Server{
		addr: addr,
		log:  l,
		rpc:  NewRPCServer(cfg, l),
	}
}

// Handler returns the HTTP routes:
//
//	POST /jsonrpc     jrpc2 HTTP bridge
//	GET  /jsonrpc/ws  push-enabled WebSocket
//
// Both require the bearer token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(s.rpc.secret, s.rpc.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(s.rpc.secret, http.HandlerFunc(s.rpc.handleWS)))
	return mux
}

// Listen binds the listener without serving yet, so callers can learn the
// address of ":0" listeners.
func (s *Server) Listen() (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr(), nil
	}
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, err
	}
	s.listener = l
	return l.Addr(), nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if _, err := s.Listen(); err != nil {
		return err
	}
	s.mu.Lock()
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	srv, l := s.server, s.listener
	s.mu.Unlock()

	// Watch for context cancellation to trigger shutdown
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.log.Error("shutdown: %v", err)
		}
	}()

	s.log.Info("serving JSON-RPC on %s", l.Addr())
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil // Expected during shutdown
	}
	return err
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rpc.Close()
	if s.server == nil {
		if s.listener != nil {
			err := s.listener.Close()
			s.listener = nil
			return err
		}
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(shutdownCtx)
	s.server = nil
	s.listener = nil
	return err
}

// Sessions returns the number of open WebSocket sessions.
func (s *Server) Sessions() int {
	return s.rpc.sessions.Count()
}

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"minichat/contract"
	"minichat/moderation"
	"minichat/observability"
	"net"
	"sync"
	"time"
)

// Server accepts raw connections and hands each one to a fresh Session.
// It runs as a supervised worker: Run blocks until the context is canceled
// (clean stop) or the listener faults (the supervisor restarts it).
// One goroutine per accepted connection, no admission limit.
type Server struct {
	log          *slog.Logger
	registry     contract.IRegistry
	moderator    *moderation.Moderator
	monitoring   *observability.MonitoringManager
	addr         string
	bufferSize   int
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu        sync.Mutex
	listener  net.Listener
	ready     chan struct{}
	readyOnce sync.Once
	wg        sync.WaitGroup
}

var _ contract.Worker = (*Server)(nil)

func NewServer(addr string, registry contract.IRegistry, moderator *moderation.Moderator,
	monitoring *observability.MonitoringManager, bufferSize int,
	readTimeout, writeTimeout time.Duration, log *slog.Logger) *Server {
	return &Server{
		log:          log,
		registry:     registry,
		moderator:    moderator,
		monitoring:   monitoring,
		addr:         addr,
		bufferSize:   bufferSize,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		ready:        make(chan struct{}),
	}
}

// Addr blocks until the listener is bound, then returns its address.
// Useful when the configured port is 0.
func (s *Server) Addr(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.ready:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener.Addr().String(), nil
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	// Closing the listener is the only way to unblock Accept.
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	s.log.Info("Chat server listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("Listener closed, waiting for sessions to finish")
				s.wg.Wait()
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		s.monitoring.IncrConnectionsOpened()
		s.log.Debug("Client connected", "remote", conn.RemoteAddr().String())

		session := NewSession(conn, s.registry, s.moderator, s.monitoring,
			s.bufferSize, s.readTimeout, s.writeTimeout, s.log)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			session.Run(ctx)
		}()
	}
}

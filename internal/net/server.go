package net

import (
	"errors"
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Server accepts watcher connections and hands their sessions to the game
// loop through NewSessions.
type Server struct {
	listener net.Listener
	limits   Limits
	nextID   atomic.Uint64
	accepted chan *Session
	log      *zap.Logger
}

// NewServer listens on bindAddr. Call AcceptLoop to start accepting.
func NewServer(bindAddr string, lim Limits, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		limits:   lim,
		accepted: make(chan *Session, 64),
		log:      log,
	}, nil
}

// AcceptLoop accepts connections until Shutdown.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if err != nil {
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		sess := NewSession(conn, s.nextID.Add(1), s.limits, s.log)
		sess.Start()
		s.log.Info("watcher connected", zap.Uint64("session", sess.ID), zap.String("ip", sess.IP))

		select {
		case s.accepted <- sess:
		default:
			s.log.Warn("connection queue full, rejecting watcher", zap.String("ip", sess.IP))
			sess.CloseWith("server busy")
		}
	}
}

// NewSessions yields sessions accepted since the last read.
func (s *Server) NewSessions() <-chan *Session {
	return s.accepted
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown() {
	s.listener.Close()
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

package net

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/voxelflow/server/internal/net/packet"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// Session is one watcher connection. The read and write loops own the
// socket; everything else runs on the game loop.
type Session struct {
	ID   uint64
	IP   string
	Name string // set by the watch request

	InQueue  chan []byte // read loop -> game loop
	OutQueue chan []byte // game loop -> write loop

	conn  net.Conn
	state atomic.Int32 // packet.SessionState

	outBuf [][]byte // game loop only, flushed once per tick
	rate   rateWindow

	received atomic.Uint64
	sent     atomic.Uint64

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, lim Limits, log *zap.Logger) *Session {
	s := &Session{
		ID:       id,
		IP:       conn.RemoteAddr().String(),
		InQueue:  make(chan []byte, lim.InQueue),
		OutQueue: make(chan []byte, lim.OutQueue),
		conn:     conn,
		rate:     rateWindow{limit: lim.PacketsPerSec},
		closeCh:  make(chan struct{}),
		log:      log.With(zap.Uint64("session", id)),
	}
	s.state.Store(int32(packet.StateHandshake))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

// Start launches the read and write loops.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a packet until the next FlushOutput.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, data)
}

// FlushOutput hands buffered packets to the write loop. A watcher whose
// queue is full is too slow to follow the grid and is dropped.
func (s *Session) FlushOutput() {
	defer func() { s.outBuf = s.outBuf[:0] }()
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("output queue full, dropping slow watcher", zap.Int("queued", len(s.OutQueue)))
			s.CloseWith("output queue full")
			return
		}
	}
}

// Close shuts the session down with no particular reason.
func (s *Session) Close() {
	s.CloseWith("closed")
}

// CloseWith shuts the session down and records why. Only the first reason
// is kept.
func (s *Session) CloseWith(reason string) {
	s.closeOnce.Do(func() {
		s.reason.Store(reason)
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// CloseReason returns the reason given to CloseWith, or "" while open.
func (s *Session) CloseReason() string {
	r, _ := s.reason.Load().(string)
	return r
}

// Received and Sent count frames read from and written to the socket.
func (s *Session) Received() uint64 { return s.received.Load() }
func (s *Session) Sent() uint64     { return s.sent.Load() }

func (s *Session) readLoop() {
	for {
		payload, err := ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			s.CloseWith("read: connection lost")
			return
		}
		s.received.Add(1)
		if !s.rate.allow(time.Now()) {
			s.log.Warn("packet rate exceeded, disconnecting", zap.Int("limit", s.rate.limit))
			s.CloseWith("packet rate exceeded")
			return
		}
		// Blocks rather than drops: a lost placement would desync the watcher.
		select {
		case s.InQueue <- payload:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case data := <-s.OutQueue:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := WriteFrame(s.conn, data); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Int("len", len(data)), zap.Error(err))
				}
				s.CloseWith("write: connection lost")
				return
			}
			s.sent.Add(1)
		case <-s.closeCh:
			return
		}
	}
}

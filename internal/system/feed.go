package system

import (
	"sort"
	"time"

	coresys "github.com/voxelflow/server/internal/core/system"
	"github.com/voxelflow/server/internal/handler"
	"github.com/voxelflow/server/internal/net"
	"github.com/voxelflow/server/internal/net/packet"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// SessionSource hands newly connected watchers to the game loop.
// Implemented by net.Server.
type SessionSource interface {
	NewSessions() <-chan *net.Session
}

// FeedSystem adopts new watcher sessions, drops closed ones and dispatches
// their queued packets through the registry. Placements received here are
// queued and applied by InputSystem on the next tick. Phase 0 (Input).
type FeedSystem struct {
	source     SessionSource
	registry   *packet.Registry
	sessions   map[uint64]*net.Session
	maxPerTick int
	log        *zap.Logger
}

func NewFeedSystem(source SessionSource, registry *packet.Registry, maxPerTick int, log *zap.Logger) *FeedSystem {
	return &FeedSystem{
		source:     source,
		registry:   registry,
		sessions:   make(map[uint64]*net.Session),
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *FeedSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *FeedSystem) Update(_ time.Duration) {
	s.adopt()
	for _, sess := range s.ordered() {
		if sess.IsClosed() {
			delete(s.sessions, sess.ID)
			s.log.Info("watcher disconnected",
				zap.Uint64("session", sess.ID),
				zap.String("name", sess.Name),
				zap.String("reason", sess.CloseReason()),
				zap.Uint64("received", sess.Received()),
				zap.Uint64("sent", sess.Sent()))
			continue
		}
		s.drain(sess)
		sess.FlushOutput()
	}
}

// Add registers a session directly, bypassing the source.
func (s *FeedSystem) Add(sess *net.Session) {
	s.sessions[sess.ID] = sess
}

// Len returns the number of connected sessions.
func (s *FeedSystem) Len() int { return len(s.sessions) }

// StatFields summarises packet traffic for the periodic stats log.
func (s *FeedSystem) StatFields() []zap.Field {
	handled, unknown, rejected := s.registry.Stats()
	return []zap.Field{
		zap.Any("packets", handled),
		zap.Uint64("packets_unknown", unknown),
		zap.Uint64("packets_rejected", rejected),
	}
}

func (s *FeedSystem) adopt() {
	if s.source == nil {
		return
	}
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.sessions[sess.ID] = sess
		default:
			return
		}
	}
}

func (s *FeedSystem) drain(sess *net.Session) {
	for n := 0; s.maxPerTick <= 0 || n < s.maxPerTick; n++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Warn("packet rejected, closing watcher",
					zap.Uint64("session", sess.ID), zap.Error(err))
				sess.CloseWith("bad packet")
				return
			}
		default:
			return
		}
	}
}

func (s *FeedSystem) ordered() []*net.Session {
	out := make([]*net.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sink returns a ChangeSink that streams grid changes to every watching
// session.
func (s *FeedSystem) Sink() ChangeSink {
	return func(tick int64, changes []world.Change) {
		var frames [][]byte
		for _, sess := range s.ordered() {
			if sess.IsClosed() || sess.State() != packet.StateWatching {
				continue
			}
			if frames == nil {
				frames = handler.BuildChanges(tick, changes)
			}
			for _, f := range frames {
				sess.Send(f)
			}
			sess.FlushOutput()
		}
	}
}

package packet

import (
	"fmt"

	"go.uber.org/zap"
)

// SessionState is the protocol phase of a feed connection.
type SessionState int

const (
	StateHandshake SessionState = iota // connected, no watch request yet
	StateWatching                      // receives grid changes
	StateDisconnecting
)

var stateNames = [...]string{"Handshake", "Watching", "Disconnecting"}

func (s SessionState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
	return stateNames[s]
}

// HandlerFunc handles one decoded packet. sess is the caller's session type,
// kept opaque here so this package does not import net.
type HandlerFunc func(sess any, r *Reader)

type route struct {
	name    string
	states  uint8 // bit per SessionState
	fn      HandlerFunc
	handled uint64
}

// Registry routes client opcodes to handlers, gated on session state.
// Not safe for concurrent use; dispatch happens on the tick goroutine.
type Registry struct {
	routes   [256]*route
	unknown  uint64
	rejected uint64
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log}
}

// Register binds opcode to fn, accepted only in the listed states.
// Registering an opcode twice panics.
func (reg *Registry) Register(opcode byte, name string, states []SessionState, fn HandlerFunc) {
	if reg.routes[opcode] != nil {
		panic(fmt.Sprintf("packet: opcode %d registered twice", opcode))
	}
	rt := &route{name: name, fn: fn}
	for _, s := range states {
		rt.states |= 1 << uint(s)
	}
	reg.routes[opcode] = rt
}

// Name returns the registered name of opcode, or its number.
func (reg *Registry) Name(opcode byte) string {
	if rt := reg.routes[opcode]; rt != nil {
		return rt.name
	}
	return fmt.Sprintf("op%d", opcode)
}

// Dispatch runs the handler for data[0]. Unknown opcodes are counted and
// dropped. An opcode sent in the wrong state, an empty payload, or a
// handler panic is returned as an error so the caller can drop the session.
func (reg *Registry) Dispatch(sess any, state SessionState, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty packet")
	}
	opcode := data[0]
	rt := reg.routes[opcode]
	if rt == nil {
		reg.unknown++
		reg.log.Debug("unknown opcode", zap.Uint8("opcode", opcode), zap.Stringer("state", state))
		return nil
	}
	if rt.states&(1<<uint(state)) == 0 {
		reg.rejected++
		reg.log.Warn("opcode not allowed in state",
			zap.String("packet", rt.name), zap.Stringer("state", state))
		return fmt.Errorf("%s not allowed in state %s", rt.name, state)
	}
	rt.handled++
	return reg.call(rt, sess, NewReader(data))
}

func (reg *Registry) call(rt *route, sess any, r *Reader) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.String("packet", rt.name), zap.Any("panic", rec))
			err = fmt.Errorf("handler panic in %s: %v", rt.name, rec)
		}
	}()
	rt.fn(sess, r)
	return nil
}

// Stats reports how many packets each named handler ran, plus the unknown
// and rejected totals.
func (reg *Registry) Stats() (handled map[string]uint64, unknown, rejected uint64) {
	handled = make(map[string]uint64)
	for _, rt := range reg.routes {
		if rt != nil {
			handled[rt.name] = rt.handled
		}
	}
	return handled, reg.unknown, reg.rejected
}
